package auth

import (
	"context"

	"user_portal/internal/observability"
	"user_portal/internal/user"

	"github.com/sirupsen/logrus"
)

// UserLookup is the read side of the credential store.
type UserLookup interface {
	GetUser(ctx context.Context, username string) (*user.User, error)
}

type Authenticator struct {
	users   UserLookup
	metrics *observability.Metrics
}

func NewAuthenticator(users UserLookup, metrics *observability.Metrics) *Authenticator {
	return &Authenticator{
		users:   users,
		metrics: metrics,
	}
}

// Validate returns the stored user when username exists and password matches
// exactly. An unknown username and a wrong password both yield (nil, nil).
// Only store failures are returned as errors.
func (a *Authenticator) Validate(ctx context.Context, username, password string) (*user.User, error) {
	u, err := a.users.GetUser(ctx, username)
	if err != nil {
		a.metrics.ObserveAuthAttempt(observability.AuthResultError)
		logrus.WithError(err).WithField("username", username).Error("Failed to look up credentials")
		return nil, err
	}

	if u == nil || !ComparePassword(u.Password, password) {
		a.metrics.ObserveAuthAttempt(observability.AuthResultFailure)
		logrus.WithField("username", username).Info("Invalid credentials")
		return nil, nil
	}

	a.metrics.ObserveAuthAttempt(observability.AuthResultSuccess)
	logrus.WithFields(logrus.Fields{
		"username": u.Username,
		"role":     u.Role,
	}).Info("Credentials validated")

	return u, nil
}
