package user

import (
	"context"
	"errors"
	"time"

	"user_portal/internal/observability"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserServiceInterface interface {
	CreateUser(ctx context.Context, name, username, password string, role Role) (*User, error)
	RegisterUser(ctx context.Context, name, username, password string, role Role) (*User, error)
	GetUser(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*UserSummary, error)
	EnsureAdmin(ctx context.Context, name, username, password string) (bool, error)
	Ping(ctx context.Context) error
}

type UserService struct {
	repo    UserRepositoryInterface
	metrics *observability.Metrics
	now     func() time.Time
}

func NewUserService(repo UserRepositoryInterface, metrics *observability.Metrics) *UserService {
	return &UserService{
		repo:    repo,
		metrics: metrics,
		now:     time.Now,
	}
}

// CreateUser stores a new record. An empty role means RoleUser. The username
// is not checked for existing records; use RegisterUser for that.
func (s *UserService) CreateUser(ctx context.Context, name, username, password string, role Role) (*User, error) {
	role, err := ParseRole(string(role))
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:        uuid.NewString(),
		Name:      name,
		Username:  username,
		Password:  password,
		Role:      role,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.metrics.ObserveUserCreated(string(role))
	return user, nil
}

// RegisterUser rejects usernames that already have a record, then creates.
// The lookup and the insert are separate calls, so concurrent registrations
// of the same username can both succeed.
func (s *UserService) RegisterUser(ctx context.Context, name, username, password string, role Role) (*User, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logrus.WithField("username", username).Warn("Username already exists")
		return nil, ErrUsernameTaken
	}

	return s.CreateUser(ctx, name, username, password, role)
}

// GetUser returns (nil, nil) when username is unknown.
func (s *UserService) GetUser(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*UserSummary, error) {
	return s.repo.List(ctx)
}

// EnsureAdmin creates an admin account unless username is already taken.
// It reports whether a record was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, username, password string) (bool, error) {
	_, err := s.RegisterUser(ctx, name, username, password, RoleAdmin)
	if errors.Is(err, ErrUsernameTaken) {
		logrus.WithField("username", username).Info("Bootstrap admin already present")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	logrus.WithField("username", username).Info("Bootstrap admin created")
	return true, nil
}

func (s *UserService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
