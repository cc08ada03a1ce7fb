package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"user_portal/internal/observability"

	"github.com/sirupsen/logrus"
)

type UserRepositoryInterface interface {
	// Create appends a record. It does not check whether the username is in use.
	Create(ctx context.Context, user *User) error
	// GetByUsername returns (nil, nil) when no record matches.
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*UserSummary, error)
	Ping(ctx context.Context) error
}

type UserRepository struct {
	db      *sql.DB
	metrics *observability.Metrics
}

func NewUserRepository(db *sql.DB, metrics *observability.Metrics) UserRepositoryInterface {
	return &UserRepository{
		db:      db,
		metrics: metrics,
	}
}

// Create inserts a new user row
func (r *UserRepository) Create(ctx context.Context, user *User) error {
	defer r.metrics.ObserveStoreOperation("sql", "create", time.Now())

	query := `
		INSERT INTO users (
			id, name, username, password, role, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Username,
		user.Password,
		string(user.Role),
		user.CreatedAt,
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to create user")
		return fmt.Errorf("insert user %s: %w", user.Username, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}).Info("User created successfully")

	return nil
}

// GetByUsername retrieves the first user stored under username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	defer r.metrics.ObserveStoreOperation("sql", "get", time.Now())

	query := `
		SELECT id, name, username, password, role, created_at
		FROM users
		WHERE username = $1
		ORDER BY created_at, id
		LIMIT 1
	`

	user := &User{}
	var role string
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Password,
		&role,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logrus.WithField("username", username).Debug("User not found")
			return nil, nil
		}
		logrus.WithError(err).Error("Failed to get user by username")
		return nil, fmt.Errorf("query user %s: %w", username, err)
	}

	user.Role = Role(role)
	return user, nil
}

// List returns every user without the password column
func (r *UserRepository) List(ctx context.Context) ([]*UserSummary, error) {
	defer r.metrics.ObserveStoreOperation("sql", "list", time.Now())

	query := `
		SELECT name, username, role
		FROM users
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*UserSummary, 0)
	for rows.Next() {
		var u UserSummary
		var role string
		if err := rows.Scan(&u.Name, &u.Username, &role); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		u.Role = Role(role)
		users = append(users, &u)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
