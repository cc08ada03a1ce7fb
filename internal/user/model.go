package user

import (
	"errors"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var (
	ErrInvalidRole   = errors.New("role must be either user or admin")
	ErrUsernameTaken = errors.New("username already exists")
)

// ParseRole maps an empty value to RoleUser and rejects anything else
// that is not a known role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // Never expose password in JSON
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Summary drops everything but the display fields.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		Name:     u.Name,
		Username: u.Username,
		Role:     u.Role,
	}
}

// UserSummary is the listing projection of a User. It has no password field.
type UserSummary struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
