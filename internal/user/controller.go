package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	CurrentUserKey = "currentUser"

	invalidCredentialsMessage = "Invalid username or password"
	internalErrorMessage      = "Internal server error"
)

// CredentialValidator checks a username/password pair. A nil user with a
// nil error means the credentials did not match.
type CredentialValidator interface {
	Validate(ctx context.Context, username, password string) (*User, error)
}

type UserController struct {
	userService UserServiceInterface
	validator   CredentialValidator
}

func NewUserController(userService UserServiceInterface, validator CredentialValidator) *UserController {
	return &UserController{
		userService: userService,
		validator:   validator,
	}
}

// Login checks credentials and greets the user
func (a *UserController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := a.validator.Validate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentialsMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome, %s!", user.Name),
		"user":    user.Summary(),
	})
}

// CreateUser handles admin account creation
func (a *UserController) CreateUser(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"omitempty,oneof=user admin"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := a.userService.RegisterUser(c.Request.Context(), req.Name, req.Username, req.Password, Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		case errors.Is(err, ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		}
		return
	}

	fields := logrus.Fields{"username": created.Username, "role": created.Role}
	if admin, err := GetCurrentUser(c); err == nil {
		fields["created_by"] = admin.Username
	}
	logrus.WithFields(fields).Info("Admin created user")

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("User '%s' created successfully", created.Username),
		"user":    created.Summary(),
	})
}

// ListUsers returns every registered user without passwords
func (a *UserController) ListUsers(c *gin.Context) {
	users, err := a.userService.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// Health reports whether the credential store is reachable
func (a *UserController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := a.userService.Ping(ctx); err != nil {
		logrus.WithError(err).Warn("Credential store unreachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetCurrentUser extracts the authenticated user from Gin context
func GetCurrentUser(c *gin.Context) (*User, error) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	u, ok := value.(*User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return u, nil
}
