package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"user_portal/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) Validate(ctx context.Context, username, password string) (*user.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func setupTestRouter(validator user.CredentialValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(AdminAuth(validator))
	router.GET("/admin/users", func(c *gin.Context) {
		current, err := user.GetCurrentUser(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"admin": current.Username})
	})

	return router
}

func TestAdminAuth(t *testing.T) {
	cases := map[string]struct {
		setAuth        bool
		username       string
		password       string
		validateUser   *user.User
		validateErr    error
		expectedStatus int
		expectedBody   string
	}{
		"Should allow admin": {
			setAuth: true, username: "alice", password: "pw1",
			validateUser:   &user.User{Username: "alice", Role: user.RoleAdmin},
			expectedStatus: http.StatusOK,
			expectedBody:   `"admin":"alice"`,
		},
		"Should reject missing credentials": {
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Admin credentials required",
		},
		"Should reject invalid credentials": {
			setAuth: true, username: "alice", password: "wrong",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid admin credentials",
		},
		"Should forbid non-admin": {
			setAuth: true, username: "bob", password: "pw2",
			validateUser:   &user.User{Username: "bob", Role: user.RoleUser},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "Admin role required",
		},
		"Should fail on store error": {
			setAuth: true, username: "alice", password: "pw1",
			validateErr:    errors.New("connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Internal server error",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			validator := new(mockValidator)
			if tc.setAuth {
				var result interface{}
				if tc.validateUser != nil {
					result = tc.validateUser
				}
				validator.On("Validate", mock.Anything, tc.username, tc.password).Return(result, tc.validateErr)
			}

			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			if tc.setAuth {
				req.SetBasicAuth(tc.username, tc.password)
			}
			w := httptest.NewRecorder()
			setupTestRouter(validator).ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.expectedBody)
			if !tc.setAuth {
				validator.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything, mock.Anything)
				assert.Equal(t, `Basic realm="admin"`, w.Header().Get("WWW-Authenticate"))
			}
			validator.AssertExpectations(t)
		})
	}
}

func TestAdminAuth_ChecksEveryRequest(t *testing.T) {
	validator := new(mockValidator)
	validator.On("Validate", mock.Anything, "alice", "pw1").
		Return(&user.User{Username: "alice", Role: user.RoleAdmin}, nil).Twice()
	router := setupTestRouter(validator)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.SetBasicAuth("alice", "pw1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// no session: a request without credentials after a successful one is still rejected
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	validator.AssertNumberOfCalls(t, "Validate", 2)
}
