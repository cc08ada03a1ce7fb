package middleware

import (
	"net/http"

	"user_portal/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminAuth checks HTTP Basic credentials on every request and lets only
// admins through. Nothing is remembered between requests.
func AdminAuth(validator user.CredentialValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="admin"`)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin credentials required"})
			c.Abort()
			return
		}

		u, err := validator.Validate(c.Request.Context(), username, password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}

		if u == nil {
			c.Header("WWW-Authenticate", `Basic realm="admin"`)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin credentials"})
			c.Abort()
			return
		}

		if !u.IsAdmin() {
			logrus.WithField("username", u.Username).Warn("Non-admin user denied admin access")
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			c.Abort()
			return
		}

		c.Set(user.CurrentUserKey, u)
		c.Next()
	}
}
