package handler

import (
	"user_portal/internal/auth"
	"user_portal/internal/middleware"
	"user_portal/internal/observability"
	"user_portal/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupHandler wires the authenticator and controllers around userService
// and returns the router. gatherer backs /metrics and may be nil.
func SetupHandler(userService *user.UserService, metrics *observability.Metrics, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.PrometheusMiddleware(metrics))

	authenticator := auth.NewAuthenticator(userService, metrics)
	userController := user.NewUserController(userService, authenticator)

	setupRoutes(r, userController, authenticator, gatherer)

	return r
}

// setupRoutes configures all application routes
func setupRoutes(r *gin.Engine, userCtrl *user.UserController, validator user.CredentialValidator, gatherer prometheus.Gatherer) {
	r.GET("/healthz", userCtrl.Health)

	if gatherer != nil {
		metricsHandler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// Public routes - Authentication
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", userCtrl.Login)
	}

	// Admin routes - credentials are checked on every request
	admin := r.Group("/admin")
	admin.Use(middleware.AdminAuth(validator))
	{
		admin.POST("/users", userCtrl.CreateUser)
		admin.GET("/users", userCtrl.ListUsers)
	}
}
