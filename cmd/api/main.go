package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user_portal/internal/cache"
	"user_portal/internal/config"
	"user_portal/internal/db"
	"user_portal/internal/handler"
	"user_portal/internal/observability"
	"user_portal/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logrus.WithField("config", cfg.String()).Info("Configuration loaded")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)
	logrus.Info("Metrics initialized")

	repo, closeStore := openStore(cfg, metrics)
	defer closeStore()

	userService := user.NewUserService(repo, metrics)

	if cfg.Bootstrap.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := userService.EnsureAdmin(ctx, cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword)
		cancel()
		if err != nil {
			logrus.WithError(err).Fatal("Failed to create bootstrap admin")
		}
	}

	r := handler.SetupHandler(userService, metrics, registry)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logrus.Infof("Starting server on :%s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
}

// openStore connects the configured backend once; the handle is shared by
// every request for the life of the process.
func openStore(cfg *config.Config, metrics *observability.Metrics) (user.UserRepositoryInterface, func()) {
	switch cfg.Store {
	case config.StoreRedis:
		rdb := cache.SetupRedis(&cfg.Redis)
		return user.NewRedisUserRepository(rdb, metrics), func() {
			if err := rdb.Close(); err != nil {
				logrus.WithError(err).Error("Failed to close redis connection")
			}
		}
	case config.StoreSQL:
		database := db.Init(&cfg.DB)
		return user.NewUserRepository(database, metrics), func() {
			if err := database.Close(); err != nil {
				logrus.WithError(err).Error("Failed to close database connection")
			}
		}
	default:
		logrus.Fatalf("Unknown STORE_BACKEND %q", cfg.Store)
		return nil, nil
	}
}
