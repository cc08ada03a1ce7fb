package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"user_portal/internal/cache"
	"user_portal/internal/config"
	"user_portal/internal/db"

	"github.com/sirupsen/logrus"
)

// dbcheck connects to the configured credential backend and prints what it
// can see. It writes nothing.
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	names, err := listDatabases(ctx, cfg)
	if err != nil {
		fmt.Println("Connection failed:", err)
		os.Exit(1)
	}

	fmt.Println("Connected successfully!")
	fmt.Println("Available Databases:", names)
}

func listDatabases(ctx context.Context, cfg *config.Config) ([]string, error) {
	if cfg.Store == config.StoreRedis {
		rdb, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		defer rdb.Close()

		return cache.Keyspaces(ctx, rdb)
	}

	database, err := db.Open(&cfg.DB)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	return db.ListDatabases(ctx, database, cfg.DB.Driver)
}
