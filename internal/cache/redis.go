package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"user_portal/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// NewRedisClient builds a client and checks the connection with a ping.
func NewRedisClient(ctx context.Context, redisCfg *config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", redisCfg.Host, redisCfg.Port)

	dbIndex, err := strconv.Atoi(redisCfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis DB number %q: %w", redisCfg.RedisDB, err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: redisCfg.RedisPassword,
		DB:       dbIndex,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to Redis at %s: %w", addr, err)
	}

	return rdb, nil
}

// SetupRedis is NewRedisClient for process startup: it exits on failure.
func SetupRedis(redisCfg *config.RedisConfig) *redis.Client {
	rdb, err := NewRedisClient(context.Background(), redisCfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to Redis")
	}

	logrus.Info("Redis connection established successfully")
	return rdb
}

// Keyspaces returns the "db0:keys=..." lines of INFO keyspace.
func Keyspaces(ctx context.Context, rdb *redis.Client) ([]string, error) {
	info, err := rdb.Info(ctx, "keyspace").Result()
	if err != nil {
		return nil, fmt.Errorf("read Redis keyspace: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	return lines, nil
}
