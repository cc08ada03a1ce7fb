package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "STORE_BACKEND", "DB_DRIVER", "DB_URL", "BOOTSTRAP_ADMIN_USERNAME", "BOOTSTRAP_ADMIN_PASSWORD"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8087", cfg.AppPort)
	assert.Equal(t, StoreSQL, cfg.Store)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.False(t, cfg.Bootstrap.Enabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("STORE_BACKEND", StoreRedis)
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("BOOTSTRAP_ADMIN_USERNAME", "root")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "secret")

	cfg := Load()

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "cache", cfg.Redis.Host)
	assert.True(t, cfg.Bootstrap.Enabled())
	assert.Equal(t, "root", cfg.Bootstrap.AdminUsername)
}

func TestDBConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      DBConfig
		expected string
	}{
		{
			name: "Postgres from parts",
			cfg: DBConfig{
				Driver: DriverPostgres, Host: "db", Port: "5432", User: "app",
				Password: "pw", Name: "users", SSLMode: "disable",
			},
			expected: "host=db port=5432 user=app password=pw dbname=users sslmode=disable",
		},
		{
			name:     "Postgres URL wins",
			cfg:      DBConfig{Driver: DriverPostgres, URL: "postgres://app@db/users", Host: "ignored"},
			expected: "postgres://app@db/users",
		},
		{
			name:     "SQLite path",
			cfg:      DBConfig{Driver: DriverSQLite, Path: "file:test?mode=memory"},
			expected: "file:test?mode=memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.DSN())
		})
	}
}

func TestConfig_StringMasksSecrets(t *testing.T) {
	cfg := &Config{
		DB:    DBConfig{Driver: DriverPostgres, Password: "db-secret"},
		Redis: RedisConfig{RedisPassword: "redis-secret"},
	}

	s := cfg.String()

	assert.NotContains(t, s, "db-secret")
	assert.NotContains(t, s, "redis-secret")
}
