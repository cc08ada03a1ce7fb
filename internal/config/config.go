package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StoreSQL   = "sql"
	StoreRedis = "redis"

	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

type Config struct {
	AppName  string
	AppEnv   string
	AppPort  string
	LogLevel string

	// Store selects the credential backend: StoreSQL or StoreRedis.
	Store string

	DB        DBConfig
	Redis     RedisConfig
	Bootstrap BootstrapConfig
}

type DBConfig struct {
	Driver   string
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string
}

type RedisConfig struct {
	Host          string
	Port          string
	RedisPassword string
	RedisDB       string
}

// BootstrapConfig describes the admin account created on first start.
type BootstrapConfig struct {
	AdminName     string
	AdminUsername string
	AdminPassword string
}

func (b BootstrapConfig) Enabled() bool {
	return b.AdminUsername != "" && b.AdminPassword != ""
}

// DSN returns the data source name for the configured driver.
func (c *DBConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Failed to read .env file")
	}

	return &Config{
		AppName:  getEnv("APP_NAME", "user_portal"),
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8087"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Store:    getEnv("STORE_BACKEND", StoreSQL),

		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", DriverPostgres),
			URL:      os.Getenv("DB_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "user_portal"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "user_portal.db"),
		},

		Redis: RedisConfig{
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnv("REDIS_DB", "0"),
		},

		Bootstrap: BootstrapConfig{
			AdminName:     getEnv("BOOTSTRAP_ADMIN_NAME", "Administrator"),
			AdminUsername: os.Getenv("BOOTSTRAP_ADMIN_USERNAME"),
			AdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		},
	}
}

// String masks passwords so the config can be logged.
func (c *Config) String() string {
	return fmt.Sprintf("Config{App: %s, Env: %s, Port: %s, Store: %s, DB: %s, Redis: %s:%s, DBPassword: ***, RedisPassword: ***}",
		c.AppName, c.AppEnv, c.AppPort, c.Store, c.DB.Driver, c.Redis.Host, c.Redis.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
