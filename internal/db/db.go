package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"user_portal/internal/config"
	"user_portal/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const maxRetries = 5

// Open connects to the configured database, retrying the initial ping.
// Retries only happen here, at startup; queries made later never retry.
func Open(DBCfg *config.DBConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open(DBCfg.Driver, DBCfg.DSN())
		if err != nil {
			logrus.WithError(err).Warnf("Failed to open database connection (attempt %d/%d)", i+1, maxRetries)
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		if err = db.Ping(); err != nil {
			logrus.WithError(err).Warnf("Failed to ping database (attempt %d/%d)", i+1, maxRetries)
			if err := db.Close(); err != nil {
				logrus.WithError(err).Warn("Failed to close database connection")
			}
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		break
	}

	if err != nil {
		return nil, fmt.Errorf("connect to %s database after %d attempts: %w", DBCfg.Driver, maxRetries, err)
	}

	if DBCfg.Driver == config.DriverSQLite {
		// in-memory sqlite databases live only as long as their connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(100)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	logrus.WithField("driver", DBCfg.Driver).Info("Database connection established successfully")
	return db, nil
}

// Init opens the database and applies the schema, exiting on failure.
func Init(DBCfg *config.DBConfig) *sql.DB {
	db, err := Open(DBCfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	if err := Migrate(context.Background(), db); err != nil {
		logrus.WithError(err).Fatal("Failed to apply database schema")
	}

	return db
}

// username is indexed but not UNIQUE, so two rows may share a username.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		name TEXT NOT NULL,
		username TEXT NOT NULL,
		password TEXT NOT NULL,
		role VARCHAR(16) NOT NULL CHECK (role IN ('user', 'admin')),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS users_username_idx ON users (username)`,
}

// Migrate creates the users table if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	return utils.WithTransaction(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		return nil
	})
}

// ListDatabases returns the names of the databases visible to the connection.
func ListDatabases(ctx context.Context, db *sql.DB, driver string) ([]string, error) {
	query := `SELECT datname FROM pg_database WHERE NOT datistemplate ORDER BY datname`
	if driver == config.DriverSQLite {
		query = `SELECT name FROM pragma_database_list ORDER BY seq`
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan database name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return names, nil
}
