package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Each dialect's DDL is a list of single statements: the MySQL driver
// rejects multi-statement Exec unless multiStatements is enabled.
var schemas = map[string][]string{
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS actors (
			id     BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name   VARCHAR(255) NOT NULL,
			age    INT          NOT NULL,
			gender VARCHAR(64)  NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS movies (
			id           BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
			title        VARCHAR(255) NOT NULL,
			release_date DATE         NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS actors (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			name   TEXT    NOT NULL,
			age    INTEGER NOT NULL,
			gender TEXT    NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS movies (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			title        TEXT NOT NULL,
			release_date DATE NOT NULL
		)`,
	},
}

// Migrate creates the actors and movies tables when they do not exist.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts, ok := schemas[strings.ToLower(driver)]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
