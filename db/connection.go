package db

import (
	"course-payments/config"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

var DB *sql.DB

func InitDB() error {
	var err error
	connStr := config.GetDBConnString()

	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	err = DB.Ping()
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	// Create tables
	if err := createTables(); err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}

	return nil
}

func createTables() error {
	// The composite primary key is what makes GrantIfAbsent atomic: a second
	// insert for the same (user_id, course_id) hits the key and is dropped by
	// ON CONFLICT DO NOTHING.
	entitlementTable := `
	CREATE TABLE IF NOT EXISTS entitlements (
		user_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		paid BOOLEAN NOT NULL DEFAULT TRUE,
		payment_id TEXT NOT NULL,
		order_id TEXT,
		source TEXT NOT NULL,
		verified_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,

		PRIMARY KEY (user_id, course_id)
	);`

	if _, err := DB.Exec(entitlementTable); err != nil {
		return fmt.Errorf("error creating entitlements table: %w", err)
	}

	return nil
}
