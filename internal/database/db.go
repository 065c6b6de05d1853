package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the services and bookings tables when they do
// not exist yet. The version column on services is the optimistic
// locking token; available_slots holds the slot pool as a JSON array
// of RFC3339 UTC strings.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const services = `CREATE TABLE IF NOT EXISTS services (
		id              CHAR(36)     NOT NULL PRIMARY KEY,
		name            VARCHAR(255) NOT NULL,
		price_cents     INT UNSIGNED NOT NULL DEFAULT 0,
		duration_min    INT UNSIGNED NOT NULL DEFAULT 0,
		available_slots JSON         NOT NULL,
		version         BIGINT UNSIGNED NOT NULL DEFAULT 1,
		created_at      DATETIME NOT NULL DEFAULT UTC_TIMESTAMP(),
		updated_at      DATETIME NOT NULL DEFAULT UTC_TIMESTAMP() ON UPDATE UTC_TIMESTAMP()
	)`
	const bookings = `CREATE TABLE IF NOT EXISTS bookings (
		id             CHAR(36)     NOT NULL PRIMARY KEY,
		user_id        VARCHAR(128) NOT NULL,
		service_id     CHAR(36)     NOT NULL,
		service_name   VARCHAR(255) NOT NULL,
		datetime       VARCHAR(32)  NOT NULL,
		address        VARCHAR(512) NOT NULL,
		status         ENUM('confirmed','pending','completed','cancelled') NOT NULL DEFAULT 'confirmed',
		payment_status ENUM('pending','paid') NOT NULL DEFAULT 'pending',
		created_at     DATETIME NOT NULL DEFAULT UTC_TIMESTAMP(),
		KEY idx_bookings_user (user_id),
		KEY idx_bookings_service (service_id)
	)`
	if _, err := db.ExecContext(ctx, services); err != nil {
		return fmt.Errorf("create services table: %w", err)
	}
	if _, err := db.ExecContext(ctx, bookings); err != nil {
		return fmt.Errorf("create bookings table: %w", err)
	}
	return nil
}
