package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection.
func Open(user, pass, host, port, name, sslMode string) (*sql.DB, error) {
	auth := url.User(user)
	if pass != "" {
		auth = url.UserPassword(user, pass)
	}
	dsn := fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=%s", auth.String(), host, port, name, sslMode)

	db, err := sql.Open("postgres", dsn)
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
