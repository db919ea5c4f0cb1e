package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a PostgreSQL
// connection pool.
type Config struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	Timeout      time.Duration
}

// Connect opens a connection pool, verifies connectivity with a ping, and
// returns the handle. Defaults are applied for any unset pool settings.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 2
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return db, nil
}

// schema is the unified account table. Username uniqueness applies per role
// scope and only among active rows, hence the partial unique index.
const schema = `
CREATE TABLE IF NOT EXISTS user_master (
	id        BIGSERIAL PRIMARY KEY,
	username  TEXT        NOT NULL,
	password  TEXT        NOT NULL,
	email     TEXT        NOT NULL,
	role      TEXT        NOT NULL,
	roleid    INTEGER     NOT NULL,
	sector    TEXT        NOT NULL DEFAULT '',
	isactive  BOOLEAN     NOT NULL DEFAULT TRUE,
	lastlogin TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS user_master_active_username_role
	ON user_master (username, role) WHERE isactive;
`

// EnsureSchema creates the account table and its uniqueness index.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
