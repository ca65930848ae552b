package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	// import the Postgres driver to register it with the database/sql package.
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

type PostgresStorage struct {
	Connection *sql.DB
}

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func NewPostgresStorage(ctx context.Context, dsn string, pool PoolOptions) (*PostgresStorage, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	conn.SetMaxOpenConns(pool.MaxOpenConns)
	conn.SetMaxIdleConns(pool.MaxIdleConns)
	conn.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return &PostgresStorage{Connection: conn}, nil
}

// Init creates the ledger tables when they do not exist yet.
func (that *PostgresStorage) Init(ctx context.Context) error {
	if _, err := that.Connection.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't create tables: %w", err)
	}

	return nil
}

func (that *PostgresStorage) Close() error {
	return that.Connection.Close()
}
