package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}
	if err := client.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

var migrations = []struct {
	name string
	sql  string
}{
	{"destinations", `
		CREATE TABLE IF NOT EXISTS destinations (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			coordinator JSONB NOT NULL,
			accommodation JSONB NOT NULL,
			local_tips JSONB NOT NULL DEFAULT '{}',
			emergency_info JSONB NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`},
	{"interns", `
		CREATE TABLE IF NOT EXISTS interns (
			id SERIAL PRIMARY KEY,
			phone VARCHAR(32) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			destination_id VARCHAR(64) NOT NULL, -- no FK: drift is reported at runtime
			start_date DATE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`},
	{"faqs", `
		CREATE TABLE IF NOT EXISTS faqs (
			id VARCHAR(64) PRIMARY KEY,
			destination_id VARCHAR(64) NOT NULL,
			question TEXT NOT NULL DEFAULT '',
			answer TEXT NOT NULL,
			keywords TEXT[] NOT NULL,
			position INT NOT NULL DEFAULT 0
		);`},
	{"faqs_destination_idx", `CREATE INDEX IF NOT EXISTS faqs_destination_idx ON faqs (destination_id, position);`},
	{"resolutions", `
		CREATE TABLE IF NOT EXISTS resolutions (
			id BIGSERIAL PRIMARY KEY,
			correlation_id VARCHAR(64) NOT NULL,
			phone VARCHAR(32) NOT NULL,
			message TEXT NOT NULL,
			reply TEXT NOT NULL,
			status VARCHAR(32) NOT NULL,
			response_type VARCHAR(16),
			faq_id VARCHAR(64),
			delivered BOOLEAN NOT NULL DEFAULT FALSE,
			delivery_error TEXT,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`},
}

func (p *PostgresClient) Migrate(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := p.Pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("create %s: %w", m.name, err)
		}
	}
	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
