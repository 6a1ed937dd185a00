package sqlstore

import (
	"context"
	"fmt"
)

// Migrate создает схему, если ее нет. Типы подходят и для SQLite, и для PostgreSQL.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	db.logger.Debug("database migrations applied")
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS stops (
		id             BIGINT PRIMARY KEY,
		name           TEXT,
		latitude       DOUBLE PRECISION,
		longitude      DOUBLE PRECISION,
		last_updated   TEXT NOT NULL,
		self_link      TEXT NOT NULL,
		next_departure TEXT
	)`,
}
