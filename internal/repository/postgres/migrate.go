package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id             UUID PRIMARY KEY,
		name           VARCHAR(255) NOT NULL,
		email          VARCHAR(255) NOT NULL,
		birth_date     TIMESTAMPTZ NOT NULL,
		postal_code    VARCHAR(255) NOT NULL,
		street_address TEXT NOT NULL,
		city           VARCHAR(255) NOT NULL,
		state          VARCHAR(255) NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT patients_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id            UUID PRIMARY KEY,
		event_type    VARCHAR(64) NOT NULL,
		payload       JSONB NOT NULL,
		status        VARCHAR(16) NOT NULL,
		error_message TEXT,
		retry_count   INTEGER NOT NULL DEFAULT 0,
		retry_at      TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		processed_at  TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS outbox_events_status_idx ON outbox_events (status, created_at)`,
}

// Migrate creates the tables used by both patient gateways and the outbox.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	base := NewBaseRepository(db)
	return base.WithTx(ctx, func(tx *sqlx.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration step %d: %w", i+1, err)
			}
		}
		return nil
	})
}
