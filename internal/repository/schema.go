package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is idempotent and safe to apply on every deploy
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS forms (
		id                     UUID PRIMARY KEY,
		user_id                UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title                  VARCHAR(255) NOT NULL,
		description            TEXT,
		form_code              TEXT NOT NULL UNIQUE,
		fields                 JSONB NOT NULL DEFAULT '[]',
		logo_data              TEXT,
		thank_you_message      TEXT,
		thank_you_redirect_url TEXT,
		close_date             TIMESTAMPTZ,
		response_limit         INTEGER,
		is_deleted             BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at             TIMESTAMPTZ,
		created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_forms_user_id ON forms(user_id, is_deleted)`,
	`CREATE TABLE IF NOT EXISTS responses (
		id            UUID PRIMARY KEY,
		form_id       UUID NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
		response_data JSONB NOT NULL,
		ip_address    TEXT,
		user_agent    TEXT,
		submitted_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_responses_form_submitted ON responses(form_id, submitted_at)`,
	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		key           TEXT NOT NULL,
		route         TEXT NOT NULL,
		user_id       UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		response_body JSONB NOT NULL,
		status_code   INTEGER NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (key, route, user_id)
	)`,
}

// Migrate creates the tables and indexes used by the repositories
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
