package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
)

type idempotencyRepository struct {
	db *sql.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *sql.DB) IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

// Get returns nil without error when the key has not been seen.
func (r *idempotencyRepository) Get(ctx context.Context, key, route, userID string) (*models.IdempotencyKey, error) {
	var k models.IdempotencyKey
	err := r.db.QueryRowContext(ctx, `
		SELECT key, route, user_id, response_body, status_code, created_at
		FROM idempotency_keys
		WHERE key = $1 AND route = $2 AND user_id = $3
	`, key, route, userID).Scan(&k.Key, &k.Route, &k.UserID, &k.ResponseBody, &k.StatusCode, &k.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get idempotency key", err)
	}
	return &k, nil
}

// Store keeps the first stored response when two requests race on a key.
func (r *idempotencyRepository) Store(ctx context.Context, key, route, userID string, responseBody []byte, statusCode int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO idempotency_keys (key, route, user_id, response_body, status_code)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key, route, user_id) DO NOTHING
	`, key, route, userID, responseBody, statusCode)
	if err != nil {
		return wrap("store idempotency key", err)
	}
	return nil
}
