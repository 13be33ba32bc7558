package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
)

type responseRepository struct {
	db *sql.DB
}

// NewResponseRepository creates a new response repository
func NewResponseRepository(db *sql.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) Create(ctx context.Context, response *models.Response) (*models.Response, error) {
	created := *response
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO responses (id, form_id, response_data, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING submitted_at
	`,
		response.ID, response.FormID, string(response.ResponseData),
		response.IPAddress, response.UserAgent,
	).Scan(&created.SubmittedAt)
	if err != nil {
		return nil, wrap("create response", err)
	}
	return &created, nil
}

func (r *responseRepository) CountByForm(ctx context.Context, formID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM responses WHERE form_id = $1`,
		formID,
	).Scan(&n)
	if err != nil {
		return 0, wrap("count responses", err)
	}
	return n, nil
}

func (r *responseRepository) ListByForm(ctx context.Context, formID string) ([]models.Response, error) {
	return r.list(ctx, "list responses", `
		SELECT id, form_id, response_data, ip_address, user_agent, submitted_at
		FROM responses
		WHERE form_id = $1
		ORDER BY submitted_at DESC
	`, formID)
}

func (r *responseRepository) ListByFormSince(ctx context.Context, formID string, since time.Time) ([]models.Response, error) {
	return r.list(ctx, "list responses since", `
		SELECT id, form_id, response_data, ip_address, user_agent, submitted_at
		FROM responses
		WHERE form_id = $1 AND submitted_at >= $2
		ORDER BY submitted_at ASC
	`, formID, since)
}

func (r *responseRepository) list(ctx context.Context, op, query string, args ...any) ([]models.Response, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	responses := []models.Response{}
	for rows.Next() {
		var (
			resp      models.Response
			data      []byte
			ipAddress sql.NullString
			userAgent sql.NullString
		)
		if err := rows.Scan(&resp.ID, &resp.FormID, &data, &ipAddress, &userAgent, &resp.SubmittedAt); err != nil {
			return nil, wrap(op, err)
		}
		resp.ResponseData = data
		resp.IPAddress = nullString(ipAddress)
		resp.UserAgent = nullString(userAgent)
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return responses, nil
}
