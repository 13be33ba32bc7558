package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
)

const formColumns = `
	f.id, f.user_id, f.title, f.description, f.form_code, f.fields,
	f.logo_data, f.thank_you_message, f.thank_you_redirect_url,
	f.close_date, f.response_limit, f.is_deleted, f.deleted_at,
	f.created_at, f.updated_at,
	(SELECT COUNT(*) FROM responses r WHERE r.form_id = f.id) AS response_count`

type formRepository struct {
	db *sql.DB
}

// NewFormRepository creates a new form repository
func NewFormRepository(db *sql.DB) FormRepository {
	return &formRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*models.Form, error) {
	var (
		f             models.Form
		description   sql.NullString
		fields        []byte
		logoData      sql.NullString
		thankYou      sql.NullString
		redirectURL   sql.NullString
		closeDate     sql.NullTime
		responseLimit sql.NullInt64
		deletedAt     sql.NullTime
	)

	err := row.Scan(
		&f.ID, &f.UserID, &f.Title, &description, &f.FormCode, &fields,
		&logoData, &thankYou, &redirectURL,
		&closeDate, &responseLimit, &f.IsDeleted, &deletedAt,
		&f.CreatedAt, &f.UpdatedAt, &f.ResponseCount,
	)
	if err != nil {
		return nil, err
	}

	f.Fields = []models.FieldSchema{}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &f.Fields); err != nil {
			return nil, fmt.Errorf("decode fields of form %s: %w", f.ID, err)
		}
	}

	f.Description = nullString(description)
	f.LogoData = nullString(logoData)
	f.ThankYouMessage = nullString(thankYou)
	f.ThankYouRedirectURL = nullString(redirectURL)
	f.CloseDate = nullTime(closeDate)
	f.DeletedAt = nullTime(deletedAt)
	if responseLimit.Valid {
		n := int(responseLimit.Int64)
		f.ResponseLimit = &n
	}

	return &f, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}

func encodeFields(fields []models.FieldSchema) (string, error) {
	if fields == nil {
		fields = []models.FieldSchema{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode fields: %w", err)
	}
	return string(b), nil
}

func (r *formRepository) Create(ctx context.Context, form *models.Form) (*models.Form, error) {
	fields, err := encodeFields(form.Fields)
	if err != nil {
		return nil, err
	}

	created := *form
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO forms (
			id, user_id, title, description, form_code, fields,
			logo_data, thank_you_message, thank_you_redirect_url,
			close_date, response_limit
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`,
		form.ID, form.UserID, form.Title, form.Description, form.FormCode, fields,
		form.LogoData, form.ThankYouMessage, form.ThankYouRedirectURL,
		form.CloseDate, form.ResponseLimit,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, wrap("create form", err)
	}

	if created.Fields == nil {
		created.Fields = []models.FieldSchema{}
	}
	created.ResponseCount = 0
	return &created, nil
}

func (r *formRepository) GetByID(ctx context.Context, id string) (*models.Form, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+formColumns+` FROM forms f WHERE f.id = $1`, id)
	form, err := scanForm(row)
	if err != nil {
		return nil, wrap("get form", err)
	}
	return form, nil
}

func (r *formRepository) GetByCode(ctx context.Context, code string) (*models.Form, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+formColumns+` FROM forms f WHERE f.form_code = $1`, code)
	form, err := scanForm(row)
	if err != nil {
		return nil, wrap("get form by code", err)
	}
	return form, nil
}

func (r *formRepository) ListByUser(ctx context.Context, userID string, deleted bool) ([]models.Form, error) {
	order := "f.created_at DESC"
	if deleted {
		order = "f.deleted_at DESC"
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+formColumns+` FROM forms f WHERE f.user_id = $1 AND f.is_deleted = $2 ORDER BY `+order,
		userID, deleted,
	)
	if err != nil {
		return nil, wrap("list forms", err)
	}
	defer rows.Close()

	forms := []models.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, wrap("scan form", err)
		}
		forms = append(forms, *form)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list forms", err)
	}
	return forms, nil
}

func (r *formRepository) Update(ctx context.Context, form *models.Form) (*models.Form, error) {
	fields, err := encodeFields(form.Fields)
	if err != nil {
		return nil, err
	}

	updated := *form
	err = r.db.QueryRowContext(ctx, `
		UPDATE forms SET
			title = $2,
			description = $3,
			fields = $4,
			logo_data = $5,
			thank_you_message = $6,
			thank_you_redirect_url = $7,
			close_date = $8,
			response_limit = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`,
		form.ID, form.Title, form.Description, fields,
		form.LogoData, form.ThankYouMessage, form.ThankYouRedirectURL,
		form.CloseDate, form.ResponseLimit,
	).Scan(&updated.UpdatedAt)
	if err != nil {
		return nil, wrap("update form", err)
	}
	return &updated, nil
}

func (r *formRepository) SetDeleted(ctx context.Context, id string, deletedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE forms SET is_deleted = $2, deleted_at = $3, updated_at = NOW() WHERE id = $1`,
		id, deletedAt != nil, deletedAt,
	)
	if err != nil {
		return wrap("set form deleted", err)
	}
	return requireAffected("set form deleted", res)
}

func (r *formRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		return wrap("delete form", err)
	}
	return requireAffected("delete form", res)
}

func (r *formRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM forms WHERE form_code = $1)`,
		code,
	).Scan(&exists)
	if err != nil {
		return false, wrap("check form code", err)
	}
	return exists, nil
}
