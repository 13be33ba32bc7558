package repository

import (
	"context"
	"time"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// FormRepository defines the interface for form data access.
// Reads include the derived response count.
type FormRepository interface {
	Create(ctx context.Context, form *models.Form) (*models.Form, error)
	GetByID(ctx context.Context, id string) (*models.Form, error)
	GetByCode(ctx context.Context, code string) (*models.Form, error)
	// ListByUser returns live forms newest first, or trashed forms most
	// recently deleted first when deleted is true
	ListByUser(ctx context.Context, userID string, deleted bool) ([]models.Form, error)
	Update(ctx context.Context, form *models.Form) (*models.Form, error)
	// SetDeleted moves a form to the trash, or restores it when deletedAt is nil
	SetDeleted(ctx context.Context, id string, deletedAt *time.Time) error
	Delete(ctx context.Context, id string) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

// ResponseRepository defines the interface for response data access
type ResponseRepository interface {
	Create(ctx context.Context, response *models.Response) (*models.Response, error)
	CountByForm(ctx context.Context, formID string) (int, error)
	// ListByForm returns every response for the form, newest first
	ListByForm(ctx context.Context, formID string) ([]models.Response, error)
	// ListByFormSince returns responses submitted at or after since, oldest first
	ListByFormSince(ctx context.Context, formID string, since time.Time) ([]models.Response, error)
}

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// Get retrieves an existing idempotency record, or nil if none exists
	Get(ctx context.Context, key, route, userID string) (*models.IdempotencyKey, error)
	// Store saves a new idempotency record
	Store(ctx context.Context, key, route, userID string, responseBody []byte, statusCode int) error
}
