package service

import (
	"context"

	"github.com/JonnyWalker81/formcraft/backend/internal/analytics"
	"github.com/JonnyWalker81/formcraft/backend/internal/models"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// FormService defines the interface for form business logic
type FormService interface {
	CreateForm(ctx context.Context, userID string, req *models.CreateFormRequest) (*models.Form, error)
	ListForms(ctx context.Context, userID string) ([]models.Form, error)
	GetForm(ctx context.Context, userID, formID string) (*models.Form, error)
	GetPublicForm(ctx context.Context, code string) (*models.PublicForm, error)
	UpdateForm(ctx context.Context, userID, formID string, req *models.UpdateFormRequest) (*models.Form, error)
	TrashForm(ctx context.Context, userID, formID string) error
	DuplicateForm(ctx context.Context, userID, formID string) (*models.Form, error)
}

// TrashService defines the interface for soft-deleted form management
type TrashService interface {
	ListTrash(ctx context.Context, userID string) ([]models.Form, error)
	RestoreForm(ctx context.Context, userID, formID string) (*models.Form, error)
	PurgeForm(ctx context.Context, userID, formID string) error
}

// ResponseService defines the interface for response submission and listing
type ResponseService interface {
	SubmitResponse(ctx context.Context, req *models.SubmitResponseRequest, meta models.SubmissionMeta) (*models.Response, error)
	ListResponses(ctx context.Context, userID, formID string) ([]models.Response, error)
}

// AnalyticsService defines the interface for form analytics
type AnalyticsService interface {
	GetFormAnalytics(ctx context.Context, userID, formID string) (*analytics.Result, error)
}

// QRCodeService defines the interface for share QR code generation
type QRCodeService interface {
	Generate(ctx context.Context, req *models.QRCodeRequest) (*models.QRCodeResponse, error)
}
