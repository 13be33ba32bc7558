package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/models"
	"github.com/JonnyWalker81/formcraft/backend/internal/repository"
)

// Form field limits
const (
	MaxTitleLength           = 255
	MaxThankYouMessageLength = 1000
	MaxRedirectURLLength     = 500

	maxCodeAttempts = 5
)

var errCodeExhausted = errors.New("could not generate a unique form code")

type formService struct {
	formRepo repository.FormRepository
	now      func() time.Time
	newCode  func() string
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepository) FormService {
	return &formService{
		formRepo: formRepo,
		now:      time.Now,
		newCode:  GenerateFormCode,
	}
}

func validateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return invalid("title", "title is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return invalid("title", "title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

func validateFields(fields []models.FieldSchema) error {
	for i, f := range fields {
		name := fmt.Sprintf("fields[%d]", i)
		if !f.Type.Valid() {
			return invalid(name+".type", "unsupported field type %q", f.Type)
		}
		if strings.TrimSpace(f.Label) == "" && !f.Type.IsDisplayOnly() {
			return invalid(name+".label", "label is required")
		}
	}
	return nil
}

func validateSettings(thankYou, redirectURL *string, responseLimit *int) error {
	if thankYou != nil && utf8.RuneCountInString(*thankYou) > MaxThankYouMessageLength {
		return invalid("thankYouMessage", "must be at most %d characters", MaxThankYouMessageLength)
	}
	if redirectURL != nil && utf8.RuneCountInString(*redirectURL) > MaxRedirectURLLength {
		return invalid("thankYouRedirectUrl", "must be at most %d characters", MaxRedirectURLLength)
	}
	if responseLimit != nil && *responseLimit < 1 {
		return invalid("responseLimit", "must be at least 1")
	}
	return nil
}

// uniqueCode draws form codes until one is unused
func (s *formService) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.newCode()
		exists, err := s.formRepo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errCodeExhausted
}

func (s *formService) CreateForm(ctx context.Context, userID string, req *models.CreateFormRequest) (*models.Form, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}
	if err := validateFields(req.Fields); err != nil {
		return nil, err
	}
	if err := validateSettings(req.ThankYouMessage, req.ThankYouRedirectURL, req.ResponseLimit); err != nil {
		return nil, err
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	fields := req.Fields
	if fields == nil {
		fields = []models.FieldSchema{}
	}

	form, err := s.formRepo.Create(ctx, &models.Form{
		ID:                  NewID(),
		UserID:              userID,
		Title:               strings.TrimSpace(req.Title),
		Description:         req.Description,
		FormCode:            code,
		Fields:              fields,
		LogoData:            req.LogoData,
		ThankYouMessage:     req.ThankYouMessage,
		ThankYouRedirectURL: req.ThankYouRedirectURL,
		CloseDate:           req.CloseDate,
		ResponseLimit:       req.ResponseLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	logger.Ctx(ctx).Info("form created",
		logger.String("form_id", form.ID),
		logger.Int("field_count", len(form.Fields)),
	)
	return form, nil
}

func (s *formService) ListForms(ctx context.Context, userID string) ([]models.Form, error) {
	forms, err := s.formRepo.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	return forms, nil
}

func (s *formService) GetForm(ctx context.Context, userID, formID string) (*models.Form, error) {
	return loadOwnedForm(ctx, s.formRepo, userID, formID)
}

func (s *formService) GetPublicForm(ctx context.Context, code string) (*models.PublicForm, error) {
	form, err := s.formRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form.IsDeleted {
		return nil, ErrNotFound
	}

	return &models.PublicForm{
		ID:                  form.ID,
		Title:               form.Title,
		Description:         form.Description,
		Fields:              form.Fields,
		LogoData:            form.LogoData,
		ThankYouMessage:     form.ThankYouMessage,
		ThankYouRedirectURL: form.ThankYouRedirectURL,
		CreatedAt:           form.CreatedAt,
	}, nil
}

func (s *formService) UpdateForm(ctx context.Context, userID, formID string, req *models.UpdateFormRequest) (*models.Form, error) {
	form, err := loadOwnedForm(ctx, s.formRepo, userID, formID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return nil, err
		}
		form.Title = strings.TrimSpace(*req.Title)
	}
	if req.Fields != nil {
		if err := validateFields(req.Fields); err != nil {
			return nil, err
		}
		form.Fields = req.Fields
	}
	if req.Description.Set {
		form.Description = req.Description.ToPtr()
	}
	if req.LogoData.Set {
		form.LogoData = req.LogoData.ToPtr()
	}
	if req.ThankYouMessage.Set {
		form.ThankYouMessage = req.ThankYouMessage.ToPtr()
	}
	if req.ThankYouRedirectURL.Set {
		form.ThankYouRedirectURL = req.ThankYouRedirectURL.ToPtr()
	}
	if req.CloseDate.Set {
		form.CloseDate = req.CloseDate.ToPtr()
	}
	if req.ResponseLimit.Set {
		form.ResponseLimit = req.ResponseLimit.ToPtr()
	}

	if err := validateSettings(form.ThankYouMessage, form.ThankYouRedirectURL, form.ResponseLimit); err != nil {
		return nil, err
	}

	updated, err := s.formRepo.Update(ctx, form)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update form: %w", err)
	}
	return updated, nil
}

func (s *formService) TrashForm(ctx context.Context, userID, formID string) error {
	if _, err := loadOwnedForm(ctx, s.formRepo, userID, formID); err != nil {
		return err
	}

	deletedAt := s.now().UTC()
	if err := s.formRepo.SetDeleted(ctx, formID, &deletedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to trash form: %w", err)
	}

	logger.Ctx(ctx).Info("form moved to trash", logger.String("form_id", formID))
	return nil
}

func (s *formService) DuplicateForm(ctx context.Context, userID, formID string) (*models.Form, error) {
	src, err := loadOwnedForm(ctx, s.formRepo, userID, formID)
	if err != nil {
		return nil, err
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate form: %w", err)
	}

	title := src.Title + " (copy)"
	if utf8.RuneCountInString(title) > MaxTitleLength {
		title = string([]rune(title)[:MaxTitleLength])
	}

	copied := *src
	copied.ID = NewID()
	copied.Title = title
	copied.FormCode = code
	copied.IsDeleted = false
	copied.DeletedAt = nil
	copied.ResponseCount = 0

	form, err := s.formRepo.Create(ctx, &copied)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate form: %w", err)
	}
	return form, nil
}
