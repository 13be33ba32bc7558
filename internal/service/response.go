package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/models"
	"github.com/JonnyWalker81/formcraft/backend/internal/repository"
	"github.com/JonnyWalker81/formcraft/backend/internal/sanitize"
)

type responseService struct {
	formRepo     repository.FormRepository
	responseRepo repository.ResponseRepository
	now          func() time.Time
}

// NewResponseService creates a new response service
func NewResponseService(formRepo repository.FormRepository, responseRepo repository.ResponseRepository) ResponseService {
	return &responseService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
		now:          time.Now,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *responseService) SubmitResponse(ctx context.Context, req *models.SubmitResponseRequest, meta models.SubmissionMeta) (*models.Response, error) {
	form, err := s.formRepo.GetByCode(ctx, req.FormCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form.IsDeleted {
		return nil, ErrNotFound
	}

	if form.IsClosed(s.now()) {
		return nil, ErrFormClosed
	}
	if form.LimitReached() {
		return nil, ErrResponseLimit
	}

	data, err := json.Marshal(sanitize.ResponseData(req.ResponseData))
	if err != nil {
		return nil, invalid("responseData", "must be a JSON object")
	}

	resp, err := s.responseRepo.Create(ctx, &models.Response{
		ID:           NewID(),
		FormID:       form.ID,
		ResponseData: data,
		IPAddress:    optional(meta.IPAddress),
		UserAgent:    optional(meta.UserAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store response: %w", err)
	}

	logger.Ctx(ctx).Info("response submitted",
		logger.String("form_id", form.ID),
		logger.String("response_id", resp.ID),
	)
	return resp, nil
}

func (s *responseService) ListResponses(ctx context.Context, userID, formID string) ([]models.Response, error) {
	if _, err := loadOwnedForm(ctx, s.formRepo, userID, formID); err != nil {
		return nil, err
	}

	responses, err := s.responseRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return responses, nil
}
