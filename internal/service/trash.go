package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/models"
	"github.com/JonnyWalker81/formcraft/backend/internal/repository"
)

type trashService struct {
	formRepo repository.FormRepository
}

// NewTrashService creates a new trash service
func NewTrashService(formRepo repository.FormRepository) TrashService {
	return &trashService{formRepo: formRepo}
}

func (s *trashService) ListTrash(ctx context.Context, userID string) ([]models.Form, error) {
	forms, err := s.formRepo.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list trash: %w", err)
	}
	return forms, nil
}

func (s *trashService) RestoreForm(ctx context.Context, userID, formID string) (*models.Form, error) {
	form, err := loadTrashedForm(ctx, s.formRepo, userID, formID)
	if err != nil {
		return nil, err
	}

	if err := s.formRepo.SetDeleted(ctx, formID, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to restore form: %w", err)
	}

	form.IsDeleted = false
	form.DeletedAt = nil

	logger.Ctx(ctx).Info("form restored", logger.String("form_id", formID))
	return form, nil
}

func (s *trashService) PurgeForm(ctx context.Context, userID, formID string) error {
	if _, err := loadTrashedForm(ctx, s.formRepo, userID, formID); err != nil {
		return err
	}

	if err := s.formRepo.Delete(ctx, formID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to purge form: %w", err)
	}

	logger.Ctx(ctx).Info("form permanently deleted", logger.String("form_id", formID))
	return nil
}
