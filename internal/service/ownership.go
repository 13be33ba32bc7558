package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
	"github.com/JonnyWalker81/formcraft/backend/internal/repository"
)

// loadOwnedForm returns a live form owned by userID.
// Missing or trashed forms are ErrNotFound; another user's form is ErrForbidden.
func loadOwnedForm(ctx context.Context, forms repository.FormRepository, userID, formID string) (*models.Form, error) {
	form, err := forms.GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	if form.IsDeleted {
		return nil, ErrNotFound
	}
	if form.UserID != userID {
		return nil, ErrForbidden
	}
	return form, nil
}

// loadTrashedForm returns a trashed form owned by userID. Any other
// state, including another user's form, is ErrNotFound.
func loadTrashedForm(ctx context.Context, forms repository.FormRepository, userID, formID string) (*models.Form, error) {
	form, err := forms.GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	if !form.IsDeleted || form.UserID != userID {
		return nil, ErrNotFound
	}
	return form, nil
}
