package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonnyWalker81/formcraft/backend/internal/analytics"
	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/models"
	"github.com/JonnyWalker81/formcraft/backend/internal/repository"
)

// FieldWindow selects which responses feed per-field analytics
type FieldWindow string

const (
	// FieldWindowRecent uses the same 30-day responses as the daily stats
	FieldWindowRecent FieldWindow = "window"
	// FieldWindowAll uses every response the form has received
	FieldWindowAll FieldWindow = "all"
)

// ParseFieldWindow maps a config value to a FieldWindow, defaulting to FieldWindowRecent
func ParseFieldWindow(s string) FieldWindow {
	if FieldWindow(s) == FieldWindowAll {
		return FieldWindowAll
	}
	return FieldWindowRecent
}

type analyticsService struct {
	formRepo     repository.FormRepository
	responseRepo repository.ResponseRepository
	fieldWindow  FieldWindow
	now          func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(formRepo repository.FormRepository, responseRepo repository.ResponseRepository, fieldWindow FieldWindow) AnalyticsService {
	return &analyticsService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
		fieldWindow:  fieldWindow,
		now:          time.Now,
	}
}

func (s *analyticsService) GetFormAnalytics(ctx context.Context, userID, formID string) (*analytics.Result, error) {
	form, err := loadOwnedForm(ctx, s.formRepo, userID, formID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	var (
		total     int
		responses []models.Response
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.responseRepo.CountByForm(gctx, formID)
		if err != nil {
			return fmt.Errorf("failed to count responses: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		var err error
		if s.fieldWindow == FieldWindowAll {
			responses, err = s.responseRepo.ListByForm(gctx, formID)
		} else {
			responses, err = s.responseRepo.ListByFormSince(gctx, formID, now.Add(-analytics.Window))
		}
		if err != nil {
			return fmt.Errorf("failed to load responses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]analytics.Record, 0, len(responses))
	for _, r := range responses {
		records = append(records, analytics.Record{
			SubmittedAt: r.SubmittedAt,
			Answers:     analytics.DecodeAnswers(r.ResponseData),
		})
	}

	result := analytics.Compute(form.Fields, records, total, now)

	logger.Ctx(ctx).Debug("analytics computed",
		logger.String("form_id", formID),
		logger.Int("total", total),
		logger.Int("records", len(records)),
		logger.String("field_window", string(s.fieldWindow)),
	)
	return result, nil
}
