package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medifirst/medifirst-api/internal/core/domain"
	"github.com/medifirst/medifirst-api/internal/core/ports"
)

type GuideService struct {
	repo   ports.GuideRepository
	views  ports.ViewRecorder
	logger zerolog.Logger
}

func NewGuideService(repo ports.GuideRepository, views ports.ViewRecorder, logger zerolog.Logger) *GuideService {
	return &GuideService{repo: repo, views: views, logger: logger}
}

func (s *GuideService) List(ctx context.Context, filter ports.ListGuidesFilter) ([]*domain.Guide, error) {
	filter.Category = strings.ToLower(strings.TrimSpace(filter.Category))
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *GuideService) ListByCategory(ctx context.Context, category string) ([]*domain.Guide, error) {
	return s.repo.ListByCategory(ctx, strings.ToLower(strings.TrimSpace(category)))
}

// Get returns the guide and hands the view to the recorder; the returned
// count does not include this view.
func (s *GuideService) Get(ctx context.Context, id string) (*domain.Guide, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.views != nil {
		s.views.Record(g.ID)
	}
	return g, nil
}

func (s *GuideService) Create(ctx context.Context, in ports.GuideInput) (*domain.Guide, error) {
	g, err := guideFromInput(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	created, err := s.repo.Create(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("create guide: %w", err)
	}
	s.logger.Info().Str("guide_id", created.ID).Str("category", created.Category).Msg("guide created")
	return created, nil
}

func (s *GuideService) Update(ctx context.Context, id string, in ports.GuideInput) (*domain.Guide, error) {
	g, err := guideFromInput(in)
	if err != nil {
		return nil, err
	}
	g.ID = id
	g.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, g)
}

func (s *GuideService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("guide_id", id).Msg("guide deleted")
	return nil
}

func guideFromInput(in ports.GuideInput) (*domain.Guide, error) {
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrInvalidGuide)
	}
	if !domain.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidGuide, in.Category)
	}

	severity := in.Severity
	if severity == "" {
		severity = domain.SeverityMedium
	}

	offline := true
	if in.IsOfflineAvailable != nil {
		offline = *in.IsOfflineAvailable
	}

	steps := make([]domain.GuideStep, 0, len(in.Steps))
	for _, st := range in.Steps {
		steps = append(steps, domain.GuideStep{
			StepNumber:  st.StepNumber,
			Title:       st.Title,
			Description: st.Description,
			ImageURL:    st.ImageURL,
			Warning:     st.Warning,
		})
	}

	return &domain.Guide{
		Title:               strings.TrimSpace(in.Title),
		Category:            category,
		Description:         in.Description,
		Severity:            severity,
		Steps:               steps,
		Warnings:            nonNil(in.Warnings),
		WhenToCallEmergency: nonNil(in.WhenToCallEmergency),
		ImageURL:            in.ImageURL,
		VideoURL:            in.VideoURL,
		IsOfflineAvailable:  offline,
		Tags:                nonNil(in.Tags),
	}, nil
}
