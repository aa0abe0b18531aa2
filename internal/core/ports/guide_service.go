package ports

import (
	"context"

	"github.com/medifirst/medifirst-api/internal/core/domain"
)

// GuideStepInput is one step of a guide as submitted by an admin.
type GuideStepInput struct {
	StepNumber  int
	Title       string
	Description string
	ImageURL    string
	Warning     string
}

// GuideInput is the DTO used to create or replace a guide.
type GuideInput struct {
	Title               string
	Category            string
	Description         string
	Severity            string
	Steps               []GuideStepInput
	Warnings            []string
	WhenToCallEmergency []string
	ImageURL            string
	VideoURL            string
	IsOfflineAvailable  *bool
	Tags                []string
}

// GuideService exposes first-aid guides.
type GuideService interface {
	List(ctx context.Context, filter ListGuidesFilter) ([]*domain.Guide, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Guide, error)
	// Get returns a guide and records one view.
	Get(ctx context.Context, id string) (*domain.Guide, error)
	Create(ctx context.Context, in GuideInput) (*domain.Guide, error)
	Update(ctx context.Context, id string, in GuideInput) (*domain.Guide, error)
	Delete(ctx context.Context, id string) error
}

// ViewRecorder counts guide views off the request path.
type ViewRecorder interface {
	Record(guideID string)
}
