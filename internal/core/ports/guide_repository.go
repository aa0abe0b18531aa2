package ports

import (
	"context"

	"github.com/medifirst/medifirst-api/internal/core/domain"
)

// ListGuidesFilter carries the query parameters for listing guides.
type ListGuidesFilter struct {
	Category    string // optional: exact category
	Search      string // optional: full-text search on title, description and tags
	OfflineOnly bool   // only guides flagged as available offline
}

// GuideRepository defines persistence operations for first-aid guides.
type GuideRepository interface {
	Create(ctx context.Context, g *domain.Guide) (*domain.Guide, error)
	FindByID(ctx context.Context, id string) (*domain.Guide, error)
	// List returns summaries (no steps) ordered by view count, newest first on ties.
	List(ctx context.Context, filter ListGuidesFilter) ([]*domain.Guide, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Guide, error)
	Update(ctx context.Context, g *domain.Guide) (*domain.Guide, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string, by int64) error
}
