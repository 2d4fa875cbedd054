package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/core/ports"
)

// CatchService ingests crowd-sourced catch reports.
type CatchService struct {
	catches   ports.CatchRepository
	publisher ports.EventPublisher
	mapSvc    *MapService
}

// NewCatchService creates a new CatchService. mapSvc may be nil when no
// aggregation cache needs invalidating (e.g. in the feed worker's tests).
func NewCatchService(catches ports.CatchRepository, publisher ports.EventPublisher, mapSvc *MapService) *CatchService {
	return &CatchService{catches: catches, publisher: publisher, mapSvc: mapSvc}
}

// ReportCatch validates and persists a catch logged through the API, then
// announces it on the feed. Coordinates, weight, and timestamps stay
// optional: a report without them is still a valid feed post, it just never
// reaches the map or the leaderboards.
func (s *CatchService) ReportCatch(ctx context.Context, c *domain.CatchRecord) error {
	if c.Species == "" {
		return fmt.Errorf("species is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt == nil {
		now := time.Now().UTC()
		c.CreatedAt = &now
	}

	if err := s.catches.Insert(ctx, c); err != nil {
		return fmt.Errorf("insert catch: %w", err)
	}

	if s.publisher != nil {
		// Best effort: the catch is durable either way.
		_ = s.publisher.PublishCatchReported(ctx, c)
	}
	if s.mapSvc != nil {
		s.mapSvc.InvalidateCache(ctx)
	}
	return nil
}

// ProcessCatchEvent persists a catch that arrived over the event bus (the
// social feed publishes these). No re-publish, to avoid event loops.
func (s *CatchService) ProcessCatchEvent(ctx context.Context, c *domain.CatchRecord) error {
	if c.ID == "" || c.Species == "" {
		return fmt.Errorf("catch event missing id or species")
	}

	if err := s.catches.Insert(ctx, c); err != nil {
		return fmt.Errorf("insert catch: %w", err)
	}
	if s.mapSvc != nil {
		s.mapSvc.InvalidateCache(ctx)
	}
	return nil
}

// Recent returns the newest catch reports for the feed view.
func (s *CatchService) Recent(ctx context.Context, limit int) ([]domain.CatchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.catches.Recent(ctx, limit)
}

// GetByID returns a single catch report.
func (s *CatchService) GetByID(ctx context.Context, id string) (*domain.CatchRecord, error) {
	return s.catches.GetByID(ctx, id)
}
