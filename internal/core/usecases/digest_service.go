package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/hooklinehq/hookline/internal/core/domain"
)

// DigestService composes the daily spot digest consumed by the Temporal
// digest workflow.
type DigestService struct {
	mapSvc *MapService
}

// NewDigestService creates a new DigestService.
func NewDigestService(mapSvc *MapService) *DigestService {
	return &DigestService{mapSvc: mapSvc}
}

// BuildSpotDigest snapshots one spot's current state for notification.
func (s *DigestService) BuildSpotDigest(ctx context.Context, spotID string) (*domain.SpotDigest, error) {
	spot, err := s.mapSvc.GetSpot(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if spot == nil {
		return nil, fmt.Errorf("spot %s not found", spotID)
	}

	boards, err := s.mapSvc.SpotLeaderboards(ctx, spotID)
	if err != nil {
		return nil, err
	}

	return &domain.SpotDigest{
		SpotID:       spot.ID,
		SpotName:     spot.Name,
		Date:         time.Now().UTC().Truncate(24 * time.Hour),
		CatchCount:   spot.CatchCount,
		LatestCatch:  spot.LatestCatch,
		Leaderboards: boards,
	}, nil
}
