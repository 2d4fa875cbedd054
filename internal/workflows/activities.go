package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/core/ports"
	"github.com/hooklinehq/hookline/internal/core/usecases"
)

// digestRecordTTL keeps delivery records for a week so reruns within the
// same day are deduplicated but old records do not pile up.
const digestRecordTTL = 7 * 24 * 3600

// DigestActivities holds the activity implementations for the digest workflow.
type DigestActivities struct {
	Digests  *usecases.DigestService
	Cache    ports.CacheService
	Notifier ports.NotificationService
}

// BuildSpotDigest composes the daily digest for one spot.
func (a *DigestActivities) BuildSpotDigest(ctx context.Context, spotID string) (*domain.SpotDigest, error) {
	digest, err := a.Digests.BuildSpotDigest(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("build digest for %s: %w", spotID, err)
	}
	return digest, nil
}

// RecordDigest stores a delivery record keyed by user, spot, and date, and
// returns the record key for later compensation.
func (a *DigestActivities) RecordDigest(ctx context.Context, userID string, digest domain.SpotDigest) (string, error) {
	key := fmt.Sprintf("digest:%s:%s:%s", userID, digest.SpotID, digest.Date.Format("2006-01-02"))

	data, err := json.Marshal(digest)
	if err != nil {
		return "", fmt.Errorf("marshal digest: %w", err)
	}
	if err := a.Cache.Set(ctx, key, data, digestRecordTTL); err != nil {
		return "", fmt.Errorf("record digest %s: %w", key, err)
	}
	return key, nil
}

// SendDigestPush notifies the follower about the spot's day.
func (a *DigestActivities) SendDigestPush(ctx context.Context, userID string, digest domain.SpotDigest) error {
	if a.Notifier == nil {
		log.Printf("PUSH (no notifier) → user=%s spot=%s catches=%d", userID, digest.SpotID, digest.CatchCount)
		return nil
	}

	title := fmt.Sprintf("Today at %s", digest.SpotName)
	body := fmt.Sprintf("%d catches reported", digest.CatchCount)
	if digest.LatestCatch != nil {
		body = fmt.Sprintf("%d catches reported, latest a %s", digest.CatchCount, digest.LatestCatch.Species)
	}
	return a.Notifier.SendPush(ctx, userID, title, body)
}

// DeleteDigestRecord removes a delivery record (saga compensation / rollback).
func (a *DigestActivities) DeleteDigestRecord(ctx context.Context, key string) error {
	if err := a.Cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete digest record %s: %w", key, err)
	}
	log.Printf("Digest record %s deleted (saga compensation)", key)
	return nil
}
