package usecases_test

import (
	"context"
	"testing"

	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/core/usecases"
)

type mockPublisher struct {
	published []*domain.CatchRecord
}

func (m *mockPublisher) PublishCatchReported(ctx context.Context, c *domain.CatchRecord) error {
	m.published = append(m.published, c)
	return nil
}
func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error { return nil }

func TestCatchService_ReportCatch(t *testing.T) {
	var inserted *domain.CatchRecord
	repo := &mockCatchRepo{insertFn: func(ctx context.Context, c *domain.CatchRecord) error {
		inserted = c
		return nil
	}}
	pub := &mockPublisher{}
	svc := usecases.NewCatchService(repo, pub, nil)

	c := &domain.CatchRecord{Species: "Walleye", Weight: "2 lb"}
	if err := svc.ReportCatch(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inserted == nil {
		t.Fatal("catch was not persisted")
	}
	if c.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if c.CreatedAt == nil {
		t.Error("expected created-at to be stamped")
	}
	if len(pub.published) != 1 {
		t.Errorf("expected 1 published event, got %d", len(pub.published))
	}
}

func TestCatchService_ReportCatch_RequiresSpecies(t *testing.T) {
	svc := usecases.NewCatchService(&mockCatchRepo{}, nil, nil)
	if err := svc.ReportCatch(context.Background(), &domain.CatchRecord{}); err == nil {
		t.Error("expected error for missing species")
	}
}

func TestCatchService_ReportCatch_InvalidatesMapCache(t *testing.T) {
	cache := newMockCache()
	mapSvc := usecases.NewMapService(&mockCatalogRepo{}, &mockCatchRepo{}, cache, 0)
	svc := usecases.NewCatchService(&mockCatchRepo{}, nil, mapSvc)

	ctx := context.Background()
	if _, err := mapSvc.AggregatedSpots(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.ReportCatch(ctx, &domain.CatchRecord{Species: "Perch"}); err != nil {
		t.Fatal(err)
	}
	if len(cache.deleted) == 0 {
		t.Error("expected map cache invalidation after a new catch")
	}
}

func TestCatchService_ProcessCatchEvent_NoRepublish(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewCatchService(&mockCatchRepo{}, pub, nil)

	c := &domain.CatchRecord{ID: "c1", Species: "Walleye"}
	if err := svc.ProcessCatchEvent(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 0 {
		t.Error("event-sourced catches must not be re-published")
	}
}

func TestCatchService_ProcessCatchEvent_RejectsIncomplete(t *testing.T) {
	svc := usecases.NewCatchService(&mockCatchRepo{}, nil, nil)
	if err := svc.ProcessCatchEvent(context.Background(), &domain.CatchRecord{Species: "Walleye"}); err == nil {
		t.Error("expected error for event without id")
	}
}

func TestCatchService_Recent_ClampLimit(t *testing.T) {
	called := false
	repo := &mockCatchRepo{recentFn: func(ctx context.Context, limit int) ([]domain.CatchRecord, error) {
		called = true
		if limit != 20 {
			t.Errorf("expected limit clamped to 20, got %d", limit)
		}
		return nil, nil
	}}

	svc := usecases.NewCatchService(repo, nil, nil)
	_, _ = svc.Recent(context.Background(), 9999)
	if !called {
		t.Error("repo was not called")
	}
}
