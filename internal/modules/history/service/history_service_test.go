package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rehab/internal/modules/history/domain"
	"rehab/internal/modules/history/service"
	apperrors "rehab/internal/platform/errors"
)

type fakeRemote struct {
	mu        sync.Mutex
	records   []domain.Record
	listCalls int
	limits    []int
	deleteErr error
	deleted   []int64
}

func (f *fakeRemote) List(_ context.Context, limit int) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.limits = append(f.limits, limit)
	return append([]domain.Record(nil), f.records...), nil
}

func (f *fakeRemote) Get(_ context.Context, id int64) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Record{}, apperrors.FromStatus(404, "Assessment not found")
}

func (f *fakeRemote) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i:i], f.records[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return apperrors.FromStatus(404, "Assessment not found")
}

type memCache struct {
	records []domain.Record
}

func (m *memCache) Replace(_ context.Context, records []domain.Record) error {
	m.records = append([]domain.Record(nil), records...)
	return nil
}

func (m *memCache) Upsert(_ context.Context, r domain.Record) error {
	for i := range m.records {
		if m.records[i].ID == r.ID {
			m.records[i] = r
			return nil
		}
	}
	m.records = append(m.records, r)
	return nil
}

func (m *memCache) Delete(_ context.Context, id int64) error {
	kept := m.records[:0]
	for _, r := range m.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return nil
}

func (m *memCache) List(context.Context) ([]domain.Record, error) {
	return append([]domain.Record(nil), m.records...), nil
}

type session bool

func (s session) IsAuthenticated() bool { return bool(s) }

func seeded() *fakeRemote {
	return &fakeRemote{records: []domain.Record{
		{ID: 10, Type: "phq9"},
		{ID: 11, Type: "blood_pressure"},
		{ID: 12, Type: "nihss"},
	}}
}

func ids(records []domain.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestDeleteRemovesLocallyWithoutRefetch(t *testing.T) {
	t.Parallel()
	remote := seeded()
	cache := &memCache{}
	svc := service.NewHistoryService(remote, cache, session(true), nil)

	if _, err := svc.List(context.Background(), domain.Filter{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := svc.Delete(context.Background(), 11); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got := ids(svc.Records(domain.Filter{}))
	if len(got) != 2 || got[0] != 10 || got[1] != 12 {
		t.Fatalf("expected [10 12], got %v", got)
	}
	if remote.listCalls != 1 {
		t.Fatalf("delete must not re-fetch, got %d list calls", remote.listCalls)
	}
	if len(cache.records) != 2 {
		t.Fatalf("cache must mirror the delete, got %v", ids(cache.records))
	}
}

func TestDeleteFailureLeavesListUnchanged(t *testing.T) {
	t.Parallel()
	remote := seeded()
	remote.deleteErr = apperrors.FromStatus(500, "")
	svc := service.NewHistoryService(remote, nil, session(true), nil)
	if _, err := svc.List(context.Background(), domain.Filter{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := svc.Delete(context.Background(), 11); !errors.Is(err, apperrors.ErrServer) {
		t.Fatalf("expected server error, got %v", err)
	}
	if got := svc.Records(domain.Filter{}); len(got) != 3 {
		t.Fatalf("expected list unchanged, got %v", ids(got))
	}
}

func TestDeletingRemovedRecordAgainIsNotFound(t *testing.T) {
	t.Parallel()
	remote := seeded()
	cache := &memCache{}
	svc := service.NewHistoryService(remote, cache, session(true), nil)
	if _, err := svc.List(context.Background(), domain.Filter{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := svc.Delete(context.Background(), 11); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	err := svc.Delete(context.Background(), 11)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if got := ids(svc.Records(domain.Filter{})); len(got) != 2 || got[0] != 10 || got[1] != 12 {
		t.Fatalf("expected remaining list [10 12], got %v", got)
	}
	if got := ids(cache.records); len(got) != 2 {
		t.Fatalf("expected cache untouched by the failed delete, got %v", got)
	}
	if remote.listCalls != 1 {
		t.Fatalf("no re-fetch expected, got %d list calls", remote.listCalls)
	}
}

func TestAnonymousCallsFailBeforeAnyRequest(t *testing.T) {
	t.Parallel()
	remote := seeded()
	svc := service.NewHistoryService(remote, nil, session(false), nil)
	if _, err := svc.List(context.Background(), domain.Filter{}); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("expected not authenticated, got %v", err)
	}
	if _, err := svc.Detail(context.Background(), 10); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("expected not authenticated, got %v", err)
	}
	if err := svc.Delete(context.Background(), 10); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("expected not authenticated, got %v", err)
	}
	if remote.listCalls != 0 || len(remote.deleted) != 0 {
		t.Fatalf("no request expected")
	}
}

func TestDetailNotFound(t *testing.T) {
	t.Parallel()
	svc := service.NewHistoryService(seeded(), nil, session(true), nil)
	_, err := svc.Detail(context.Background(), 99)
	if !errors.Is(err, apperrors.ErrNotFound) || apperrors.Message(err) != "Assessment not found" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFilterAndLimit(t *testing.T) {
	t.Parallel()
	remote := seeded()
	svc := service.NewHistoryService(remote, nil, session(true), nil)
	got, err := svc.List(context.Background(), domain.Filter{Type: "nihss", Limit: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != 12 {
		t.Fatalf("expected [12], got %v", ids(got))
	}
	if len(svc.Records(domain.Filter{})) != 3 {
		t.Fatalf("local list must hold the full result")
	}
	if _, err := svc.List(context.Background(), domain.Filter{Limit: 2}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if remote.limits[0] != 0 || remote.limits[1] != 2 {
		t.Fatalf("expected server limit only without type filter, got %v", remote.limits)
	}
}

func TestOfflineReadsCache(t *testing.T) {
	t.Parallel()
	cache := &memCache{records: []domain.Record{{ID: 1, Type: "phq9"}, {ID: 2, Type: "nihss"}}}
	svc := service.NewHistoryService(seeded(), cache, session(false), nil)
	got, err := svc.Offline(context.Background(), domain.Filter{Type: "phq9"})
	if err != nil || len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected cached phq9 record, got %v err=%v", ids(got), err)
	}
}
