package service

import (
	"context"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"rehab/internal/modules/history/domain"
	historyout "rehab/internal/modules/history/port/out"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/logging"
)

// HistoryService keeps the locally shown list of records. The list is
// replaced by every successful fetch and shrinks on successful deletes.
type HistoryService struct {
	mu      sync.Mutex
	records []domain.Record

	remote  historyout.Remote
	cache   historyout.Cache
	session historyout.SessionView
	logger  hclog.Logger
}

func NewHistoryService(remote historyout.Remote, cache historyout.Cache, session historyout.SessionView, logger hclog.Logger) *HistoryService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &HistoryService{remote: remote, cache: cache, session: session, logger: logger}
}

func (s *HistoryService) requireSession() error {
	if s.session == nil || !s.session.IsAuthenticated() {
		return fmt.Errorf("%w: log in to see your assessment history", apperrors.ErrNotAuthenticated)
	}
	return nil
}

func (s *HistoryService) List(ctx context.Context, filter domain.Filter) ([]domain.Record, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	// The server can only limit the unfiltered list.
	limit := 0
	if domain.NormalizeType(filter.Type) == "" {
		limit = filter.Limit
	}
	records, err := s.remote.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.records = append([]domain.Record(nil), records...)
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Replace(ctx, records); err != nil {
			s.logger.Warn("history cache update failed", "error", err)
		}
	}
	return filter.Apply(records), nil
}

func (s *HistoryService) Detail(ctx context.Context, id int64) (domain.Record, error) {
	if err := s.requireSession(); err != nil {
		return domain.Record{}, err
	}
	record, err := s.remote.Get(ctx, id)
	if err != nil {
		return domain.Record{}, err
	}
	if s.cache != nil {
		if err := s.cache.Upsert(ctx, record); err != nil {
			s.logger.Warn("history cache upsert failed", "id", id, "error", err)
		}
	}
	return record, nil
}

// Delete removes the record remotely, then locally without a re-fetch. On
// failure the local list is left as it was.
func (s *HistoryService) Delete(ctx context.Context, id int64) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	if err := s.remote.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	kept := s.records[:0:0]
	for _, r := range s.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.records = kept
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.logger.Warn("history cache delete failed", "id", id, "error", err)
		}
	}
	return nil
}

// Records returns the local list, filtered.
func (s *HistoryService) Records(filter domain.Filter) []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Apply(s.records)
}

// Offline lists the cached history without contacting the backend.
func (s *HistoryService) Offline(ctx context.Context, filter domain.Filter) ([]domain.Record, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("history cache is not configured")
	}
	records, err := s.cache.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(records), nil
}
