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

type fakeAnalyzer struct {
	mu       sync.Mutex
	calls    []string
	readings []domain.BPReading
	scores   []int
	err      error
}

func (f *fakeAnalyzer) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeAnalyzer) BPTrend(_ context.Context, readings []domain.BPReading) (domain.Trend, error) {
	f.readings = readings
	return domain.Trend{Status: "Rising", Warning: "Readings are climbing."}, f.record("bp-trend")
}

func (f *fakeAnalyzer) BPAlert(_ context.Context, readings []domain.BPReading) (domain.Trend, error) {
	f.readings = readings
	return domain.Trend{Status: "Stable"}, f.record("bp-alert")
}

func (f *fakeAnalyzer) PHQTrend(_ context.Context, scores []int) (domain.Trend, error) {
	f.scores = scores
	return domain.Trend{Status: "worsening"}, f.record("phq-trend")
}

func bp(id int64, sys, dia float64) domain.Record {
	return domain.Record{ID: id, Type: "blood_pressure", Data: map[string]any{"systolic": sys, "diastolic": dia}}
}

func phq(id int64, total float64) domain.Record {
	return domain.Record{ID: id, Type: "phq9", Data: map[string]any{"total_score": total}}
}

func TestTrendFromHistoryIsOldestFirst(t *testing.T) {
	t.Parallel()
	// Newest first, as listed.
	remote := &fakeRemote{records: []domain.Record{phq(5, 14), bp(4, 150, 95), phq(3, 9), bp(2, 130, 85), phq(1, 4)}}
	history := service.NewHistoryService(remote, nil, session(true), nil)
	analyzer := &fakeAnalyzer{}
	svc := service.NewTrendService(analyzer, history, nil)

	trend, err := svc.Trend(context.Background(), service.TrendRequest{Kind: domain.TrendPHQ})
	if err != nil {
		t.Fatalf("phq trend: %v", err)
	}
	if trend.Status != "worsening" || trend.Kind != domain.TrendPHQ || trend.Points != 3 {
		t.Fatalf("unexpected trend %+v", trend)
	}
	if got := analyzer.scores; len(got) != 3 || got[0] != 4 || got[2] != 14 {
		t.Fatalf("expected scores [4 9 14], got %v", got)
	}

	trend, err = svc.Trend(context.Background(), service.TrendRequest{Kind: domain.TrendBP})
	if err != nil {
		t.Fatalf("bp trend: %v", err)
	}
	if trend.Status != "Stable" || trend.Points != 2 {
		t.Fatalf("unexpected trend %+v", trend)
	}
	if r := analyzer.readings; len(r) != 2 || r[0].Systolic != 130 || r[1].Systolic != 150 {
		t.Fatalf("expected readings 130 then 150, got %+v", r)
	}
	if len(analyzer.calls) != 2 || analyzer.calls[1] != "bp-alert" {
		t.Fatalf("expected saved readings to use the alert analysis, got %v", analyzer.calls)
	}
}

func TestManualReadingsSkipHistory(t *testing.T) {
	t.Parallel()
	remote := seeded()
	analyzer := &fakeAnalyzer{}
	svc := service.NewTrendService(analyzer, service.NewHistoryService(remote, nil, session(false), nil), nil)

	trend, err := svc.Trend(context.Background(), service.TrendRequest{
		Kind:     domain.TrendBP,
		Readings: []domain.BPReading{{Systolic: 128, Diastolic: 82}, {Systolic: 141, Diastolic: 90}},
	})
	if err != nil {
		t.Fatalf("manual trend: %v", err)
	}
	if trend.Warning == "" || trend.Points != 2 {
		t.Fatalf("unexpected trend %+v", trend)
	}
	if remote.listCalls != 0 {
		t.Fatalf("expected no history fetch, got %d", remote.listCalls)
	}
}

func TestTrendRejectsBeforeAnyRequest(t *testing.T) {
	t.Parallel()
	cases := map[string]struct {
		records []domain.Record
		req     service.TrendRequest
	}{
		"reading out of range": {req: service.TrendRequest{Kind: domain.TrendBP, Readings: []domain.BPReading{{Systolic: 120, Diastolic: 80}, {Systolic: 320, Diastolic: 80}}}},
		"single reading":       {req: service.TrendRequest{Kind: domain.TrendBP, Readings: []domain.BPReading{{Systolic: 120, Diastolic: 80}}}},
		"readings for phq":     {req: service.TrendRequest{Kind: domain.TrendPHQ, Readings: []domain.BPReading{{Systolic: 120, Diastolic: 80}, {Systolic: 121, Diastolic: 80}}}},
		"one saved bp":         {records: []domain.Record{bp(1, 120, 80), phq(2, 5)}, req: service.TrendRequest{Kind: domain.TrendBP}},
		"no saved phq":         {records: []domain.Record{bp(1, 120, 80)}, req: service.TrendRequest{Kind: domain.TrendPHQ}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{}
			history := service.NewHistoryService(&fakeRemote{records: tc.records}, nil, session(true), nil)
			_, err := service.NewTrendService(analyzer, history, nil).Trend(context.Background(), tc.req)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
			if len(analyzer.calls) != 0 {
				t.Fatalf("expected no analysis request, got %v", analyzer.calls)
			}
		})
	}
}

func TestTrendFromHistoryNeedsSession(t *testing.T) {
	t.Parallel()
	analyzer := &fakeAnalyzer{}
	history := service.NewHistoryService(seeded(), nil, session(false), nil)
	_, err := service.NewTrendService(analyzer, history, nil).Trend(context.Background(), service.TrendRequest{Kind: domain.TrendPHQ})
	if !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("expected not authenticated, got %v", err)
	}
}

func TestOfflineTrendReadsCache(t *testing.T) {
	t.Parallel()
	remote := seeded()
	cache := &memCache{records: []domain.Record{phq(2, 11), phq(1, 6)}}
	analyzer := &fakeAnalyzer{}
	history := service.NewHistoryService(remote, cache, session(false), nil)
	trend, err := service.NewTrendService(analyzer, history, nil).Trend(context.Background(), service.TrendRequest{Kind: domain.TrendPHQ, Offline: true})
	if err != nil {
		t.Fatalf("offline trend: %v", err)
	}
	if trend.Points != 2 || analyzer.scores[0] != 6 {
		t.Fatalf("expected cached scores [6 11], got %v", analyzer.scores)
	}
	if remote.listCalls != 0 {
		t.Fatalf("expected no history fetch, got %d", remote.listCalls)
	}
}

func TestTrendAnalysisErrorPassesThrough(t *testing.T) {
	t.Parallel()
	analyzer := &fakeAnalyzer{err: apperrors.FromStatus(500, "Internal Server Error")}
	history := service.NewHistoryService(&fakeRemote{records: []domain.Record{phq(1, 3)}}, nil, session(true), nil)
	_, err := service.NewTrendService(analyzer, history, nil).Trend(context.Background(), service.TrendRequest{Kind: domain.TrendPHQ})
	if !errors.Is(err, apperrors.ErrServer) {
		t.Fatalf("expected server error, got %v", err)
	}
}
