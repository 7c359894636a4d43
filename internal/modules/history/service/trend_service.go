package service

import (
	"context"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"rehab/internal/modules/history/domain"
	historyout "rehab/internal/modules/history/port/out"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/logging"
)

// RecordSource is where saved assessments are read from. HistoryService
// satisfies it.
type RecordSource interface {
	List(ctx context.Context, filter domain.Filter) ([]domain.Record, error)
	Offline(ctx context.Context, filter domain.Filter) ([]domain.Record, error)
}

type TrendRequest struct {
	Kind domain.TrendKind
	// Readings, when set, are analyzed instead of saved history.
	Readings []domain.BPReading
	Offline  bool
}

type TrendService struct {
	analyzer historyout.TrendAnalyzer
	source   RecordSource
	logger   hclog.Logger
}

func NewTrendService(analyzer historyout.TrendAnalyzer, source RecordSource, logger hclog.Logger) *TrendService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &TrendService{analyzer: analyzer, source: source, logger: logger}
}

func (s *TrendService) Trend(ctx context.Context, req TrendRequest) (domain.Trend, error) {
	if len(req.Readings) > 0 {
		if req.Kind != domain.TrendBP {
			return domain.Trend{}, fmt.Errorf("%w: readings only apply to the bp trend", apperrors.ErrInvalidInput)
		}
		if err := domain.ValidateReadings(req.Readings); err != nil {
			return domain.Trend{}, err
		}
		trend, err := s.analyzer.BPTrend(ctx, req.Readings)
		return s.finish(req.Kind, len(req.Readings), trend, err)
	}

	records, err := s.records(ctx, req)
	if err != nil {
		return domain.Trend{}, err
	}
	switch req.Kind {
	case domain.TrendBP:
		readings := domain.BPReadings(records)
		if len(readings) < domain.MinBPReadings {
			return domain.Trend{}, tooFew(len(readings), domain.MinBPReadings, "blood pressure")
		}
		trend, err := s.analyzer.BPAlert(ctx, readings)
		return s.finish(req.Kind, len(readings), trend, err)
	case domain.TrendPHQ:
		scores := domain.PHQScores(records)
		if len(scores) == 0 {
			return domain.Trend{}, tooFew(0, 1, "PHQ-9")
		}
		trend, err := s.analyzer.PHQTrend(ctx, scores)
		return s.finish(req.Kind, len(scores), trend, err)
	}
	return domain.Trend{}, fmt.Errorf("%w: unknown trend %q", apperrors.ErrInvalidInput, req.Kind)
}

func (s *TrendService) records(ctx context.Context, req TrendRequest) ([]domain.Record, error) {
	filter := domain.Filter{Type: req.Kind.RecordType()}
	if req.Offline {
		return s.source.Offline(ctx, filter)
	}
	return s.source.List(ctx, filter)
}

func (s *TrendService) finish(kind domain.TrendKind, points int, trend domain.Trend, err error) (domain.Trend, error) {
	if err != nil {
		s.logger.Warn("trend analysis failed", "kind", kind, "points", points, "error", err)
		return domain.Trend{}, err
	}
	trend.Kind = kind
	trend.Points = points
	s.logger.Debug("trend analyzed", "kind", kind, "points", points, "status", trend.Status)
	return trend, nil
}

func tooFew(have, want int, what string) error {
	return &apperrors.ValidationError{Fields: map[string]string{
		"history": fmt.Sprintf("%d saved %s assessments, at least %d needed", have, what, want),
	}}
}
