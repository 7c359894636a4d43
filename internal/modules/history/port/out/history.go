package out

import (
	"context"

	"rehab/internal/modules/history/domain"
)

type Remote interface {
	List(ctx context.Context, limit int) ([]domain.Record, error)
	Get(ctx context.Context, id int64) (domain.Record, error)
	Delete(ctx context.Context, id int64) error
}

// Cache mirrors the last fetched history for offline listing.
type Cache interface {
	Replace(ctx context.Context, records []domain.Record) error
	Upsert(ctx context.Context, record domain.Record) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Record, error)
}

type SessionView interface {
	IsAuthenticated() bool
}

// TrendAnalyzer asks the backend to read a series. Readings and scores are
// oldest first.
type TrendAnalyzer interface {
	// BPTrend fits manually entered readings.
	BPTrend(ctx context.Context, readings []domain.BPReading) (domain.Trend, error)
	// BPAlert analyzes readings taken from saved assessments.
	BPAlert(ctx context.Context, readings []domain.BPReading) (domain.Trend, error)
	PHQTrend(ctx context.Context, scores []int) (domain.Trend, error)
}
