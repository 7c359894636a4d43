package in

import (
	"context"

	"rehab/internal/modules/history/dto"
)

type Usecase interface {
	List(ctx context.Context, input dto.ListInput) ([]dto.RecordOutput, error)
	Detail(ctx context.Context, id int64) (dto.RecordOutput, error)
	Delete(ctx context.Context, id int64) error
	// Records is the local list as last fetched and edited.
	Records(assessmentType string) []dto.RecordOutput
	// Trend sends a blood pressure or PHQ-9 series for analysis.
	Trend(ctx context.Context, input dto.TrendInput) (dto.TrendOutput, error)
}
