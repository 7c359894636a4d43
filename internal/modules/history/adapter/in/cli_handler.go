package in

import (
	"context"

	"rehab/internal/modules/history/dto"
	historyin "rehab/internal/modules/history/port/in"
)

type CLIHandler struct {
	usecase historyin.Usecase
}

func NewCLIHandler(usecase historyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, assessmentType string, limit int, offline bool) ([]dto.RecordOutput, error) {
	return h.usecase.List(ctx, dto.ListInput{Type: assessmentType, Limit: limit, Offline: offline})
}

func (h CLIHandler) Detail(ctx context.Context, id int64) (dto.RecordOutput, error) {
	return h.usecase.Detail(ctx, id)
}

func (h CLIHandler) Delete(ctx context.Context, id int64) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Records(assessmentType string) []dto.RecordOutput {
	return h.usecase.Records(assessmentType)
}

func (h CLIHandler) Trend(ctx context.Context, kind string, readings []string, offline bool) (dto.TrendOutput, error) {
	return h.usecase.Trend(ctx, dto.TrendInput{Kind: kind, Readings: readings, Offline: offline})
}
