package usecase

import (
	"context"

	"rehab/internal/modules/history/domain"
	"rehab/internal/modules/history/dto"
	historyin "rehab/internal/modules/history/port/in"
	"rehab/internal/modules/history/service"
)

type Interactor struct {
	svc    *service.HistoryService
	trends *service.TrendService
}

func NewInteractor(svc *service.HistoryService, trends *service.TrendService) historyin.Usecase {
	return &Interactor{svc: svc, trends: trends}
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) ([]dto.RecordOutput, error) {
	filter := domain.Filter{Type: input.Type, Limit: input.Limit}
	var (
		records []domain.Record
		err     error
	)
	if input.Offline {
		records, err = i.svc.Offline(ctx, filter)
	} else {
		records, err = i.svc.List(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	return toOutputs(records), nil
}

func (i *Interactor) Detail(ctx context.Context, id int64) (dto.RecordOutput, error) {
	record, err := i.svc.Detail(ctx, id)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	return toOutput(record), nil
}

func (i *Interactor) Delete(ctx context.Context, id int64) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) Records(assessmentType string) []dto.RecordOutput {
	return toOutputs(i.svc.Records(domain.Filter{Type: assessmentType}))
}

func (i *Interactor) Trend(ctx context.Context, input dto.TrendInput) (dto.TrendOutput, error) {
	kind, err := domain.ParseTrendKind(input.Kind)
	if err != nil {
		return dto.TrendOutput{}, err
	}
	req := service.TrendRequest{Kind: kind, Offline: input.Offline}
	for _, text := range input.Readings {
		r, err := domain.ParseBPReading(text)
		if err != nil {
			return dto.TrendOutput{}, err
		}
		req.Readings = append(req.Readings, r)
	}
	trend, err := i.trends.Trend(ctx, req)
	if err != nil {
		return dto.TrendOutput{}, err
	}
	return dto.TrendOutput{Kind: string(trend.Kind), Status: trend.Status, Warning: trend.Warning, Points: trend.Points}, nil
}

func toOutputs(records []domain.Record) []dto.RecordOutput {
	out := make([]dto.RecordOutput, len(records))
	for idx, r := range records {
		out[idx] = toOutput(r)
	}
	return out
}

func toOutput(r domain.Record) dto.RecordOutput {
	score, ok := r.Score()
	return dto.RecordOutput{
		ID:        r.ID,
		Type:      r.Type,
		Data:      r.Data,
		Severity:  r.Severity(),
		Score:     score,
		HasScore:  ok,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Error:     r.Error,
	}
}
