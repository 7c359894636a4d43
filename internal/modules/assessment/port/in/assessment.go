package in

import (
	"context"

	"rehab/internal/modules/assessment/dto"
)

type Usecase interface {
	Types() []string
	NewForm(assessmentType string) (Form, error)
	// Score fills a fresh form, submits it and waits for the history save.
	Score(ctx context.Context, assessmentType string, inputs map[string]string) (dto.ResultOutput, error)
	Current() (dto.CurrentAssessment, bool)
	Watch() (<-chan dto.CurrentAssessment, func())
}

// Form is one assessment in progress.
type Form interface {
	Type() string
	Fields() []dto.FieldInfo
	Set(field, value string) error
	State() dto.FormState
	Submit(ctx context.Context) (dto.ResultOutput, error)
	DismissError()
	Reset()
	Wait()
	Close()
}
