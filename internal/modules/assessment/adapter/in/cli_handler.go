package in

import (
	"context"

	"rehab/internal/modules/assessment/dto"
	assessmentin "rehab/internal/modules/assessment/port/in"
)

type CLIHandler struct {
	usecase assessmentin.Usecase
}

func NewCLIHandler(usecase assessmentin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Types() []string {
	return h.usecase.Types()
}

func (h CLIHandler) NewForm(assessmentType string) (assessmentin.Form, error) {
	return h.usecase.NewForm(assessmentType)
}

func (h CLIHandler) Score(ctx context.Context, assessmentType string, inputs map[string]string) (dto.ResultOutput, error) {
	return h.usecase.Score(ctx, assessmentType, inputs)
}

func (h CLIHandler) Current() (dto.CurrentAssessment, bool) {
	return h.usecase.Current()
}

func (h CLIHandler) Watch() (<-chan dto.CurrentAssessment, func()) {
	return h.usecase.Watch()
}
