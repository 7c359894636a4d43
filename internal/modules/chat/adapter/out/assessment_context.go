package out

import (
	assessmentdto "rehab/internal/modules/assessment/dto"
	"rehab/internal/modules/chat/domain"
)

// CurrentAssessments is the part of the assessment module the chat reads.
type CurrentAssessments interface {
	Current() (assessmentdto.CurrentAssessment, bool)
}

type AssessmentContext struct {
	src CurrentAssessments
}

func NewAssessmentContext(src CurrentAssessments) AssessmentContext {
	return AssessmentContext{src: src}
}

func (a AssessmentContext) Current() (domain.AssessmentContext, bool) {
	cur, ok := a.src.Current()
	if !ok {
		return domain.AssessmentContext{}, false
	}
	return domain.AssessmentContext{Type: cur.Type, Inputs: cur.Inputs, Results: cur.Results}, true
}
