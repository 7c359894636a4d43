package out

import (
	assessmentdto "rehab/internal/modules/assessment/dto"
)

type CurrentAssessments interface {
	Current() (assessmentdto.CurrentAssessment, bool)
}

// AssessmentCurrent exports the last scored assessment with its inputs and
// results merged.
type AssessmentCurrent struct {
	src CurrentAssessments
}

func NewAssessmentCurrent(src CurrentAssessments) AssessmentCurrent {
	return AssessmentCurrent{src: src}
}

func (a AssessmentCurrent) Current() (string, map[string]any, bool) {
	cur, ok := a.src.Current()
	if !ok {
		return "", nil, false
	}
	data := make(map[string]any, len(cur.Inputs)+len(cur.Results))
	for k, v := range cur.Inputs {
		data[k] = v
	}
	for k, v := range cur.Results {
		data[k] = v
	}
	return cur.Type, data, true
}
