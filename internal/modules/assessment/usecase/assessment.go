package usecase

import (
	"context"
	"errors"
	"sort"

	"rehab/internal/modules/assessment/domain"
	"rehab/internal/modules/assessment/dto"
	assessmentin "rehab/internal/modules/assessment/port/in"
	assessmentout "rehab/internal/modules/assessment/port/out"
	"rehab/internal/modules/assessment/service"
	apperrors "rehab/internal/platform/errors"
)

type Interactor struct {
	deps service.Deps
}

func NewInteractor(deps service.Deps) assessmentin.Usecase {
	return &Interactor{deps: deps}
}

func (i *Interactor) Types() []string {
	types := domain.Types()
	out := make([]string, len(types))
	for idx, t := range types {
		out[idx] = string(t)
	}
	return out
}

func (i *Interactor) NewForm(assessmentType string) (assessmentin.Form, error) {
	t, err := domain.ParseType(assessmentType)
	if err != nil {
		return nil, err
	}
	c, err := service.NewController(t, i.deps)
	if err != nil {
		return nil, err
	}
	return &form{c: c}, nil
}

func (i *Interactor) Score(ctx context.Context, assessmentType string, inputs map[string]string) (dto.ResultOutput, error) {
	f, err := i.NewForm(assessmentType)
	if err != nil {
		return dto.ResultOutput{}, err
	}
	defer f.Close()
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	var errs []error
	for _, name := range names {
		if err := f.Set(name, inputs[name]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return dto.ResultOutput{}, errors.Join(errs...)
	}
	out, err := f.Submit(ctx)
	if err != nil {
		return dto.ResultOutput{}, err
	}
	f.Wait()
	return out, nil
}

func (i *Interactor) Current() (dto.CurrentAssessment, bool) {
	if i.deps.Board == nil {
		return dto.CurrentAssessment{}, false
	}
	snap, ok := i.deps.Board.Current()
	return toCurrent(snap), ok
}

func (i *Interactor) Watch() (<-chan dto.CurrentAssessment, func()) {
	if i.deps.Board == nil {
		ch := make(chan dto.CurrentAssessment)
		close(ch)
		return ch, func() {}
	}
	return watch(i.deps.Board)
}

func watch(board assessmentout.Board) (<-chan dto.CurrentAssessment, func()) {
	src, cancel := board.Watch()
	out := make(chan dto.CurrentAssessment, 1)
	go func() {
		defer close(out)
		for snap := range src {
			select {
			case <-out:
			default:
			}
			out <- toCurrent(snap)
		}
	}()
	return out, cancel
}

// ─── form ───

type form struct {
	c *service.Controller
}

func (f *form) Type() string              { return string(f.c.Schema().Type) }
func (f *form) Fields() []dto.FieldInfo   { return toFields(f.c.Schema()) }
func (f *form) Set(field, v string) error { return f.c.Set(field, v) }
func (f *form) DismissError()             { f.c.DismissError() }
func (f *form) Reset()                    { f.c.Reset() }
func (f *form) Wait()                     { f.c.Wait() }
func (f *form) Close()                    { f.c.Close() }

func (f *form) State() dto.FormState {
	st := f.c.State()
	out := dto.FormState{
		Type:      string(st.Type),
		Phase:     st.Phase.String(),
		Inputs:    map[string]string(st.Inputs),
		Issues:    make(map[string]dto.FieldIssue, len(st.Issues)),
		CanSubmit: st.CanSubmit(),
	}
	for name, issue := range st.Issues {
		out.Issues[name] = dto.FieldIssue{Code: string(issue.Code), Min: issue.Min, Max: issue.Max}
	}
	if st.Result != nil {
		res := toResult(st.Result)
		out.Result = &res
	}
	if st.LastError != nil {
		out.Error = apperrors.Message(st.LastError)
	}
	return out
}

func (f *form) Submit(ctx context.Context) (dto.ResultOutput, error) {
	res, err := f.c.Submit(ctx)
	if err != nil {
		return dto.ResultOutput{}, err
	}
	return toResult(res), nil
}

// ─── mapping ───

func toResult(r domain.Result) dto.ResultOutput {
	score, ok := r.Score()
	return dto.ResultOutput{
		Type:            string(r.Type()),
		Score:           score,
		HasScore:        ok,
		Severity:        r.Severity(),
		Recommendations: r.Recommendations(),
		Fields:          r.Fields(),
	}
}

func toFields(schema domain.Schema) []dto.FieldInfo {
	out := make([]dto.FieldInfo, len(schema.Fields))
	for idx, f := range schema.Fields {
		kind := "int"
		switch f.Kind {
		case domain.KindText:
			kind = "text"
		case domain.KindBool:
			kind = "bool"
		}
		out[idx] = dto.FieldInfo{Name: f.Name, Kind: kind, Min: f.Min, Max: f.Max, Required: f.Required, Default: f.Default}
	}
	return out
}

func toCurrent(s domain.Snapshot) dto.CurrentAssessment {
	return dto.CurrentAssessment{Type: string(s.Type), Inputs: s.Inputs, Results: s.Results}
}
