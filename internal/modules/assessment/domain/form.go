package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "rehab/internal/platform/errors"
)

type IssueCode string

const (
	IssueRequired IssueCode = "required"
	IssueInteger  IssueCode = "integer"
	IssueRange    IssueCode = "range"
	IssueBool     IssueCode = "bool"
)

// Issue is why one field cannot be submitted.
type Issue struct {
	Code IssueCode
	Min  int
	Max  int
}

func (i Issue) String() string {
	switch i.Code {
	case IssueRange:
		return fmt.Sprintf("must be between %d and %d", i.Min, i.Max)
	case IssueInteger:
		return "must be a whole number"
	case IssueBool:
		return "must be yes or no"
	default:
		return "required"
	}
}

// Check parses raw for f. An empty optional field yields its default.
func (f Field) Check(raw string) (any, *Issue) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = f.Default
	}
	if raw == "" {
		if f.Required {
			return nil, &Issue{Code: IssueRequired}
		}
		return nil, nil
	}
	switch f.Kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &Issue{Code: IssueInteger}
		}
		if n < f.Min || n > f.Max {
			return nil, &Issue{Code: IssueRange, Min: f.Min, Max: f.Max}
		}
		return n, nil
	case KindBool:
		switch strings.ToLower(raw) {
		case "true", "yes", "y", "1":
			return true, nil
		case "false", "no", "n", "0":
			return false, nil
		}
		return nil, &Issue{Code: IssueBool}
	default:
		return raw, nil
	}
}

// Inputs are the raw values of one form, keyed by field name.
type Inputs map[string]string

func (in Inputs) Clone() Inputs {
	out := make(Inputs, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Validate reports every field that blocks submission.
func (s Schema) Validate(in Inputs) map[string]Issue {
	issues := map[string]Issue{}
	for _, f := range s.Fields {
		if _, issue := f.Check(in[f.Name]); issue != nil {
			issues[f.Name] = *issue
		}
	}
	return issues
}

// Parse converts inputs to typed values or returns a ValidationError.
func (s Schema) Parse(in Inputs) (map[string]any, error) {
	values := map[string]any{}
	fields := map[string]string{}
	for _, f := range s.Fields {
		v, issue := f.Check(in[f.Name])
		if issue != nil {
			fields[f.Name] = issue.String()
			continue
		}
		if v != nil {
			values[f.Name] = v
		}
	}
	if len(fields) > 0 {
		return nil, &apperrors.ValidationError{Fields: fields}
	}
	return values, nil
}

type question struct {
	ID    int `json:"id"`
	Score int `json:"score"`
}

// Payload is the scoring request body for parsed values.
func (s Schema) Payload(values map[string]any, language string) map[string]any {
	if !s.Questionnaire {
		out := make(map[string]any, len(values))
		for k, v := range values {
			out[k] = v
		}
		return out
	}
	out := map[string]any{"language": language}
	var questions []question
	for _, f := range s.Fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		if strings.HasPrefix(f.Name, "q") {
			id, err := strconv.Atoi(strings.TrimPrefix(f.Name, "q"))
			if err == nil {
				questions = append(questions, question{ID: id, Score: v.(int)})
				continue
			}
		}
		out[f.Name] = v
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	out["questions"] = questions
	return out
}
