package dto

type FieldInfo struct {
	Name     string
	Kind     string
	Min      int
	Max      int
	Required bool
	Default  string
}

// FieldIssue is a validation problem; Code is one of required, integer,
// range, bool.
type FieldIssue struct {
	Code string
	Min  int
	Max  int
}

type ResultOutput struct {
	Type            string
	Score           float64
	HasScore        bool
	Severity        string
	Recommendations string
	Fields          map[string]any
}

type FormState struct {
	Type      string
	Phase     string
	Inputs    map[string]string
	Issues    map[string]FieldIssue
	CanSubmit bool
	Result    *ResultOutput
	Error     string
}

// CurrentAssessment is the most recent scored assessment.
type CurrentAssessment struct {
	Type    string
	Inputs  map[string]any
	Results map[string]any
}
