package domain

import (
	"fmt"
	"strings"

	apperrors "rehab/internal/platform/errors"
)

type Type string

const (
	BloodPressure Type = "blood_pressure"
	PHQ9          Type = "phq9"
	NIHSS         Type = "nihss"
	SpeechHearing Type = "speech_hearing"
	Movement      Type = "movement"
)

func Types() []Type {
	return []Type{PHQ9, NIHSS, BloodPressure, Movement, SpeechHearing}
}

// ParseType accepts the canonical names plus dashed and short forms.
func ParseType(raw string) (Type, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case "bp", "blood_pressure":
		return BloodPressure, nil
	case "phq9", "phq_9", "phq":
		return PHQ9, nil
	case "nihss":
		return NIHSS, nil
	case "speech_hearing", "speech":
		return SpeechHearing, nil
	case "movement":
		return Movement, nil
	}
	return "", fmt.Errorf("%w: unknown assessment type %q", apperrors.ErrInvalidInput, raw)
}

type FieldKind int

const (
	KindInt FieldKind = iota
	KindText
	KindBool
)

type Field struct {
	Name     string
	Kind     FieldKind
	Min      int
	Max      int
	Required bool
	Default  string
}

type Schema struct {
	Type     Type
	Endpoint string
	Fields   []Field
	// Questionnaire types send their int fields as a questions list.
	Questionnaire bool
}

var nihssMax = []int{3, 2, 3, 3, 4, 4, 2, 2, 3, 2, 2}

func SchemaFor(t Type) (Schema, error) {
	switch t {
	case PHQ9:
		return Schema{Type: t, Endpoint: "/phq/analyze", Fields: scale("q", 9, 3)}, nil
	case NIHSS:
		fields := make([]Field, len(nihssMax))
		for i, max := range nihssMax {
			fields[i] = Field{Name: fmt.Sprintf("nihs_%d", i+1), Kind: KindInt, Min: 0, Max: max, Required: true}
		}
		return Schema{Type: t, Endpoint: "/nihss/analyze", Fields: fields}, nil
	case BloodPressure:
		return Schema{Type: t, Endpoint: "/bp/analyze", Fields: []Field{
			{Name: "systolic", Kind: KindInt, Min: 50, Max: 250, Required: true},
			{Name: "diastolic", Kind: KindInt, Min: 30, Max: 150, Required: true},
			{Name: "correct_position", Kind: KindBool, Default: "true"},
		}}, nil
	case Movement:
		return Schema{Type: t, Endpoint: "/assessment/movement", Questionnaire: true, Fields: append(patientFields(), scale("q", 13, 3)...)}, nil
	case SpeechHearing:
		return Schema{Type: t, Endpoint: "/assessment/speech-hearing", Questionnaire: true, Fields: append(patientFields(), scale("q", 10, 3)...)}, nil
	}
	return Schema{}, fmt.Errorf("%w: unknown assessment type %q", apperrors.ErrInvalidInput, t)
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func scale(prefix string, n, max int) []Field {
	fields := make([]Field, n)
	for i := range fields {
		fields[i] = Field{Name: fmt.Sprintf("%s%d", prefix, i+1), Kind: KindInt, Min: 0, Max: max, Required: true}
	}
	return fields
}

func patientFields() []Field {
	return []Field{
		{Name: "patient_name", Kind: KindText, Required: true},
		{Name: "patient_age", Kind: KindInt, Min: 1, Max: 120, Required: true},
		{Name: "assessor_relationship", Kind: KindText, Required: true},
	}
}
