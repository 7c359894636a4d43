package domain

import (
	"encoding/json"
	"fmt"

	apperrors "rehab/internal/platform/errors"
)

// Result is one scoring response. Every variant keeps the response fields
// exactly as the backend returned them.
type Result interface {
	Type() Type
	// Score is the numeric total, when the variant has one.
	Score() (float64, bool)
	Severity() string
	Recommendations() string
	Fields() map[string]any
}

type raw map[string]any

func (r raw) Fields() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

type PHQ9Result struct {
	raw
	TotalScore      float64
	DepressionLevel string
}

func (PHQ9Result) Type() Type               { return PHQ9 }
func (r PHQ9Result) Score() (float64, bool) { return r.TotalScore, true }
func (r PHQ9Result) Severity() string       { return r.DepressionLevel }
func (PHQ9Result) Recommendations() string  { return "" }

type NIHSSResult struct {
	raw
	TotalScore    float64
	HasTotal      bool
	SeverityLabel string
}

func (NIHSSResult) Type() Type               { return NIHSS }
func (r NIHSSResult) Score() (float64, bool) { return r.TotalScore, r.HasTotal }
func (r NIHSSResult) Severity() string       { return r.SeverityLabel }
func (NIHSSResult) Recommendations() string  { return "" }

type BloodPressureResult struct {
	raw
	Category string
	Message  string
}

func (BloodPressureResult) Type() Type                { return BloodPressure }
func (BloodPressureResult) Score() (float64, bool)    { return 0, false }
func (r BloodPressureResult) Severity() string        { return r.Category }
func (r BloodPressureResult) Recommendations() string { return r.Message }

type MovementResult struct {
	raw
	UpperLimbScore float64
	LowerLimbScore float64
	BalanceScore   float64
	TotalScore     float64
	UpperLimbLevel string
	LowerLimbLevel string
	BalanceLevel   string
	OverallLevel   string
	Recommendation string
}

func (MovementResult) Type() Type                { return Movement }
func (r MovementResult) Score() (float64, bool)  { return r.TotalScore, true }
func (r MovementResult) Severity() string        { return r.OverallLevel }
func (r MovementResult) Recommendations() string { return r.Recommendation }

type SpeechHearingResult struct {
	raw
	SpeechScore    float64
	HearingScore   float64
	TotalScore     float64
	SpeechLevel    string
	HearingLevel   string
	OverallLevel   string
	Recommendation string
}

func (SpeechHearingResult) Type() Type                { return SpeechHearing }
func (r SpeechHearingResult) Score() (float64, bool)  { return r.TotalScore, true }
func (r SpeechHearingResult) Severity() string        { return r.OverallLevel }
func (r SpeechHearingResult) Recommendations() string { return r.Recommendation }

// DecodeResult validates body against the variant for t. A body missing a
// required field is a malformed response.
func DecodeResult(t Type, body []byte) (Result, error) {
	var fields raw
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, apperrors.NewMalformedError()
	}
	return ResultFromFields(t, fields)
}

// ResultFromFields builds the variant for t from already decoded fields.
func ResultFromFields(t Type, fields map[string]any) (Result, error) {
	r := raw(fields)
	d := decoder{fields: r}
	var out Result
	switch t {
	case PHQ9:
		out = PHQ9Result{raw: r, TotalScore: d.number("total_score"), DepressionLevel: d.text("depression_level")}
	case NIHSS:
		res := NIHSSResult{raw: r, SeverityLabel: d.text("severity")}
		res.TotalScore, res.HasTotal = d.optionalNumber("total_score")
		out = res
	case BloodPressure:
		res := BloodPressureResult{raw: r, Category: d.text("category")}
		res.Message, _ = d.optionalText("message")
		out = res
	case Movement:
		out = MovementResult{
			raw:            r,
			UpperLimbScore: d.number("upper_limb_score"),
			LowerLimbScore: d.number("lower_limb_score"),
			BalanceScore:   d.number("balance_score"),
			TotalScore:     d.number("total_score"),
			UpperLimbLevel: d.text("upper_limb_level"),
			LowerLimbLevel: d.text("lower_limb_level"),
			BalanceLevel:   d.text("balance_level"),
			OverallLevel:   d.text("overall_level"),
			Recommendation: d.text("recommendations"),
		}
	case SpeechHearing:
		out = SpeechHearingResult{
			raw:            r,
			SpeechScore:    d.number("speech_score"),
			HearingScore:   d.number("hearing_score"),
			TotalScore:     d.number("total_score"),
			SpeechLevel:    d.text("speech_level"),
			HearingLevel:   d.text("hearing_level"),
			OverallLevel:   d.text("overall_level"),
			Recommendation: d.text("recommendations"),
		}
	default:
		return nil, fmt.Errorf("%w: unknown assessment type %q", apperrors.ErrInvalidInput, t)
	}
	if d.missing != "" {
		return nil, apperrors.NewMalformedError()
	}
	return out, nil
}

type decoder struct {
	fields  raw
	missing string
}

func (d *decoder) number(key string) float64 {
	n, ok := d.optionalNumber(key)
	if !ok && d.missing == "" {
		d.missing = key
	}
	return n
}

func (d *decoder) optionalNumber(key string) (float64, bool) {
	switch v := d.fields[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	}
	return 0, false
}

func (d *decoder) text(key string) string {
	s, ok := d.optionalText(key)
	if !ok && d.missing == "" {
		d.missing = key
	}
	return s
}

func (d *decoder) optionalText(key string) (string, bool) {
	s, ok := d.fields[key].(string)
	return s, ok
}
