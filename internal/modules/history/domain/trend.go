package domain

import (
	"fmt"
	"sort"
	"strings"

	apperrors "rehab/internal/platform/errors"
)

type TrendKind string

const (
	TrendBP  TrendKind = "bp"
	TrendPHQ TrendKind = "phq"
)

// MinBPReadings is the fewest readings a blood pressure trend is fitted on.
const MinBPReadings = 2

func ParseTrendKind(s string) (TrendKind, error) {
	switch NormalizeType(s) {
	case "bp", "blood_pressure":
		return TrendBP, nil
	case "phq", "phq9", "phq_9":
		return TrendPHQ, nil
	}
	return "", fmt.Errorf("%w: unknown trend %q (want bp or phq)", apperrors.ErrInvalidInput, s)
}

// RecordType is the assessment type a trend is computed from.
func (k TrendKind) RecordType() string {
	if k == TrendBP {
		return "blood_pressure"
	}
	return "phq9"
}

type BPReading struct {
	Systolic  float64
	Diastolic float64
}

// ParseBPReading reads "120/80".
func ParseBPReading(s string) (BPReading, error) {
	sys, dia, ok := strings.Cut(strings.TrimSpace(s), "/")
	var r BPReading
	if ok {
		_, errS := fmt.Sscanf(strings.TrimSpace(sys), "%g", &r.Systolic)
		_, errD := fmt.Sscanf(strings.TrimSpace(dia), "%g", &r.Diastolic)
		ok = errS == nil && errD == nil
	}
	if !ok {
		return BPReading{}, fmt.Errorf("%w: reading %q must look like 120/80", apperrors.ErrInvalidInput, s)
	}
	return r, nil
}

// ValidateReadings applies the blood pressure form's ranges to every reading.
func ValidateReadings(readings []BPReading) error {
	fields := map[string]string{}
	if len(readings) < MinBPReadings {
		fields["measurements"] = fmt.Sprintf("at least %d readings are needed", MinBPReadings)
	}
	for i, r := range readings {
		if r.Systolic < 50 || r.Systolic > 250 {
			fields[fmt.Sprintf("measurements[%d].systolic", i)] = "must be between 50 and 250"
		}
		if r.Diastolic < 30 || r.Diastolic > 150 {
			fields[fmt.Sprintf("measurements[%d].diastolic", i)] = "must be between 30 and 150"
		}
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}

// Trend is the backend's reading of a series. Warning is empty for PHQ-9.
type Trend struct {
	Kind    TrendKind
	Status  string
	Warning string
	Points  int
}

// Chronological returns records oldest first. Listed history is newest first;
// records with timestamps are ordered by them.
func Chronological(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		return !a.IsZero() && !b.IsZero() && a.Before(b)
	})
	return out
}

// BPReadings extracts readings from blood pressure records, oldest first.
// Records without both values are skipped.
func BPReadings(records []Record) []BPReading {
	var out []BPReading
	for _, r := range Chronological(records) {
		if NormalizeType(r.Type) != "blood_pressure" {
			continue
		}
		sys, okS := number(r.Data["systolic"])
		dia, okD := number(r.Data["diastolic"])
		if okS && okD {
			out = append(out, BPReading{Systolic: sys, Diastolic: dia})
		}
	}
	return out
}

// PHQScores extracts PHQ-9 totals, oldest first.
func PHQScores(records []Record) []int {
	var out []int
	for _, r := range Chronological(records) {
		if NormalizeType(r.Type) != "phq9" {
			continue
		}
		if n, ok := r.Score(); ok {
			out = append(out, int(n))
		}
	}
	return out
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
