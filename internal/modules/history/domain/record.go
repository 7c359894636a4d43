package domain

import (
	"strings"
	"time"
)

// Record is one persisted assessment as the backend returns it. Error is set
// when the backend could not convert the stored row.
type Record struct {
	ID        int64
	UserID    int64
	Type      string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
	Error     string
}

// Severity picks the categorical label out of the stored result fields.
func (r Record) Severity() string {
	for _, key := range []string{"depression_level", "severity", "category", "overall_level"} {
		if s, ok := r.Data[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (r Record) Score() (float64, bool) {
	n, ok := r.Data["total_score"].(float64)
	return n, ok
}

type Filter struct {
	Type  string
	Limit int
}

func NormalizeType(t string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(t)), "-", "_")
}

// Apply keeps the order of records and drops the ones of other types.
func (f Filter) Apply(records []Record) []Record {
	want := NormalizeType(f.Type)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if want != "" && NormalizeType(r.Type) != want {
			continue
		}
		out = append(out, r)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}
