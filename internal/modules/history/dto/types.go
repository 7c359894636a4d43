package dto

import "time"

type RecordOutput struct {
	ID        int64
	Type      string
	Data      map[string]any
	Severity  string
	Score     float64
	HasScore  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Error     string
}

type ListInput struct {
	Type    string
	Limit   int
	Offline bool
}

// TrendInput selects a series. Kind is "bp" or "phq". Readings such as
// "120/80", when given, are analyzed instead of the saved blood pressure
// history.
type TrendInput struct {
	Kind     string
	Readings []string
	Offline  bool
}

type TrendOutput struct {
	Kind    string
	Status  string
	Warning string
	// Points is how many readings or scores were analyzed.
	Points int
}
