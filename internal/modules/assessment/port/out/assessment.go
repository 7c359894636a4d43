package out

import (
	"context"

	"rehab/internal/modules/assessment/domain"
)

// Scorer calls the scoring endpoint of schema with payload.
type Scorer interface {
	Score(ctx context.Context, schema domain.Schema, payload map[string]any) (domain.Result, error)
}

// Recorder persists a scored assessment to the user's history.
type Recorder interface {
	Record(ctx context.Context, t domain.Type, data map[string]any) error
}

type SessionView interface {
	IsAuthenticated() bool
}

type LanguageSource interface {
	Language() string
}

// Board holds the last scored assessment for other views.
type Board interface {
	Publish(snapshot domain.Snapshot)
	Current() (domain.Snapshot, bool)
	Watch() (<-chan domain.Snapshot, func())
}
