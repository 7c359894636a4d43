package out

import (
	"context"

	"rehab/internal/modules/chat/domain"
)

type Assistant interface {
	PatientChat(ctx context.Context, messages []domain.Message, patient map[string]any, language string) (domain.Reply, error)
	AssessmentAdvice(ctx context.Context, assessmentType string, results map[string]any, language string) (domain.Reply, error)
	Analyze(ctx context.Context, assessmentType string, data map[string]any, language string) (domain.Reply, error)
	Complete(ctx context.Context, messages []domain.Message, language string, extra map[string]any) (domain.Reply, error)
}

// ContextSource yields the current assessment, if one was scored.
type ContextSource interface {
	Current() (domain.AssessmentContext, bool)
}

type LanguageSource interface {
	Language() string
}
