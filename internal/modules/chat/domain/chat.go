package domain

import (
	"fmt"
	"strings"

	apperrors "rehab/internal/platform/errors"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Reply is what the assistant endpoints return. Advice and Recommendations
// are only present on some endpoints.
type Reply struct {
	Text            string
	Advice          string
	Recommendations []string
}

// AssessmentContext is the scored assessment the conversation is about.
type AssessmentContext struct {
	Type    string
	Inputs  map[string]any
	Results map[string]any
}

// Payload is the patient_context object sent with chat messages.
func (c AssessmentContext) Payload() map[string]any {
	return map[string]any{
		"assessment_type": c.Type,
		"inputs":          c.Inputs,
		"results":         c.Results,
	}
}

func ValidateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: message is empty", apperrors.ErrInvalidInput)
	}
	return text, nil
}
