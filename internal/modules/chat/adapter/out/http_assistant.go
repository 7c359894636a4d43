package out

import (
	"context"
	"net/http"

	"rehab/internal/modules/chat/domain"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/httpapi"
)

const (
	patientChatPath = "/chat/patient-chat"
	advicePath      = "/chat/assessment-advice"
	analysisPath    = "/ai/rehabilitation/analysis"
	completionPath  = "/ai/chat/completion"
)

type HTTPAssistant struct {
	client *httpapi.Client
}

func NewHTTPAssistant(client *httpapi.Client) *HTTPAssistant {
	return &HTTPAssistant{client: client}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type replyBody struct {
	Response        *string  `json:"response"`
	Advice          string   `json:"advice"`
	Recommendations []string `json:"recommendations"`
}

func toMessages(msgs []domain.Message) []message {
	out := make([]message, len(msgs))
	for i, m := range msgs {
		out[i] = message{Role: string(m.Role), Content: m.Content}
	}
	return out
}

func (a *HTTPAssistant) post(ctx context.Context, path string, body any) (domain.Reply, error) {
	var out replyBody
	if err := a.client.Do(ctx, httpapi.Request{Method: http.MethodPost, Path: path, JSON: body}, &out); err != nil {
		return domain.Reply{}, err
	}
	if out.Response == nil {
		return domain.Reply{}, apperrors.NewMalformedError()
	}
	return domain.Reply{Text: *out.Response, Advice: out.Advice, Recommendations: out.Recommendations}, nil
}

func (a *HTTPAssistant) PatientChat(ctx context.Context, msgs []domain.Message, patient map[string]any, language string) (domain.Reply, error) {
	return a.post(ctx, patientChatPath, struct {
		Messages       []message      `json:"messages"`
		PatientContext map[string]any `json:"patient_context,omitempty"`
		Language       string         `json:"language"`
	}{toMessages(msgs), patient, language})
}

func (a *HTTPAssistant) AssessmentAdvice(ctx context.Context, assessmentType string, results map[string]any, language string) (domain.Reply, error) {
	return a.post(ctx, advicePath, struct {
		AssessmentType string         `json:"assessment_type"`
		Results        map[string]any `json:"results"`
		Language       string         `json:"language"`
	}{assessmentType, results, language})
}

func (a *HTTPAssistant) Analyze(ctx context.Context, assessmentType string, data map[string]any, language string) (domain.Reply, error) {
	return a.post(ctx, analysisPath, struct {
		AssessmentData map[string]any `json:"assessment_data"`
		AssessmentType string         `json:"assessment_type"`
		Language       string         `json:"language"`
	}{data, assessmentType, language})
}

func (a *HTTPAssistant) Complete(ctx context.Context, msgs []domain.Message, language string, extra map[string]any) (domain.Reply, error) {
	return a.post(ctx, completionPath, struct {
		Messages []message      `json:"messages"`
		Language string         `json:"language"`
		Context  map[string]any `json:"context,omitempty"`
	}{toMessages(msgs), language, extra})
}
