package out

import (
	"context"
	"encoding/json"
	"net/http"

	"rehab/internal/modules/assessment/domain"
	"rehab/internal/platform/httpapi"
)

const recordPath = "/assessments"

type HTTPScorer struct {
	client *httpapi.Client
}

func NewHTTPScorer(client *httpapi.Client) *HTTPScorer {
	return &HTTPScorer{client: client}
}

func (s *HTTPScorer) Score(ctx context.Context, schema domain.Schema, payload map[string]any) (domain.Result, error) {
	var body json.RawMessage
	if err := s.client.Do(ctx, httpapi.Request{Method: http.MethodPost, Path: schema.Endpoint, JSON: payload}, &body); err != nil {
		return nil, err
	}
	return domain.DecodeResult(schema.Type, body)
}

type HTTPRecorder struct {
	client *httpapi.Client
}

func NewHTTPRecorder(client *httpapi.Client) *HTTPRecorder {
	return &HTTPRecorder{client: client}
}

type recordRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func (r *HTTPRecorder) Record(ctx context.Context, t domain.Type, data map[string]any) error {
	return r.client.Do(ctx, httpapi.Request{
		Method: http.MethodPost,
		Path:   recordPath,
		JSON:   recordRequest{Type: string(t), Data: data},
	}, nil)
}
