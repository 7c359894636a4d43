package out

import (
	"context"
	"net/http"

	"rehab/internal/modules/history/domain"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/httpapi"
)

const (
	bpTrendPath  = "/bp/trend"
	bpAlertPath  = "/alerts/analyze-bp"
	phqTrendPath = "/alerts/phq-trend"
)

type HTTPTrends struct {
	client *httpapi.Client
}

func NewHTTPTrends(client *httpapi.Client) *HTTPTrends {
	return &HTTPTrends{client: client}
}

type measurement struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
}

type bpStatusBody struct {
	Status  string `json:"status"`
	Warning string `json:"warning"`
}

func measurements(readings []domain.BPReading) []measurement {
	out := make([]measurement, len(readings))
	for i, r := range readings {
		out[i] = measurement{Systolic: r.Systolic, Diastolic: r.Diastolic}
	}
	return out
}

func (t *HTTPTrends) BPTrend(ctx context.Context, readings []domain.BPReading) (domain.Trend, error) {
	payload := map[string]any{"measurements": measurements(readings)}
	return t.bp(ctx, bpTrendPath, payload)
}

// BPAlert posts the readings as a bare list.
func (t *HTTPTrends) BPAlert(ctx context.Context, readings []domain.BPReading) (domain.Trend, error) {
	return t.bp(ctx, bpAlertPath, measurements(readings))
}

func (t *HTTPTrends) bp(ctx context.Context, path string, payload any) (domain.Trend, error) {
	var body bpStatusBody
	if err := t.client.Do(ctx, httpapi.Request{Method: http.MethodPost, Path: path, JSON: payload}, &body); err != nil {
		return domain.Trend{}, err
	}
	if body.Status == "" {
		return domain.Trend{}, apperrors.NewMalformedError()
	}
	return domain.Trend{Status: body.Status, Warning: body.Warning}, nil
}

func (t *HTTPTrends) PHQTrend(ctx context.Context, scores []int) (domain.Trend, error) {
	var body struct {
		TrendStatus string `json:"trend_status"`
	}
	req := httpapi.Request{Method: http.MethodPost, Path: phqTrendPath, JSON: map[string]any{"scores": scores}}
	if err := t.client.Do(ctx, req, &body); err != nil {
		return domain.Trend{}, err
	}
	if body.TrendStatus == "" {
		return domain.Trend{}, apperrors.NewMalformedError()
	}
	return domain.Trend{Status: body.TrendStatus}, nil
}
