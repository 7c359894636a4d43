package out_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	historyout "rehab/internal/modules/history/adapter/out"
	"rehab/internal/modules/history/domain"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/httpapi"
)

func TestHTTPRemoteDecodesHistory(t *testing.T) {
	t.Parallel()
	r := chi.NewRouter()
	r.Get("/assessments/history", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `[
  {"id":7,"user_id":1,"type":"phq9","data":{"total_score":8,"depression_level":"mild"},"created_at":"2025-05-01T10:00:00.123456","updated_at":null},
  {"id":6,"type":"unknown","error":"Failed to convert: bad row"}
]`)
	})
	r.Get("/assessments/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "7" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Assessment not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":7,"type":"phq9","data":{}}`)
	})
	r.Delete("/assessments/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	remote := historyout.NewHTTPRemote(httpapi.New(srv.URL))
	records, err := remote.List(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(7), records[0].ID)
	assert.Equal(t, "mild", records[0].Severity())
	assert.Equal(t, 2025, records[0].CreatedAt.Year())
	assert.Equal(t, "Failed to convert: bad row", records[1].Error)

	_, err = remote.Get(context.Background(), 8)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Assessment not found", apperrors.Message(err))

	require.NoError(t, remote.Delete(context.Background(), 7))
}

func TestSQLiteCacheKeepsOrderAndMirrorsDeletes(t *testing.T) {
	t.Parallel()
	cache, err := historyout.NewSQLiteCache(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer cache.Close()
	ctx := context.Background()

	created := time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, cache.Replace(ctx, []domain.Record{
		{ID: 30, Type: "nihss", Data: map[string]any{"severity": "Minor stroke"}, CreatedAt: created},
		{ID: 10, Type: "phq9", Data: map[string]any{"total_score": float64(8)}},
		{ID: 20, Type: "blood_pressure"},
	}))
	require.NoError(t, cache.Delete(ctx, 10))
	require.NoError(t, cache.Upsert(ctx, domain.Record{ID: 40, Type: "movement"}))
	require.NoError(t, cache.Upsert(ctx, domain.Record{ID: 30, Type: "nihss", Data: map[string]any{"severity": "Moderate stroke"}, CreatedAt: created}))

	records, err := cache.List(ctx)
	require.NoError(t, err)
	got := make([]int64, len(records))
	for i, r := range records {
		got[i] = r.ID
	}
	assert.Equal(t, []int64{30, 20, 40}, got)
	assert.Equal(t, "Moderate stroke", records[0].Severity())
	assert.True(t, created.Equal(records[0].CreatedAt))

	require.NoError(t, cache.Replace(ctx, nil))
	records, err = cache.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHTTPTrendsPostsSeries(t *testing.T) {
	t.Parallel()
	r := chi.NewRouter()
	r.Post("/bp/trend", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Measurements []map[string]float64 `json:"measurements"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Measurements, 2)
		assert.Equal(t, 141.0, body.Measurements[1]["systolic"])
		_, _ = io.WriteString(w, `{"status":"Rising","warning":"Blood pressure is going up."}`)
	})
	r.Post("/alerts/analyze-bp", func(w http.ResponseWriter, r *http.Request) {
		var body []map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 82.0, body[0]["diastolic"])
		_, _ = io.WriteString(w, `{"status":"Stable","warning":""}`)
	})
	r.Post("/alerts/phq-trend", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Scores []int `json:"scores"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if len(body.Scores) == 1 {
			_, _ = io.WriteString(w, `{}`)
			return
		}
		assert.Equal(t, []int{4, 9, 14}, body.Scores)
		_, _ = io.WriteString(w, `{"trend_status":"worsening"}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	trends := historyout.NewHTTPTrends(httpapi.New(srv.URL))
	ctx := context.Background()
	readings := []domain.BPReading{{Systolic: 128, Diastolic: 82}, {Systolic: 141, Diastolic: 90}}

	trend, err := trends.BPTrend(ctx, readings)
	require.NoError(t, err)
	assert.Equal(t, "Rising", trend.Status)
	assert.Equal(t, "Blood pressure is going up.", trend.Warning)

	trend, err = trends.BPAlert(ctx, readings)
	require.NoError(t, err)
	assert.Equal(t, "Stable", trend.Status)
	assert.Empty(t, trend.Warning)

	trend, err = trends.PHQTrend(ctx, []int{4, 9, 14})
	require.NoError(t, err)
	assert.Equal(t, "worsening", trend.Status)

	_, err = trends.PHQTrend(ctx, []int{4})
	assert.ErrorIs(t, err, apperrors.ErrMalformedResponse)
}
