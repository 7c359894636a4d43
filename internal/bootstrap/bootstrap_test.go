package bootstrap_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rehab/internal/bootstrap"
	"rehab/internal/platform/config"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/testutil/fakebackend"
)

func newApp(t *testing.T, stateDir string, backend *fakebackend.Backend) *bootstrap.App {
	t.Helper()
	cfg, err := config.New(stateDir)
	require.NoError(t, err)
	cfg.BaseURL = backend.URL()
	app, err := bootstrap.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func phq9(score string) map[string]string {
	inputs := map[string]string{}
	for i := 1; i <= 9; i++ {
		inputs[fmt.Sprintf("q%d", i)] = score
	}
	return inputs
}

func TestLoginScoreAndHistoryRoundTrip(t *testing.T) {
	t.Parallel()
	backend := fakebackend.New(t)
	backend.AddUser("p@clinic.org", "pat", "secret")
	app := newApp(t, t.TempDir(), backend)
	ctx := context.Background()

	st, err := app.AuthCLI.Login(ctx, "p@clinic.org", "secret")
	require.NoError(t, err)
	require.NotNil(t, st.User)
	assert.Equal(t, "pat", st.User.Username)

	res, err := app.AssessmentCLI.Score(ctx, "phq9", phq9("1"))
	require.NoError(t, err)
	assert.Equal(t, 9.0, res.Score)
	assert.Equal(t, "mild", res.Severity)

	records, err := app.HistoryCLI.List(ctx, "", 10, false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "phq9", records[0].Type)

	detail, err := app.HistoryCLI.Detail(ctx, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, records[0].ID, detail.ID)

	require.NoError(t, app.HistoryCLI.Delete(ctx, records[0].ID))
	assert.Empty(t, app.HistoryCLI.Records(""))
	assert.Empty(t, backend.Records())

	_, err = app.HistoryCLI.Detail(ctx, records[0].ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "got %v", err)

	err = app.HistoryCLI.Delete(ctx, records[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, app.HistoryCLI.Records(""))
}

func TestTrendsFromSavedHistory(t *testing.T) {
	t.Parallel()
	backend := fakebackend.New(t)
	backend.AddUser("p@clinic.org", "pat", "secret")
	app := newApp(t, t.TempDir(), backend)
	ctx := context.Background()

	_, err := app.AuthCLI.Login(ctx, "p@clinic.org", "secret")
	require.NoError(t, err)
	for _, score := range []string{"0", "1", "2"} {
		_, err := app.AssessmentCLI.Score(ctx, "phq9", phq9(score))
		require.NoError(t, err)
	}
	for _, r := range [][2]string{{"120", "80"}, {"135", "85"}} {
		_, err := app.AssessmentCLI.Score(ctx, "bp", map[string]string{"systolic": r[0], "diastolic": r[1]})
		require.NoError(t, err)
	}

	phq, err := app.HistoryCLI.Trend(ctx, "phq", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "worsening", phq.Status)
	assert.Equal(t, 3, phq.Points)
	assert.Equal(t, []float64{0, 9, 18}, backend.Series("/alerts/phq-trend"))

	bp, err := app.HistoryCLI.Trend(ctx, "blood-pressure", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "Rising", bp.Status)
	assert.Equal(t, "Blood pressure is rising. Monitor closely.", bp.Warning)
	assert.Equal(t, []float64{120, 135}, backend.Series("/alerts/analyze-bp"))
	assert.Zero(t, backend.Hits("POST /bp/trend"))

	// The cache filled by the last fetch serves the offline trend.
	listed := backend.Hits("GET /assessments/history")
	offline, err := app.HistoryCLI.Trend(ctx, "phq", nil, true)
	require.NoError(t, err)
	assert.Equal(t, "worsening", offline.Status)
	assert.Equal(t, listed, backend.Hits("GET /assessments/history"))
}

func TestManualReadingsTrendWithoutLogin(t *testing.T) {
	t.Parallel()
	backend := fakebackend.New(t)
	app := newApp(t, t.TempDir(), backend)
	ctx := context.Background()

	trend, err := app.HistoryCLI.Trend(ctx, "bp", []string{"150/95", "148/96", "151/99"}, false)
	require.NoError(t, err)
	assert.Equal(t, "Danger", trend.Status)
	assert.Equal(t, []float64{150, 148, 151}, backend.Series("/bp/trend"))

	_, err = app.HistoryCLI.Trend(ctx, "bp", []string{"150/95"}, false)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = app.HistoryCLI.Trend(ctx, "phq", nil, false)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	assert.Equal(t, 1, backend.Hits("POST /bp/trend"))
}

func TestFailedSaveStillReturnsResult(t *testing.T) {
	t.Parallel()
	backend := fakebackend.New(t)
	backend.AddUser("p@clinic.org", "pat", "secret")
	backend.FailRecords(true)
	app := newApp(t, t.TempDir(), backend)
	ctx := context.Background()

	_, err := app.AuthCLI.Login(ctx, "p@clinic.org", "secret")
	require.NoError(t, err)

	res, err := app.AssessmentCLI.Score(ctx, "bp", map[string]string{"systolic": "150", "diastolic": "95"})
	require.NoError(t, err)
	assert.Equal(t, "blood_pressure", res.Type)
	assert.NotEmpty(t, res.Severity)
	assert.Equal(t, 1, backend.Hits("POST /assessments"))
	assert.Empty(t, backend.Records())

	current, ok := app.AssessmentCLI.Current()
	require.True(t, ok)
	assert.Equal(t, "blood_pressure", current.Type)
}

func TestAnonymousScoreIsNotSaved(t *testing.T) {
	t.Parallel()
	backend := fakebackend.New(t)
	app := newApp(t, t.TempDir(), backend)

	_, err := app.AssessmentCLI.Score(context.Background(), "phq9", phq9("0"))
	require.NoError(t, err)
	assert.Zero(t, backend.Hits("POST /assessments"))

	_, err = app.HistoryCLI.List(context.Background(), "", 0, false)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestOfflineHistorySurvivesRestart(t *testing.T) {
	t.Parallel()
	backend := fakebackend.New(t)
	backend.AddUser("p@clinic.org", "pat", "secret")
	dir := t.TempDir()
	ctx := context.Background()

	first := newApp(t, dir, backend)
	_, err := first.AuthCLI.Login(ctx, "p@clinic.org", "secret")
	require.NoError(t, err)
	for _, score := range []string{"0", "3"} {
		_, err := first.AssessmentCLI.Score(ctx, "phq9", phq9(score))
		require.NoError(t, err)
	}
	_, err = first.HistoryCLI.List(ctx, "", 0, false)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := newApp(t, dir, backend)
	listed := backend.Hits("GET /assessments/history")
	records, err := second.HistoryCLI.List(ctx, "phq9", 0, true)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Greater(t, records[0].ID, records[1].ID, "newest first")
	assert.Equal(t, listed, backend.Hits("GET /assessments/history"), "offline listing must not contact the backend")

	st := second.Restore(ctx)
	assert.True(t, st.Authenticated, "persisted token must be restored")
}

func TestLanguagePersistsAcrossRuns(t *testing.T) {
	t.Parallel()
	backend := fakebackend.New(t)
	dir := t.TempDir()

	first := newApp(t, dir, backend)
	lang, err := first.Translator.Use("es-MX")
	require.NoError(t, err)
	assert.Equal(t, "es", lang)

	_, err = os.Stat(filepath.Join(dir, "state.json"))
	require.NoError(t, err)

	second := newApp(t, dir, backend)
	assert.Equal(t, "es", second.Translator.Language())
}

func TestExportAndDownloadUseCurrentAssessment(t *testing.T) {
	t.Parallel()
	backend := fakebackend.New(t)
	backend.AddUser("p@clinic.org", "pat", "secret")
	app := newApp(t, t.TempDir(), backend)
	ctx := context.Background()

	_, err := app.ReportCLI.Export(ctx, "Ana Perez", "", nil)
	assert.Error(t, err, "nothing scored yet")

	_, err = app.AssessmentCLI.Score(ctx, "phq9", phq9("2"))
	require.NoError(t, err)
	out, err := app.ReportCLI.Export(ctx, "Ana Perez", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "/reports/ana_perez.pdf", out.FilePath)
	body := backend.LastBody("/export/assessment")
	assert.Equal(t, "phq9", body["assessment_type"])

	_, err = app.AuthCLI.Login(ctx, "p@clinic.org", "secret")
	require.NoError(t, err)
	dir := t.TempDir()
	report, err := app.ReportCLI.Download(ctx, "42", "Ana Perez", dir)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Pages)
	assert.FileExists(t, report.Path)
}

func TestChatAdviceNeedsScoredAssessment(t *testing.T) {
	t.Parallel()
	backend := fakebackend.New(t)
	app := newApp(t, t.TempDir(), backend)
	ctx := context.Background()

	reply, err := app.ChatCLI.Send(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "How are you feeling today?", reply.Text)

	_, err = app.ChatCLI.Advice(ctx)
	assert.Error(t, err)
	assert.Zero(t, backend.Hits("POST /chat/assessment-advice"))

	_, err = app.AssessmentCLI.Score(ctx, "phq9", phq9("3"))
	require.NoError(t, err)
	reply, err = app.ChatCLI.Advice(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Text)
	assert.Len(t, app.ChatCLI.Transcript(), 3)
}
