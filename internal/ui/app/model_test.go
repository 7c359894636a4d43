package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	assessmentdto "rehab/internal/modules/assessment/dto"
	assessmentin "rehab/internal/modules/assessment/port/in"
	authdto "rehab/internal/modules/auth/dto"
	chatdto "rehab/internal/modules/chat/dto"
	historydto "rehab/internal/modules/history/dto"
	reportdto "rehab/internal/modules/report/dto"
	"rehab/internal/ui/components"
	"rehab/internal/ui/router"
	loginview "rehab/internal/ui/views/login"
)

// ─── fakes ───────────────────────────────────────────────────────────────────

type fakeAuth struct {
	session  authdto.SessionOutput
	changes  chan authdto.SessionOutput
	loggedIn authdto.SessionOutput
}

func (f *fakeAuth) Session() authdto.SessionOutput { return f.session }
func (f *fakeAuth) Watch() (<-chan authdto.SessionOutput, func()) {
	return f.changes, func() {}
}
func (f *fakeAuth) Login(context.Context, string, string) (authdto.SessionOutput, error) {
	return f.loggedIn, nil
}
func (f *fakeAuth) Logout(context.Context) error {
	f.session = authdto.SessionOutput{}
	return nil
}
func (f *fakeAuth) GetProfile(context.Context) (authdto.ProfileData, error) {
	return authdto.ProfileData{}, nil
}

type fakeForm struct{ kind string }

func (f fakeForm) Type() string                    { return f.kind }
func (fakeForm) Fields() []assessmentdto.FieldInfo { return nil }
func (fakeForm) Set(string, string) error          { return nil }
func (f fakeForm) State() assessmentdto.FormState {
	return assessmentdto.FormState{Type: f.kind, Phase: "editing"}
}
func (fakeForm) Submit(context.Context) (assessmentdto.ResultOutput, error) {
	return assessmentdto.ResultOutput{}, nil
}
func (fakeForm) DismissError() {}
func (fakeForm) Reset()        {}
func (fakeForm) Wait()         {}
func (fakeForm) Close()        {}

type fakeAssessment struct{}

func (fakeAssessment) Types() []string { return []string{"phq9", "blood_pressure"} }
func (fakeAssessment) NewForm(t string) (assessmentin.Form, error) {
	if t == "bp" {
		t = "blood_pressure"
	}
	return fakeForm{kind: t}, nil
}
func (fakeAssessment) Watch() (<-chan assessmentdto.CurrentAssessment, func()) {
	return make(chan assessmentdto.CurrentAssessment), func() {}
}

type fakeHistory struct {
	lists  int
	trends []string
}

func (f *fakeHistory) List(context.Context, string, int, bool) ([]historydto.RecordOutput, error) {
	f.lists++
	return nil, nil
}
func (f *fakeHistory) Detail(context.Context, int64) (historydto.RecordOutput, error) {
	return historydto.RecordOutput{}, nil
}
func (f *fakeHistory) Delete(context.Context, int64) error      { return nil }
func (f *fakeHistory) Records(string) []historydto.RecordOutput { return nil }
func (f *fakeHistory) Trend(_ context.Context, kind string, readings []string, _ bool) (historydto.TrendOutput, error) {
	f.trends = append(f.trends, kind)
	if kind == "phq" {
		return historydto.TrendOutput{Kind: kind, Status: "stable", Points: 3}, nil
	}
	return historydto.TrendOutput{Kind: kind, Status: "Rising", Warning: "going up", Points: len(readings)}, nil
}

type fakeChat struct{}

func (fakeChat) Send(context.Context, string) (chatdto.ReplyOutput, error) {
	return chatdto.ReplyOutput{}, nil
}
func (fakeChat) Advice(context.Context) (chatdto.ReplyOutput, error) {
	return chatdto.ReplyOutput{}, nil
}
func (fakeChat) Analyze(context.Context) (chatdto.ReplyOutput, error) {
	return chatdto.ReplyOutput{}, nil
}
func (fakeChat) Transcript() []chatdto.MessageOutput { return nil }
func (fakeChat) Reset()                              {}

type fakeReport struct{}

func (fakeReport) Export(context.Context, string, string, map[string]any) (reportdto.ExportOutput, error) {
	return reportdto.ExportOutput{FilePath: "/reports/x.pdf"}, nil
}

type keyTranslator struct{ lang string }

func (k *keyTranslator) T(key string, _ ...any) string { return key }
func (k *keyTranslator) Language() string              { return k.lang }
func (k *keyTranslator) Use(tag string) (string, error) {
	k.lang = tag
	return tag, nil
}

func newTestModel(session authdto.SessionOutput) (Model, *fakeAuth, *fakeHistory) {
	auth := &fakeAuth{session: session, changes: make(chan authdto.SessionOutput, 1)}
	history := &fakeHistory{}
	m := NewModel(Ports{
		Auth:       auth,
		Assessment: fakeAssessment{},
		History:    history,
		Chat:       fakeChat{},
		Report:     fakeReport{},
	}, &keyTranslator{lang: "en"})
	return m, auth, history
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return out, cmd
}

var tabKey = tea.KeyMsg{Type: tea.KeyTab}

func paletteSubmit(input string) components.PaletteSubmitMsg {
	return components.PaletteSubmitMsg{Input: input}
}

// ─── tests ───────────────────────────────────────────────────────────────────

func TestAnonymousHistoryRedirectsToLogin(t *testing.T) {
	t.Parallel()
	m, _, history := newTestModel(authdto.SessionOutput{})

	m, cmd := update(t, m, tabKey)
	if cmd != nil {
		t.Fatalf("redirect must not start a history load")
	}
	if m.activeTab != tabLogin {
		t.Fatalf("expected login tab, got %d", m.activeTab)
	}
	if m.loginView.From() != string(router.History) {
		t.Fatalf("expected return route, got %q", m.loginView.From())
	}
	if m.status != "/login?from=%2Fassessment-history" {
		t.Fatalf("unexpected location %q", m.status)
	}
	if history.lists != 0 {
		t.Fatalf("history must not be listed while anonymous")
	}
}

func TestCheckingSessionWaitsThenRenders(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(authdto.SessionOutput{Authenticated: true, Checking: true})

	m, _ = update(t, m, tabKey)
	if m.decision.Action != router.Loading || m.activeTab != tabHistory {
		t.Fatalf("expected loading placeholder on history, got %+v tab %d", m.decision, m.activeTab)
	}

	resolved := authdto.SessionOutput{Authenticated: true, User: &authdto.UserOutput{DisplayName: "pat"}}
	m, cmd := update(t, m, sessionChangedMsg{session: resolved, ok: true})
	if m.decision.Action != router.Render || m.activeTab != tabHistory {
		t.Fatalf("expected history to render, got %+v", m.decision)
	}
	if cmd == nil {
		t.Fatalf("expected history load after the check resolved")
	}
}

func TestCheckFailureRedirectsAfterLoading(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(authdto.SessionOutput{Authenticated: true, Checking: true})
	m, _ = update(t, m, tabKey)

	m, _ = update(t, m, sessionChangedMsg{session: authdto.SessionOutput{}, ok: true})
	if m.activeTab != tabLogin || m.loginView.From() != string(router.History) {
		t.Fatalf("expected redirect to login from history, got tab %d from %q", m.activeTab, m.loginView.From())
	}
}

func TestLoginReturnsToRedirectOrigin(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(authdto.SessionOutput{})
	m, _ = update(t, m, tabKey)

	session := authdto.SessionOutput{Authenticated: true, User: &authdto.UserOutput{DisplayName: "pat"}}
	m, _ = update(t, m, loginview.LoggedInMsg{Session: session})
	if m.activeTab != tabHistory || m.decision.Action != router.Render {
		t.Fatalf("expected history after login, got tab %d %+v", m.activeTab, m.decision)
	}
	if m.loginView.From() != "" {
		t.Fatalf("return route must be consumed")
	}
}

func TestPaletteSwitchesAssessmentAndLanguage(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(authdto.SessionOutput{})

	m, _ = update(t, m, paletteSubmit("assess bp"))
	if m.activeTab != tabAssessment || m.assessView.Current() != "blood_pressure" {
		t.Fatalf("expected blood pressure form, got %q", m.assessView.Current())
	}

	m, _ = update(t, m, paletteSubmit("lang uz"))
	if m.tr.Language() != "uz" || m.status != "lang.switched" {
		t.Fatalf("expected language switch, got %q status %q", m.tr.Language(), m.status)
	}

	m, _ = update(t, m, paletteSubmit("bogus"))
	if m.status != "unknown command: bogus" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestLogoutClearsAndRedirectsProtectedTab(t *testing.T) {
	t.Parallel()
	session := authdto.SessionOutput{Authenticated: true, User: &authdto.UserOutput{DisplayName: "pat"}}
	m, auth, _ := newTestModel(session)
	m, _ = update(t, m, tabKey)
	if m.activeTab != tabHistory {
		t.Fatalf("expected history tab, got %d", m.activeTab)
	}

	_, cmd := update(t, m, paletteSubmit("logout"))
	msg := cmd()
	if auth.session.Authenticated {
		t.Fatalf("logout must reach the auth port")
	}
	m, _ = update(t, m, msg)
	if m.activeTab != tabLogin || m.status == "logout.done" {
		t.Fatalf("expected redirect status after logout, got tab %d status %q", m.activeTab, m.status)
	}
}

// drain runs cmd and any commands it batches, returning the messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestPaletteTrendNeedsSessionForSavedHistory(t *testing.T) {
	t.Parallel()
	m, _, history := newTestModel(authdto.SessionOutput{})

	m, cmd := update(t, m, paletteSubmit("history:trend phq"))
	if cmd != nil || len(history.trends) != 0 {
		t.Fatalf("anonymous trend must redirect without a request")
	}
	if m.activeTab != tabLogin {
		t.Fatalf("expected login tab, got %d", m.activeTab)
	}

	// Manual readings do not read saved history.
	_, cmd = update(t, m, paletteSubmit("history:trend bp 128/82 141/90"))
	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one trend result, got %v", msgs)
	}
	m, _ = update(t, m, msgs[0])
	if m.status != "history.trend  going up" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestPaletteTrendShowsResultOnHistoryTab(t *testing.T) {
	t.Parallel()
	session := authdto.SessionOutput{Authenticated: true, User: &authdto.UserOutput{DisplayName: "pat"}}
	m, _, history := newTestModel(session)

	m, cmd := update(t, m, paletteSubmit("history:trend phq"))
	if m.activeTab != tabHistory {
		t.Fatalf("expected history tab, got %d", m.activeTab)
	}
	for _, msg := range drain(cmd) {
		if _, ok := msg.(trendMsg); ok {
			m, _ = update(t, m, msg)
		}
	}
	if len(history.trends) != 1 || history.trends[0] != "phq" {
		t.Fatalf("expected one phq trend request, got %v", history.trends)
	}
	if m.status != "history.trend" {
		t.Fatalf("unexpected status %q", m.status)
	}
}
