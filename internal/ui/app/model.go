package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	assessmentdto "rehab/internal/modules/assessment/dto"
	assessmentin "rehab/internal/modules/assessment/port/in"
	authdto "rehab/internal/modules/auth/dto"
	chatdto "rehab/internal/modules/chat/dto"
	historydto "rehab/internal/modules/history/dto"
	reportdto "rehab/internal/modules/report/dto"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/ui/components"
	"rehab/internal/ui/router"
	"rehab/internal/ui/theme"
	assessview "rehab/internal/ui/views/assess"
	chatview "rehab/internal/ui/views/chat"
	historyview "rehab/internal/ui/views/history"
	loginview "rehab/internal/ui/views/login"
	profileview "rehab/internal/ui/views/profile"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type AuthPort interface {
	Session() authdto.SessionOutput
	Watch() (<-chan authdto.SessionOutput, func())
	Login(ctx context.Context, email, password string) (authdto.SessionOutput, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (authdto.ProfileData, error)
}

type AssessmentPort interface {
	Types() []string
	NewForm(assessmentType string) (assessmentin.Form, error)
	Watch() (<-chan assessmentdto.CurrentAssessment, func())
}

type HistoryPort interface {
	List(ctx context.Context, assessmentType string, limit int, offline bool) ([]historydto.RecordOutput, error)
	Detail(ctx context.Context, id int64) (historydto.RecordOutput, error)
	Delete(ctx context.Context, id int64) error
	Records(assessmentType string) []historydto.RecordOutput
	Trend(ctx context.Context, kind string, readings []string, offline bool) (historydto.TrendOutput, error)
}

type ChatPort interface {
	Send(ctx context.Context, text string) (chatdto.ReplyOutput, error)
	Advice(ctx context.Context) (chatdto.ReplyOutput, error)
	Analyze(ctx context.Context) (chatdto.ReplyOutput, error)
	Transcript() []chatdto.MessageOutput
	Reset()
}

type ReportPort interface {
	Export(ctx context.Context, patientName, assessmentType string, data map[string]any) (reportdto.ExportOutput, error)
}

// Translator renders catalog keys and switches the persisted language.
type Translator interface {
	T(key string, args ...any) string
	Language() string
	Use(tag string) (string, error)
}

type Ports struct {
	Auth       AuthPort
	Assessment AssessmentPort
	History    HistoryPort
	Chat       ChatPort
	Report     ReportPort
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabLogin tabID = iota
	tabAssessment
	tabHistory
	tabChat
	tabProfile
	tabCount
)

var tabRoutes = [tabCount]router.Route{
	router.Login, router.Assessment, router.History, router.Chat, router.Profile,
}

var tabKeys = [tabCount]string{
	"nav.login", "nav.assessment", "nav.history", "nav.chat", "nav.profile",
}

func tabFor(route router.Route) tabID {
	for i, r := range tabRoutes {
		if r == route {
			return tabID(i)
		}
	}
	return tabAssessment
}

// ─── async messages ───────────────────────────────────────────────────────────

type sessionChangedMsg struct {
	session authdto.SessionOutput
	ok      bool
}

type assessmentChangedMsg struct {
	current assessmentdto.CurrentAssessment
	ok      bool
}

type loggedOutMsg struct{ err error }

type exportedMsg struct {
	out reportdto.ExportOutput
	err error
}

type trendMsg struct {
	out historydto.TrendOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Fields  key.Binding
	Submit  key.Binding
	Kind    key.Binding
	Delete  key.Binding
	Type    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Fields:  key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "field")),
		Submit:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit assessment")),
		Kind:    key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "assessment type")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete record")),
		Type:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "type a message")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Fields, k.Submit, k.Kind},
		{k.Delete, k.Type},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the route guard,
// the help overlay and the command palette. Business logic sits behind ports
// and rendering is delegated to sub-views.
type Model struct {
	ports Ports
	tr    Translator

	loginView   loginview.Model
	assessView  assessview.Model
	historyView historyview.Model
	chatView    chatview.Model
	profileView profileview.Model

	session  authdto.SessionOutput
	sessions <-chan authdto.SessionOutput
	currents <-chan assessmentdto.CurrentAssessment
	stop     []func()

	activeTab tabID
	decision  router.Decision
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(ports Ports, tr Translator) Model {
	m := Model{
		ports:       ports,
		tr:          tr,
		loginView:   loginview.New(ports.Auth, tr),
		assessView:  assessview.New(assessmentPortBridge{p: ports.Assessment}, tr),
		historyView: historyview.New(historyPortBridge{p: ports.History}, tr),
		chatView:    chatview.New(ports.Chat, tr),
		profileView: profileview.New(ports.Auth, tr),
		session:     ports.Auth.Session(),
		activeTab:   tabAssessment,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(paletteHints),
		status:      tr.T("status.ready"),
	}
	m.sessions, m.stop = watch(ports.Auth.Watch, m.stop)
	m.currents, m.stop = watch(ports.Assessment.Watch, m.stop)
	m.decision = router.Decide(m.session, tabRoutes[m.activeTab])
	return m
}

func watch[T any](subscribe func() (<-chan T, func()), stops []func()) (<-chan T, []func()) {
	ch, cancel := subscribe()
	return ch, append(stops, cancel)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.assessView.Init(),
		waitSession(m.sessions),
		waitAssessment(m.currents),
	)
}

// Close releases subscriptions and abandons in-flight submissions.
func (m Model) Close() {
	for _, stop := range m.stop {
		stop()
	}
	m.assessView.Close()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case sessionChangedMsg:
		if !msg.ok {
			return m, nil
		}
		was := m.session
		m.session = msg.session
		cmds = append(cmds, waitSession(m.sessions))
		if was.Authenticated && !m.session.Authenticated {
			m.historyView.Clear()
			m.profileView.Clear()
		}
		cmds = append(cmds, m.navigate(tabRoutes[m.activeTab]))
		return m, tea.Batch(cmds...)

	case assessmentChangedMsg:
		if !msg.ok {
			return m, nil
		}
		m.chatView.SetContext(msg.current.Type)
		return m, waitAssessment(m.currents)

	case loginview.LoggedInMsg:
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err == nil {
			m.session = msg.Session
			name := ""
			if msg.Session.User != nil {
				name = msg.Session.User.DisplayName
			}
			m.status = m.tr.T("login.success", name)
			target := router.Assessment
			if from := m.loginView.From(); from != "" {
				target = router.Route(from)
			}
			m.loginView.Reset()
			cmds = append(cmds, m.navigate(target))
		}
		return m, tea.Batch(cmds...)

	case loggedOutMsg:
		if msg.err != nil {
			m.status = apperrors.Message(msg.err)
		} else {
			m.status = m.tr.T("logout.done")
		}
		m.session = m.ports.Auth.Session()
		m.historyView.Clear()
		m.profileView.Clear()
		return m, m.navigate(tabRoutes[m.activeTab])

	case exportedMsg:
		if msg.err != nil {
			m.status = apperrors.Message(msg.err)
		} else {
			m.status = m.tr.T("export.done", msg.out.FilePath)
		}
		return m, nil

	case trendMsg:
		if msg.err != nil {
			m.status = apperrors.Message(msg.err)
		} else {
			m.status = m.tr.T("history.trend", msg.out.Kind, msg.out.Points, msg.out.Status)
			if msg.out.Warning != "" {
				m.status += "  " + msg.out.Warning
			}
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = m.tr.T("status.ready")

	// Results of async work started by a view go back to that view even if
	// the user has switched tabs in the meantime.
	case assessview.SubmittedMsg:
		var cmd tea.Cmd
		m.assessView, cmd = m.assessView.Update(msg)
		if msg.Err != nil {
			m.status = apperrors.Message(msg.Err)
		}
		return m, cmd

	case historyview.LoadedMsg, historyview.DetailMsg, historyview.DeletedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case chatview.RepliedMsg:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd

	case profileview.LoadedMsg:
		var cmd tea.Cmd
		m.profileView, cmd = m.profileView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the sub-view while it is taking free text.
		if m.subViewCapturing() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.Close()
			return m, tea.Quit
		case "tab":
			return m, m.navigate(tabRoutes[(m.activeTab+1)%tabCount])
		case "shift+tab":
			return m, m.navigate(tabRoutes[(m.activeTab+tabCount-1)%tabCount])
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	if m.decision.Action != router.Render {
		return m, tea.Batch(cmds...)
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabLogin:
		m.loginView, tabCmd = m.loginView.Update(msg)
	case tabAssessment:
		m.assessView, tabCmd = m.assessView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	case tabChat:
		m.chatView, tabCmd = m.chatView.Update(msg)
	case tabProfile:
		m.profileView, tabCmd = m.profileView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.decision.Action == router.Loading:
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, theme.Muted.Render(m.tr.T("guard.loading")))
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabLogin:
		return m.loginView.View()
	case tabAssessment:
		return m.assessView.View()
	case tabHistory:
		return m.historyView.View()
	case tabChat:
		return m.chatView.View()
	case tabProfile:
		return m.profileView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := m.tr.T(tabKeys[i])
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "rehab  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if u := m.session.User; u != nil {
		left = theme.Hot.Render("● "+u.DisplayName) + "  " + left
	}
	right := theme.Muted.Render(m.tr.Language() + "  ?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── navigation ──────────────────────────────────────────────────────────────

// navigate runs the route guard for route and switches tabs accordingly. It
// is re-run whenever the session changes so that a pending check resolves
// into the page or a redirect.
func (m Model) rendering(route router.Route) bool {
	return m.decision.Action == router.Render && m.decision.Target == route
}

func (m *Model) navigate(route router.Route) tea.Cmd {
	prev := m.decision
	m.decision = router.Decide(m.session, route)

	switch m.decision.Action {
	case router.Loading:
		m.activeTab = tabFor(route)
		return nil
	case router.Redirect:
		m.activeTab = tabLogin
		m.loginView.Redirected(string(m.decision.From))
		m.status = m.decision.Location()
		m.decision = router.Decide(m.session, router.Login)
		return nil
	}

	tab := tabFor(route)
	entered := tab != m.activeTab || prev.Action != router.Render || prev.Target != route
	m.activeTab = tab
	if !entered {
		return nil
	}
	switch tab {
	case tabHistory:
		return m.historyView.Load()
	case tabProfile:
		return m.profileView.Load()
	}
	return nil
}

// ─── palette execution ────────────────────────────────────────────────────────

// paletteHints documents the commands handled by executePalette.
var paletteHints = []string{
	"assess <phq9|nihss|bp|movement|speech>",
	"history:refresh",
	"history:filter [type]",
	"history:trend <bp|phq> [120/80 ...]",
	"chat:advice",
	"chat:analyze",
	"chat:reset",
	"export <patient name>",
	"lang <en|ru|uz|es>",
	"logout",
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "assess":
		if len(parts) < 2 {
			m.status = "usage: assess <type>"
			return m, nil
		}
		if err := m.assessView.Switch(parts[1]); err != nil {
			m.status = apperrors.Message(err)
			return m, nil
		}
		return m, m.navigate(router.Assessment)

	case "history:refresh", "history:filter":
		if parts[0] == "history:filter" {
			m.historyView.SetFilter(rest)
		}
		cmd := m.navigate(router.History)
		if m.rendering(router.History) && cmd == nil {
			cmd = m.historyView.Load()
		}
		return m, cmd

	case "history:trend":
		if len(parts) < 2 {
			m.status = "usage: history:trend <bp|phq> [readings]"
			return m, nil
		}
		if len(parts) > 2 {
			return m, m.trendCmd(parts[1], parts[2:])
		}
		cmd := m.navigate(router.History)
		if !m.rendering(router.History) {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.trendCmd(parts[1], nil))

	case "chat:advice":
		cmd := m.chatView.Advice()
		return m, tea.Batch(cmd, m.navigate(router.Chat))

	case "chat:analyze":
		cmd := m.chatView.Analyze()
		return m, tea.Batch(cmd, m.navigate(router.Chat))

	case "chat:reset":
		m.chatView.Reset()
		return m, m.navigate(router.Chat)

	case "export":
		if rest == "" {
			m.status = "usage: export <patient name>"
			return m, nil
		}
		return m, m.exportCmd(rest)

	case "lang":
		if rest == "" {
			m.status = "usage: lang <tag>"
			return m, nil
		}
		lang, err := m.tr.Use(rest)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = m.tr.T("lang.switched", lang)
		return m, nil

	case "logout":
		return m, m.logoutCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewCapturing reports whether the active tab is taking free text, in
// which case global key bindings must yield.
func (m Model) subViewCapturing() bool {
	switch m.activeTab {
	case tabLogin:
		return m.loginView.Capturing()
	case tabAssessment:
		return m.assessView.Capturing()
	case tabHistory:
		return m.historyView.Filtering()
	case tabChat:
		return m.chatView.Capturing()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.loginView, _ = m.loginView.Update(sz)
	m.assessView, _ = m.assessView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
	m.chatView, _ = m.chatView.Update(sz)
	m.profileView, _ = m.profileView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func waitSession(ch <-chan authdto.SessionOutput) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		return sessionChangedMsg{session: st, ok: ok}
	}
}

func waitAssessment(ch <-chan assessmentdto.CurrentAssessment) tea.Cmd {
	return func() tea.Msg {
		cur, ok := <-ch
		return assessmentChangedMsg{current: cur, ok: ok}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.ports.Auth.Logout(context.Background())}
	}
}

func (m Model) exportCmd(patient string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.ports.Report.Export(context.Background(), patient, "", nil)
		return exportedMsg{out: out, err: err}
	}
}

func (m Model) trendCmd(kind string, readings []string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.ports.History.Trend(context.Background(), kind, readings, false)
		return trendMsg{out: out, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view.

type assessmentPortBridge struct{ p AssessmentPort }

func (b assessmentPortBridge) Types() []string { return b.p.Types() }
func (b assessmentPortBridge) NewForm(t string) (assessview.Form, error) {
	form, err := b.p.NewForm(t)
	if err != nil {
		return nil, err
	}
	return form, nil
}

type historyPortBridge struct{ p HistoryPort }

func (b historyPortBridge) List(ctx context.Context, in historydto.ListInput) ([]historydto.RecordOutput, error) {
	return b.p.List(ctx, in.Type, in.Limit, in.Offline)
}
func (b historyPortBridge) Detail(ctx context.Context, id int64) (historydto.RecordOutput, error) {
	return b.p.Detail(ctx, id)
}
func (b historyPortBridge) Delete(ctx context.Context, id int64) error {
	return b.p.Delete(ctx, id)
}
func (b historyPortBridge) Records(t string) []historydto.RecordOutput {
	return b.p.Records(t)
}
