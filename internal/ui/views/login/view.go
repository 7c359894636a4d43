package login

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "rehab/internal/modules/auth/dto"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/ui/present"
	"rehab/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Login(ctx context.Context, email, password string) (authdto.SessionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// LoggedInMsg carries the outcome of a credentials login.
type LoggedInMsg struct {
	Session authdto.SessionOutput
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	tr       present.Translator
	email    textinput.Model
	password textinput.Model
	spinner  spinner.Model
	focus    int
	pending  bool
	status   string
	from     string
	width    int
	height   int
}

func New(port Port, tr present.Translator) Model {
	email := textinput.New()
	email.Placeholder = tr.T("login.email")
	email.CharLimit = 254
	email.Prompt = "› "

	password := textinput.New()
	password.Placeholder = tr.T("login.password")
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, tr: tr, email: email, password: password, spinner: sp, focus: -1}
}

func (m Model) Init() tea.Cmd { return nil }

// Capturing is true while one of the inputs has focus.
func (m Model) Capturing() bool { return m.focus >= 0 }

// Redirected records the page that sent the user here.
func (m *Model) Redirected(from string) {
	m.from = from
	m.status = m.tr.T("guard.redirect")
}

// From is the page to return to after logging in.
func (m Model) From() string { return m.from }

// Focus moves the cursor into the email field.
func (m *Model) Focus() tea.Cmd {
	m.focus = 0
	m.password.Blur()
	return m.email.Focus()
}

// Reset clears typed credentials.
func (m *Model) Reset() {
	m.email.SetValue("")
	m.password.SetValue("")
	m.email.Blur()
	m.password.Blur()
	m.focus = -1
	m.pending = false
	m.from = ""
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.email.Width = min(40, max(msg.Width-8, 10))
		m.password.Width = m.email.Width

	case LoggedInMsg:
		m.pending = false
		if msg.Err != nil {
			m.status = apperrors.Message(msg.Err)
			return m, m.Focus()
		}
		m.password.SetValue("")
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		if m.pending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if m.focus < 0 {
			if msg.String() == "enter" || msg.String() == "i" {
				return m, m.Focus()
			}
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.focus = -1
			m.email.Blur()
			m.password.Blur()
			return m, nil
		case "tab", "shift+tab", "down", "up":
			return m, m.toggle()
		case "enter":
			if m.focus == 0 {
				return m, m.toggle()
			}
			return m.submit()
		}
		var cmd tea.Cmd
		if m.focus == 0 {
			m.email, cmd = m.email.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	body := theme.Title.Render(m.tr.T("nav.login")) + "\n\n" +
		m.tr.T("login.email") + "\n" + m.email.View() + "\n\n" +
		m.tr.T("login.password") + "\n" + m.password.View() + "\n\n"
	switch {
	case m.pending:
		body += m.spinner.View() + " " + m.tr.T("login.submit") + "…"
	case m.status != "":
		body += theme.Error.Render(m.status)
	default:
		body += theme.Muted.Render("enter: " + m.tr.T("login.submit"))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Pane.Render(body))
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) toggle() tea.Cmd {
	if m.focus == 0 {
		m.focus = 1
		m.email.Blur()
		return m.password.Focus()
	}
	m.focus = 0
	m.password.Blur()
	return m.email.Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	email, password := m.email.Value(), m.password.Value()
	m.pending = true
	m.status = ""
	m.focus = -1
	m.email.Blur()
	m.password.Blur()
	return m, tea.Batch(func() tea.Msg {
		st, err := m.port.Login(context.Background(), email, password)
		return LoggedInMsg{Session: st, Err: err}
	}, m.spinner.Tick)
}
