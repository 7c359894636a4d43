package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	chatdto "rehab/internal/modules/chat/dto"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/ui/present"
	"rehab/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is what the chat tab needs from the assistant use-case.
type Port interface {
	Send(ctx context.Context, text string) (chatdto.ReplyOutput, error)
	Advice(ctx context.Context) (chatdto.ReplyOutput, error)
	Analyze(ctx context.Context) (chatdto.ReplyOutput, error)
	Transcript() []chatdto.MessageOutput
	Reset()
}

// ─── messages ────────────────────────────────────────────────────────────────

// RepliedMsg is sent when the assistant answered (or failed to).
type RepliedMsg struct {
	Reply chatdto.ReplyOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	tr       present.Translator
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	context  string
	waiting  bool
	typing   bool
	status   string
	width    int
	height   int
}

func New(port Port, tr present.Translator) Model {
	ti := textinput.New()
	ti.Placeholder = tr.T("chat.placeholder")
	ti.CharLimit = 2000
	ti.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)

	return Model{
		port:     port,
		tr:       tr,
		viewport: viewport.New(0, 0),
		input:    ti,
		spinner:  sp,
		renderer: r,
	}
}

func (m Model) Init() tea.Cmd { return nil }

// Capturing reports whether the message box has focus.
func (m Model) Capturing() bool { return m.typing }

// SetContext records which assessment the assistant will be asked about.
func (m *Model) SetContext(assessmentType string) {
	m.context = assessmentType
}

// Advice asks for advice about the current assessment.
func (m *Model) Advice() tea.Cmd {
	return m.ask(func(ctx context.Context) (chatdto.ReplyOutput, error) { return m.port.Advice(ctx) })
}

// Analyze asks for a rehabilitation analysis of the current assessment.
func (m *Model) Analyze() tea.Cmd {
	return m.ask(func(ctx context.Context) (chatdto.ReplyOutput, error) { return m.port.Analyze(ctx) })
}

// Reset clears the conversation.
func (m *Model) Reset() {
	m.port.Reset()
	m.status = ""
	m.refresh()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()

	case RepliedMsg:
		m.waiting = false
		if msg.Err != nil {
			m.status = apperrors.Message(msg.Err)
		} else {
			m.status = ""
		}
		m.refresh()

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if m.typing {
			switch msg.String() {
			case "esc":
				m.typing = false
				m.input.Blur()
				return m, nil
			case "enter":
				text := m.input.Value()
				if strings.TrimSpace(text) == "" || m.waiting {
					return m, nil
				}
				m.input.SetValue("")
				return m, m.ask(func(ctx context.Context) (chatdto.ReplyOutput, error) { return m.port.Send(ctx, text) })
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		if msg.String() == "i" {
			m.typing = true
			return m, m.input.Focus()
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := theme.Title.Render(m.tr.T("chat.title")) + "  "
	if m.context != "" {
		header += theme.Muted.Render(m.tr.T("chat.context", m.tr.T("assessment."+m.context)))
	} else {
		header += theme.Muted.Render(m.tr.T("chat.no_context"))
	}

	footer := m.input.View()
	switch {
	case m.waiting:
		footer = m.spinner.View() + " …"
	case m.status != "":
		footer = theme.Error.Render(m.status) + "\n" + footer
	}
	hint := theme.Muted.Render(m.tr.T("chat.hint"))
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer, hint)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) ask(call func(context.Context) (chatdto.ReplyOutput, error)) tea.Cmd {
	if m.waiting {
		return nil
	}
	m.waiting = true
	m.status = ""
	return tea.Batch(func() tea.Msg {
		reply, err := call(context.Background())
		return RepliedMsg{Reply: reply, Err: err}
	}, m.spinner.Tick)
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-4, 1)
	m.input.Width = max(m.width-4, 10)
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.width),
	); err == nil {
		m.renderer = r
	}
}

func (m *Model) refresh() {
	var sb strings.Builder
	for _, msg := range m.port.Transcript() {
		if msg.Role == "user" {
			sb.WriteString(theme.Hot.Render(m.tr.T("chat.you")) + "\n" + msg.Content + "\n\n")
			continue
		}
		sb.WriteString(theme.Title.Render(m.tr.T("chat.assistant")) + "\n")
		sb.WriteString(m.markdown(msg.Content) + "\n")
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m Model) markdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
