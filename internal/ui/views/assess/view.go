package assess

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	assessmentdto "rehab/internal/modules/assessment/dto"
	"rehab/internal/ui/present"
	"rehab/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Form is one assessment in progress.
type Form interface {
	Type() string
	Fields() []assessmentdto.FieldInfo
	Set(field, value string) error
	State() assessmentdto.FormState
	Submit(ctx context.Context) (assessmentdto.ResultOutput, error)
	DismissError()
	Reset()
	Close()
}

type Port interface {
	Types() []string
	NewForm(assessmentType string) (Form, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// SubmittedMsg carries the outcome of one submission.
type SubmittedMsg struct {
	Result assessmentdto.ResultOutput
	Err    error
	form   Form
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	tr      present.Translator
	types   []string
	typeIdx int

	form    Form
	fields  []assessmentdto.FieldInfo
	state   assessmentdto.FormState
	cursor  int
	editing bool
	input   textinput.Model
	spinner spinner.Model
	notice  string

	ctx    context.Context
	cancel context.CancelFunc
	width  int
	height int
}

func New(port Port, tr present.Translator) Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{port: port, tr: tr, input: ti, spinner: sp, ctx: ctx, cancel: cancel}
	if port != nil {
		m.types = port.Types()
	}
	m.open(0)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Capturing reports whether keystrokes are going into a field.
func (m Model) Capturing() bool { return m.editing }

// Switch opens a fresh form for name, which may be an alias such as "bp".
func (m *Model) Switch(name string) error {
	form, err := m.port.NewForm(name)
	if err != nil {
		return err
	}
	for i, t := range m.types {
		if t == form.Type() {
			m.attach(i, form)
			return nil
		}
	}
	form.Close()
	return fmt.Errorf("unknown assessment type %q", name)
}

// Close abandons in-flight requests when the TUI exits.
func (m Model) Close() {
	if m.form != nil {
		m.form.Close()
	}
	m.cancel()
}

// Current returns the assessment type being edited.
func (m Model) Current() string {
	if m.form == nil {
		return ""
	}
	return m.form.Type()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.width/2, 10)

	case SubmittedMsg:
		if msg.form != m.form {
			return m, nil
		}
		m.refresh()
		if msg.Err != nil {
			m.notice = ""
		}

	case spinner.TickMsg:
		if m.state.Phase == "submitting" {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if m.form == nil {
			return m, nil
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		field := m.fields[m.cursor]
		if err := m.form.Set(field.Name, m.input.Value()); err != nil {
			m.notice = m.tr.T("form.locked")
		}
		m.refresh()
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "enter":
		if m.state.Phase != "editing" {
			m.notice = m.tr.T("form.locked")
			return m, nil
		}
		m.editing = true
		m.input.SetValue(m.state.Inputs[m.fields[m.cursor].Name])
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "s":
		return m.submit()
	case "n":
		m.form.Reset()
		m.cursor = 0
		m.notice = ""
		m.refresh()
	case "x":
		m.form.DismissError()
		m.refresh()
	case "[":
		m.open((m.typeIdx + len(m.types) - 1) % len(m.types))
	case "]":
		m.open((m.typeIdx + 1) % len(m.types))
	}
	return m, nil
}

func (m Model) submit() (Model, tea.Cmd) {
	if !m.state.CanSubmit {
		m.notice = m.tr.T("form.disabled")
		return m, nil
	}
	form := m.form
	ctx := m.ctx
	cmd := func() tea.Msg {
		res, err := form.Submit(ctx)
		return SubmittedMsg{Result: res, Err: err, form: form}
	}
	m.state.Phase = "submitting"
	m.state.CanSubmit = false
	m.notice = ""
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) View() string {
	if m.form == nil {
		return theme.Muted.Render("no assessments available")
	}
	var sb strings.Builder
	title := m.tr.T("assessment." + m.form.Type())
	sb.WriteString(theme.Title.Render(title) + theme.Muted.Render(fmt.Sprintf("  (%d/%d)", m.typeIdx+1, len(m.types))) + "\n")
	sb.WriteString(theme.Muted.Render(m.tr.T("assess.hint")) + "\n\n")

	labelW := 0
	for _, f := range m.fields {
		labelW = max(labelW, lipgloss.Width(present.FieldLabel(m.tr, m.form.Type(), f.Name)))
	}
	labelW = min(labelW, max(m.width/2, 20))
	labelStyle := lipgloss.NewStyle().Width(labelW)

	for i, f := range m.fields {
		cursor := "  "
		if i == m.cursor {
			cursor = theme.Hot.Render("▸ ")
		}
		label := labelStyle.Render(present.FieldLabel(m.tr, m.form.Type(), f.Name))
		val := m.state.Inputs[f.Name]
		var cell string
		switch {
		case m.editing && i == m.cursor:
			cell = m.input.View()
		case val == "":
			cell = theme.Muted.Render(present.Hint(f))
		default:
			cell = val
		}
		line := cursor + label + "  " + cell
		if issue, ok := m.state.Issues[f.Name]; ok && val != "" {
			line += "  " + theme.Error.Render(present.Issue(m.tr, issue))
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n")
	switch m.state.Phase {
	case "submitting":
		sb.WriteString(m.spinner.View() + " " + m.tr.T("form.submitting") + "\n")
	case "scored":
		sb.WriteString(m.renderResult())
	default:
		if m.state.CanSubmit {
			sb.WriteString(theme.Hot.Render("[s] "+m.tr.T("form.submit")) + "\n")
		} else {
			sb.WriteString(theme.Muted.Render(m.tr.T("form.disabled")) + "\n")
		}
	}
	if m.state.Error != "" {
		sb.WriteString(theme.Error.Render("✗ "+m.state.Error) + theme.Muted.Render("  (x)") + "\n")
	}
	if m.notice != "" {
		sb.WriteString(theme.Muted.Render(m.notice) + "\n")
	}
	return lipgloss.NewStyle().Padding(0, 1).Width(m.width).Render(sb.String())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) open(idx int) {
	if m.port == nil || len(m.types) == 0 {
		return
	}
	form, err := m.port.NewForm(m.types[idx])
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.attach(idx, form)
}

func (m *Model) attach(idx int, form Form) {
	if m.form != nil {
		m.form.Close()
	}
	m.typeIdx = idx
	m.form = form
	m.fields = form.Fields()
	m.cursor = 0
	m.editing = false
	m.notice = ""
	m.refresh()
}

func (m *Model) refresh() {
	m.state = m.form.State()
}

func (m Model) renderResult() string {
	res := m.state.Result
	if res == nil {
		return ""
	}
	var sb strings.Builder
	for i, line := range present.Result(m.tr, *res) {
		if i == 0 && res.Severity != "" {
			line = strings.Replace(line, res.Severity, theme.Severity(res.Severity), 1)
		}
		sb.WriteString(line + "\n")
	}
	if res.Recommendations != "" {
		sb.WriteString("\n" + theme.Title.Render(m.tr.T("result.recommendations")) + "\n")
		sb.WriteString(lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(res.Recommendations) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("[n] "+m.tr.T("form.new")) + "\n")
	return sb.String()
}
