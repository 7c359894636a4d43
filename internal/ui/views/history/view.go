package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	historydto "rehab/internal/modules/history/dto"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/ui/present"
	"rehab/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	List(ctx context.Context, input historydto.ListInput) ([]historydto.RecordOutput, error)
	Detail(ctx context.Context, id int64) (historydto.RecordOutput, error)
	Delete(ctx context.Context, id int64) error
	Records(assessmentType string) []historydto.RecordOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Records []historydto.RecordOutput
	Offline bool
	Err     error
}

type DetailMsg struct {
	Record historydto.RecordOutput
	Err    error
}

type DeletedMsg struct {
	ID  int64
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type recordItem struct {
	tr     present.Translator
	record historydto.RecordOutput
}

func (i recordItem) Title() string {
	return fmt.Sprintf("#%d %s", i.record.ID, i.tr.T("assessment."+i.record.Type))
}

func (i recordItem) Description() string {
	when := i.record.CreatedAt.Local().Format("2006-01-02 15:04")
	if i.record.Severity == "" {
		return when
	}
	return when + "  " + i.record.Severity
}

func (i recordItem) FilterValue() string { return i.record.Type + " " + i.record.Severity }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	tr      present.Translator
	list    list.Model
	detail  *historydto.RecordOutput
	preview viewport.Model
	spinner spinner.Model
	filter  string
	loading bool
	offline bool
	status  string
	width   int
	height  int
}

func New(port Port, tr present.Translator) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = tr.T("history.title")
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, tr: tr, list: l, preview: vp, spinner: sp}
}

func (m Model) Init() tea.Cmd { return nil }

// Load fetches the list from the server, falling back to the local cache
// when the server cannot be reached.
func (m *Model) Load() tea.Cmd {
	m.loading = true
	m.status = ""
	return tea.Batch(m.loadCmd(false), m.spinner.Tick)
}

// SetFilter narrows the list to one assessment type; "" shows everything.
// It takes effect on the next Load.
func (m *Model) SetFilter(assessmentType string) {
	m.filter = assessmentType
}

// Clear drops everything shown, used on logout.
func (m *Model) Clear() {
	m.detail = nil
	m.status = ""
	m.list.SetItems(nil)
	m.preview.SetContent("")
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			if !msg.Offline && errors.Is(msg.Err, apperrors.ErrNetwork) {
				m.loading = true
				return m, m.loadCmd(true)
			}
			m.status = apperrors.Message(msg.Err)
			return m, nil
		}
		m.offline = msg.Offline
		cmds = append(cmds, m.setRecords(msg.Records))

	case DetailMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, apperrors.ErrNotFound) {
				m.status = m.tr.T("history.not_found")
			} else {
				m.status = apperrors.Message(msg.Err)
			}
			m.detail = nil
			m.preview.SetContent(theme.Error.Render(m.status))
			return m, nil
		}
		rec := msg.Record
		m.detail = &rec
		m.status = ""
		m.preview.SetContent(m.renderDetail())
		m.preview.GotoTop()

	case DeletedMsg:
		if msg.Err != nil {
			m.status = apperrors.Message(msg.Err)
			return m, nil
		}
		m.status = m.tr.T("history.deleted", msg.ID)
		if m.detail != nil && m.detail.ID == msg.ID {
			m.detail = nil
		}
		cmds = append(cmds, m.setRecords(m.port.Records(m.filter)))

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if m.loading || m.Filtering() {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(recordItem); ok {
				return m, m.detailCmd(item.record.ID)
			}
			return m, nil
		case "d":
			if item, ok := m.list.SelectedItem().(recordItem); ok {
				return m, m.deleteCmd(item.record.ID)
			}
			return m, nil
		case "r":
			return m, m.Load()
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.tr.T("history.title")+"…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height - 1).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(max(detailW-2, 1)).
		Height(max(m.height-3, 1)).
		Render(m.preview.View())

	footer := theme.Muted.Render(m.tr.T("history.hint"))
	if m.offline {
		footer += "  " + theme.Hot.Render(m.tr.T("history.offline"))
	}
	if m.status != "" {
		footer += "  " + m.status
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane), footer)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, max(m.height-1, 1))
	m.preview.Width = max(detailW-4, 1)
	m.preview.Height = max(m.height-5, 1)
}

func (m *Model) setRecords(records []historydto.RecordOutput) tea.Cmd {
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = recordItem{tr: m.tr, record: r}
	}
	if len(records) == 0 {
		m.preview.SetContent(theme.Muted.Render(m.tr.T("history.empty")))
	} else if m.detail == nil {
		m.preview.SetContent("")
	}
	return m.list.SetItems(items)
}

func (m Model) renderDetail() string {
	d := m.detail
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("#%d %s", d.ID, m.tr.T("assessment."+d.Type))) + "\n\n")
	sb.WriteString(theme.Muted.Render("created: ") + d.CreatedAt.Local().Format("2006-01-02 15:04") + "\n")
	if !d.UpdatedAt.IsZero() {
		sb.WriteString(theme.Muted.Render("updated: ") + d.UpdatedAt.Local().Format("2006-01-02 15:04") + "\n")
	}
	if d.Severity != "" {
		sb.WriteString(theme.Muted.Render("level:   ") + theme.Severity(d.Severity) + "\n")
	}
	if d.HasScore {
		sb.WriteString(theme.Muted.Render("score:   ") + fmt.Sprintf("%g", d.Score) + "\n")
	}
	if d.Error != "" {
		sb.WriteString(theme.Error.Render(d.Error) + "\n")
	}
	sb.WriteString("\n")
	for _, line := range present.Data(d.Data) {
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (m Model) loadCmd(offline bool) tea.Cmd {
	input := historydto.ListInput{Type: m.filter, Offline: offline}
	return func() tea.Msg {
		records, err := m.port.List(context.Background(), input)
		return LoadedMsg{Records: records, Offline: offline, Err: err}
	}
}

func (m Model) detailCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		rec, err := m.port.Detail(context.Background(), id)
		return DetailMsg{Record: rec, Err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return DeletedMsg{ID: id, Err: m.port.Delete(context.Background(), id)}
	}
}
