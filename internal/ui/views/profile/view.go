package profile

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "rehab/internal/modules/auth/dto"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/ui/present"
	"rehab/internal/ui/theme"
)

type Port interface {
	Session() authdto.SessionOutput
	GetProfile(ctx context.Context) (authdto.ProfileData, error)
}

type LoadedMsg struct {
	Profile authdto.ProfileData
	Err     error
}

type Model struct {
	port    Port
	tr      present.Translator
	profile *authdto.ProfileData
	status  string
	width   int
	height  int
}

func New(port Port, tr present.Translator) Model {
	return Model{port: port, tr: tr}
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) Load() tea.Cmd {
	return func() tea.Msg {
		p, err := m.port.GetProfile(context.Background())
		return LoadedMsg{Profile: p, Err: err}
	}
}

func (m *Model) Clear() {
	m.profile = nil
	m.status = ""
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		if msg.Err != nil {
			m.profile = nil
			m.status = apperrors.Message(msg.Err)
			return m, nil
		}
		p := msg.Profile
		m.profile = &p
		m.status = ""
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(m.tr.T("profile.title")) + "\n\n")
	if u := m.port.Session().User; u != nil {
		sb.WriteString(m.tr.T("profile.user", u.DisplayName, u.Email) + "\n\n")
	}
	switch {
	case m.status != "":
		sb.WriteString(theme.Error.Render(m.status))
	case m.profile == nil:
		sb.WriteString(theme.Muted.Render(m.tr.T("profile.empty")))
	default:
		for _, row := range rows(*m.profile) {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-18s", row[0])) + row[1] + "\n")
		}
	}
	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(sb.String())
}

func rows(p authdto.ProfileData) [][2]string {
	var out [][2]string
	add := func(label, v string) {
		if v != "" {
			out = append(out, [2]string{label, v})
		}
	}
	if p.DateOfBirth != nil {
		add("date of birth", p.DateOfBirth.Format("2006-01-02"))
	}
	add("gender", p.Gender)
	if p.Height > 0 {
		add("height", fmt.Sprintf("%d cm", p.Height))
	}
	if p.Weight > 0 {
		add("weight", fmt.Sprintf("%d kg", p.Weight))
	}
	if p.StrokeDate != nil {
		add("stroke date", p.StrokeDate.Format("2006-01-02"))
	}
	add("stroke type", p.StrokeType)
	add("affected side", p.AffectedSide)
	add("mobility aid", p.MobilityAid)
	add("therapy goals", p.TherapyGoals)
	add("medical history", p.MedicalHistory)
	add("allergies", p.Allergies)
	add("medications", p.Medications)
	add("doctor", strings.TrimSpace(p.DoctorName+" "+p.DoctorPhone))
	add("emergency contact", strings.TrimSpace(p.EmergencyContactName+" "+p.EmergencyContactPhone))
	return out
}
