package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Red      = lipgloss.Color("#f38ba8")

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Error = lipgloss.NewStyle().Foreground(Red)

	SeverityLow  = lipgloss.NewStyle().Foreground(Green).Bold(true)
	SeverityMid  = lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	SeverityHigh = lipgloss.NewStyle().Foreground(Red).Bold(true)
)

var highWords = []string{"severe", "stage 2", "crisis", "high", "poor", "yuqori", "тяж"}
var midWords = []string{"moderate", "stage 1", "elevated", "mild", "fair", "уме", "легк"}

// Severity colors a backend severity label without changing its text.
func Severity(label string) string {
	l := strings.ToLower(label)
	for _, w := range highWords {
		if strings.Contains(l, w) {
			return SeverityHigh.Render(label)
		}
	}
	for _, w := range midWords {
		if strings.Contains(l, w) {
			return SeverityMid.Render(label)
		}
	}
	return SeverityLow.Render(label)
}
