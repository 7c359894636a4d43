package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rehab/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

const (
	maxSuggestions = 5
	maxRecall      = 20
)

// Palette is a command-palette overlay backed by bubbles/textinput. Hints are
// usage strings whose first word is the command name; tab completes the first
// matching command and up/down walk through earlier submissions.
type Palette struct {
	input   textinput.Model
	hints   []string
	recall  []string
	pos     int
	visible bool
	width   int
}

func NewPalette(hints []string) Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti, hints: hints}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with an empty input and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.pos = len(p.recall)
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Suggestions lists the hints whose command starts with the typed word.
func (p Palette) Suggestions() []string {
	word := strings.ToLower(strings.TrimSpace(p.input.Value()))
	if i := strings.IndexByte(word, ' '); i >= 0 {
		word = word[:i]
	}
	var out []string
	for _, h := range p.hints {
		if word == "" || strings.HasPrefix(h, word) {
			out = append(out, h)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.remember(val)
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			p.complete()
			return p, nil
		case "up":
			p.step(-1)
			return p, nil
		case "down":
			p.step(1)
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p *Palette) remember(val string) {
	if val == "" {
		return
	}
	if n := len(p.recall); n > 0 && p.recall[n-1] == val {
		return
	}
	p.recall = append(p.recall, val)
	if len(p.recall) > maxRecall {
		p.recall = p.recall[len(p.recall)-maxRecall:]
	}
}

// complete replaces a partial command word with the first match.
func (p *Palette) complete() {
	if strings.Contains(p.input.Value(), " ") {
		return
	}
	s := p.Suggestions()
	if len(s) == 0 {
		return
	}
	name, _, hasArgs := strings.Cut(s[0], " ")
	if hasArgs {
		name += " "
	}
	p.input.SetValue(name)
	p.input.CursorEnd()
}

func (p *Palette) step(delta int) {
	if len(p.recall) == 0 {
		return
	}
	p.pos = max(0, min(len(p.recall), p.pos+delta))
	if p.pos == len(p.recall) {
		p.input.SetValue("")
		return
	}
	p.input.SetValue(p.recall[p.pos])
	p.input.CursorEnd()
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if matching := p.Suggestions(); len(matching) > 0 {
		sb.WriteString("\n")
		for _, h := range matching {
			sb.WriteString(hintStyle.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
