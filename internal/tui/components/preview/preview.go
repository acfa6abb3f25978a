// Package preview draws the current QR code in the terminal.
package preview

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/glassqr/glassqr/internal/app"
	"github.com/glassqr/glassqr/internal/qr"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

const placeholder = "Your QR code will appear here"

type Model struct {
	spinner spinner.Model
	state   app.State
	width   int
	height  int
}

func New() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{spinner: s}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}
	return m, nil
}

func (m *Model) SetState(s app.State) {
	m.state = s
}

func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
}

func (m Model) View() string {
	t := theme.Current()
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	var body string
	switch {
	case m.state.Phase == app.PhaseGenerating:
		m.spinner.Style = lipgloss.NewStyle().Foreground(t.Primary)
		body = m.spinner.View() + " " + muted.Render("Generating…")
	case m.state.Ready():
		body = m.code()
	default:
		body = muted.Italic(true).Render(placeholder)
	}

	if m.width <= 0 {
		return body
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
}

// code renders the bitmap on a white card in the selected colour, followed by
// its caption.
func (m Model) code() string {
	t := theme.Current()
	bm := m.state.Bitmap
	modules := bm.Modules
	plain := lipgloss.ColorProfile() == termenv.Ascii
	if plain {
		// light-on-dark terminals without colour
		modules = qr.Invert(modules)
	}

	art := qr.Render(modules)
	width := lipgloss.Width(art)
	if m.width > 0 && width > m.width {
		return lipgloss.NewStyle().Foreground(t.Warning).Render(
			"Enlarge the terminal to preview the code; it can still be saved.")
	}

	if !plain {
		lines := strings.Split(art, "\n")
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.state.Color.Hex())).
			Background(lipgloss.Color(qr.LightHex))
		for i, l := range lines {
			lines[i] = style.Render(l)
		}
		art = strings.Join(lines, "\n")
	}

	caption := lipgloss.NewStyle().Foreground(t.TextMuted).Render(Caption(m.state))
	return lipgloss.JoinVertical(lipgloss.Center, art, "", caption)
}

// Caption summarises the generated code.
func Caption(s app.State) string {
	parts := []string{}
	for _, p := range []string{s.SizeLabel, s.ColorLabel, s.TimeLabel} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}
