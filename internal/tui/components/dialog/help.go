package dialog

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glassqr/glassqr/internal/tui/components/modal"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

const helpColumnHeight = 6

// HelpDialog lists key bindings in columns.
type HelpDialog struct {
	help     help.Model
	bindings []key.Binding
}

func NewHelpDialog(bindings []key.Binding, width int) *HelpDialog {
	t := theme.Current()
	h := help.New()
	h.Width = width
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(t.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(t.TextMuted)
	return &HelpDialog{help: h, bindings: append(append([]key.Binding(nil), bindings...), closeKey)}
}

func (d *HelpDialog) Update(msg tea.Msg) (modal.Content, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, closeKey) || key.Matches(msg, enterKey) {
			return d, closeDialog()
		}
	}
	return d, nil
}

func (d *HelpDialog) View() string {
	return d.help.FullHelpView(columns(d.bindings, helpColumnHeight))
}

func columns(bindings []key.Binding, height int) [][]key.Binding {
	var out [][]key.Binding
	for len(bindings) > 0 {
		n := min(height, len(bindings))
		out = append(out, bindings[:n])
		bindings = bindings[n:]
	}
	return out
}
