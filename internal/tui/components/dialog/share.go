package dialog

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glassqr/glassqr/internal/qr"
	"github.com/glassqr/glassqr/internal/tui/components/modal"
	"github.com/glassqr/glassqr/internal/tui/styles"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

// ShareDialog shows a published link together with a scannable code of it.
type ShareDialog struct {
	url  string
	code string
}

func NewShareDialog(url string) *ShareDialog {
	code, _, err := qr.Text(url)
	if err != nil {
		slog.Warn("failed to encode share link", "error", err)
	}
	return &ShareDialog{url: url, code: code}
}

func (d *ShareDialog) URL() string {
	return d.url
}

func (d *ShareDialog) Update(msg tea.Msg) (modal.Content, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, closeKey) || key.Matches(msg, enterKey) {
			return d, closeDialog()
		}
	}
	return d, nil
}

func (d *ShareDialog) View() string {
	t := theme.Current()
	link := lipgloss.NewStyle().
		Background(t.BackgroundElement).
		Foreground(t.Info).
		Underline(true).
		Render(styles.LinkIcon + " " + d.url)
	hint := lipgloss.NewStyle().
		Background(t.BackgroundElement).
		Foreground(t.TextMuted).
		Render("Open the link on any device on this network, or scan the code.")

	parts := []string{link, hint}
	if d.code != "" {
		lines := strings.Split(d.code, "\n")
		card := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color(qr.LightHex))
		for i, l := range lines {
			lines[i] = card.Render(l)
		}
		parts = append(parts, "", strings.Join(lines, "\n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (d *ShareDialog) BindingKeys() []key.Binding {
	return []key.Binding{closeKey}
}
