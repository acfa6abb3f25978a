package dialog

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/glassqr/glassqr/internal/tui/components/modal"
	"github.com/glassqr/glassqr/internal/tui/styles"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

const (
	zoneConfirmYes = "confirm:yes"
	zoneConfirmNo  = "confirm:no"
)

type confirmKeyMap struct {
	Yes    key.Binding
	No     key.Binding
	Toggle key.Binding
	Enter  key.Binding
}

var confirmKeys = confirmKeyMap{
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	Toggle: key.NewBinding(key.WithKeys("left", "right", "tab", "h", "l"), key.WithHelp("←/→", "switch")),
	Enter:  enterKey,
}

// ConfirmDialog asks a yes/no question. Yes delivers onConfirm.
type ConfirmDialog struct {
	message   string
	onConfirm tea.Msg
	yes       bool
}

func NewConfirmDialog(message string, onConfirm tea.Msg) *ConfirmDialog {
	return &ConfirmDialog{message: message, onConfirm: onConfirm, yes: true}
}

func (d *ConfirmDialog) Update(msg tea.Msg) (modal.Content, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, confirmKeys.Yes):
			return d, closeThen(d.onConfirm)
		case key.Matches(msg, confirmKeys.No):
			return d, closeDialog()
		case key.Matches(msg, confirmKeys.Toggle):
			d.yes = !d.yes
		case key.Matches(msg, confirmKeys.Enter):
			if d.yes {
				return d, closeThen(d.onConfirm)
			}
			return d, closeDialog()
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return d, nil
		}
		if zone.Get(zoneConfirmYes).InBounds(msg) {
			return d, closeThen(d.onConfirm)
		}
		if zone.Get(zoneConfirmNo).InBounds(msg) {
			return d, closeDialog()
		}
	}
	return d, nil
}

func (d *ConfirmDialog) View() string {
	t := theme.Current()
	message := lipgloss.NewStyle().
		Background(t.BackgroundElement).
		Foreground(t.Text).
		Render(d.message)
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		zone.Mark(zoneConfirmYes, styles.Button("Yes", d.yes, false)),
		"  ",
		zone.Mark(zoneConfirmNo, styles.Button("No", !d.yes, false)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, message, "", buttons)
}

func (d *ConfirmDialog) BindingKeys() []key.Binding {
	return []key.Binding{confirmKeys.Yes, confirmKeys.No, confirmKeys.Toggle}
}
