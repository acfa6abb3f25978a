// Package dialog holds the modal contents of the TUI.
package dialog

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glassqr/glassqr/internal/util"
)

// CloseDialogMsg asks the app to close the open dialog.
type CloseDialogMsg struct{}

var closeKey = key.NewBinding(
	key.WithKeys("esc", "q"),
	key.WithHelp("esc", "close"),
)

var enterKey = key.NewBinding(
	key.WithKeys("enter"),
	key.WithHelp("enter", "confirm"),
)

func closeDialog() tea.Cmd {
	return util.CmdHandler(CloseDialogMsg{})
}

// closeThen closes the dialog and then delivers msg.
func closeThen(msg tea.Msg) tea.Cmd {
	if msg == nil {
		return closeDialog()
	}
	return tea.Sequence(closeDialog(), util.CmdHandler(msg))
}
