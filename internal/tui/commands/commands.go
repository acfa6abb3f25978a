package commands

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	Generate = "generate"
	Refresh  = "refresh"
	Download = "download"
	Copy     = "copy"
	Share    = "share"
	Theme    = "theme"
	Size     = "size"
	Color    = "color"
	Style    = "style"
	Example  = "example"
	Privacy  = "privacy"
	About    = "about"
	Help     = "help"
	Palette  = "palette"
	Logs     = "logs"
	Quit     = "quit"
)

// Command represents a user-triggerable action.
type Command struct {
	// Name is the identifier used by ExecuteCommandMsg.
	Name string
	// Description is a short explanation of what the command does.
	Description string
	// KeyBinding is the keyboard shortcut to trigger this command.
	KeyBinding key.Binding
}

// Registry holds all the available commands in display order.
type Registry []Command

// ExecuteCommandMsg is a message sent when a command should be executed.
type ExecuteCommandMsg struct {
	Name string
	// Arg selects a variant, such as an example name.
	Arg string
}

func (r Registry) Find(name string) (Command, bool) {
	for _, c := range r {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Match returns the command bound to msg.
func (r Registry) Match(msg tea.KeyMsg) (Command, bool) {
	for _, c := range r {
		if key.Matches(msg, c.KeyBinding) {
			return c, true
		}
	}
	return Command{}, false
}

// Bindings returns the key bindings in display order.
func (r Registry) Bindings() []key.Binding {
	out := make([]key.Binding, 0, len(r))
	for _, c := range r {
		out = append(out, c.KeyBinding)
	}
	return out
}

func bind(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

func NewCommandRegistry() Registry {
	return Registry{
		{Name: Generate, Description: "generate the QR code", KeyBinding: bind("generate", "enter", "ctrl+g")},
		{Name: Refresh, Description: "regenerate with the current settings", KeyBinding: bind("refresh", "ctrl+r")},
		{Name: Download, Description: "save the QR code as PNG", KeyBinding: bind("download", "ctrl+s")},
		{Name: Copy, Description: "copy the QR code to the clipboard", KeyBinding: bind("copy", "ctrl+y")},
		{Name: Share, Description: "create a shareable link", KeyBinding: bind("share", "ctrl+o")},
		{Name: Theme, Description: "switch between dark and light", KeyBinding: bind("theme", "ctrl+t")},
		{Name: Size, Description: "cycle the output size", KeyBinding: bind("size", "f2")},
		{Name: Color, Description: "cycle the foreground colour", KeyBinding: bind("colour", "f3")},
		{Name: Style, Description: "pick size and colour", KeyBinding: bind("style", "f6")},
		{Name: Example, Description: "load the next example", KeyBinding: bind("example", "f4")},
		{Name: Privacy, Description: "show the privacy notice", KeyBinding: bind("privacy", "f5")},
		{Name: About, Description: "about glassqr", KeyBinding: bind("about", "f1")},
		{Name: Help, Description: "show key bindings", KeyBinding: bind("help", "ctrl+_")},
		{Name: Palette, Description: "open the command palette", KeyBinding: bind("commands", "ctrl+k")},
		{Name: Logs, Description: "show recent logs", KeyBinding: bind("logs", "ctrl+l")},
		{Name: Quit, Description: "quit", KeyBinding: bind("quit", "ctrl+c")},
	}
}
