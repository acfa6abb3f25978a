package dialog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/glassqr/glassqr/internal/tui/components/modal"
)

// AboutInfo is shown in the about dialog.
type AboutInfo struct {
	Version   string
	Encoder   string
	Storage   string
	ExportDir string
	ShareURL  string
}

const aboutTemplate = `# glassqr %s

Create QR codes for links, Wi-Fi networks, e-mail addresses and phone numbers.

* Three sizes: **small**, **medium** and **large**
* Three colours on a white background
* Save as PNG, copy to the clipboard or share a local link

## Privacy

All data is processed locally and never leaves this machine.

| | |
|---|---|
| Encoder | %s |
| Storage | %s |
| Exports | %s |
| Sharing | %s |
`

// AboutDialog renders the about page as markdown.
type AboutDialog struct {
	rendered string
}

func NewAboutDialog(info AboutInfo, themeName string, width int) *AboutDialog {
	share := info.ShareURL
	if share == "" {
		share = "disabled"
	}
	md := fmt.Sprintf(aboutTemplate, info.Version, info.Encoder, info.Storage, "`"+info.ExportDir+"`", share)
	return &AboutDialog{rendered: renderMarkdown(md, themeName, width)}
}

func renderMarkdown(md, themeName string, width int) string {
	style := "dark"
	if themeName == "light" {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		slog.Warn("markdown renderer unavailable", "error", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		slog.Warn("failed to render markdown", "error", err)
		return md
	}
	return strings.Trim(out, "\n")
}

func (d *AboutDialog) Update(msg tea.Msg) (modal.Content, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, closeKey) || key.Matches(msg, enterKey) {
			return d, closeDialog()
		}
	}
	return d, nil
}

func (d *AboutDialog) View() string {
	return d.rendered
}

func (d *AboutDialog) BindingKeys() []key.Binding {
	return []key.Binding{closeKey}
}
