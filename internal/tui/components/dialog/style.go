package dialog

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glassqr/glassqr/internal/qr"
	"github.com/glassqr/glassqr/internal/tui/components/modal"
	"github.com/glassqr/glassqr/internal/tui/layout"
	"github.com/glassqr/glassqr/internal/tui/styles"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

const styleDialogWidth = 40

// StyleSelectedMsg is sent when a size and colour were picked.
type StyleSelectedMsg struct {
	Size  qr.Size
	Color qr.Color
}

type styleKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Escape key.Binding
}

var styleKeys = styleKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "smaller"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "larger"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous colour"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "next colour"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
}

// StyleDialog picks the size with up/down and the colour with left/right.
type StyleDialog struct {
	sizes    []qr.Size
	colors   []qr.Color
	sizeIdx  int
	colorIdx int
}

func NewStyleDialog(size qr.Size, color qr.Color) *StyleDialog {
	d := &StyleDialog{sizes: qr.Sizes(), colors: qr.Colors()}
	for i, s := range d.sizes {
		if s == size {
			d.sizeIdx = i
		}
	}
	for i, c := range d.colors {
		if c == color {
			d.colorIdx = i
		}
	}
	return d
}

// Selected returns the highlighted size and colour.
func (d *StyleDialog) Selected() (qr.Size, qr.Color) {
	return d.sizes[d.sizeIdx], d.colors[d.colorIdx]
}

func (d *StyleDialog) Update(msg tea.Msg) (modal.Content, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, styleKeys.Up):
			d.sizeIdx = wrap(d.sizeIdx-1, len(d.sizes))
		case key.Matches(msg, styleKeys.Down):
			d.sizeIdx = wrap(d.sizeIdx+1, len(d.sizes))
		case key.Matches(msg, styleKeys.Left):
			d.colorIdx = wrap(d.colorIdx-1, len(d.colors))
		case key.Matches(msg, styleKeys.Right):
			d.colorIdx = wrap(d.colorIdx+1, len(d.colors))
		case key.Matches(msg, styleKeys.Enter):
			size, color := d.Selected()
			return d, closeThen(StyleSelectedMsg{Size: size, Color: color})
		case key.Matches(msg, styleKeys.Escape):
			return d, closeDialog()
		}
	}
	return d, nil
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (d *StyleDialog) View() string {
	t := theme.Current()
	base := lipgloss.NewStyle().Background(t.BackgroundElement).Foreground(t.Text)

	sizeItems := make([]string, 0, len(d.sizes))
	for i, s := range d.sizes {
		itemStyle := base.Width(styleDialogWidth)
		if i == d.sizeIdx {
			itemStyle = itemStyle.Background(t.Primary).Foreground(t.Background).Bold(true)
		}
		sizeItems = append(sizeItems, itemStyle.Render(s.Label()))
	}

	swatches := make([]string, 0, len(d.colors)*2)
	for i, c := range d.colors {
		swatches = append(swatches, styles.Swatch(c.Hex(), i == d.colorIdx), base.Render(" "))
	}
	_, color := d.Selected()

	indicator := base.Foreground(t.Primary).
		Width(styleDialogWidth).
		Align(lipgloss.Right).
		Bold(true).
		Render("↑↓ size  ←→ colour")

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, sizeItems...),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, append(swatches, base.Render(color.Label()))...),
		"",
		indicator,
	)
}

func (d *StyleDialog) BindingKeys() []key.Binding {
	return layout.KeyMapToSlice(styleKeys)
}
