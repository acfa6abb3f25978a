package dialog

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/glassqr/glassqr/internal/tui/components/modal"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

const paletteVisible = 10

// PaletteItem is one entry of the command palette.
type PaletteItem struct {
	Title       string
	Description string
	Key         string
	// Msg is delivered after the palette closes.
	Msg tea.Msg
}

type paletteKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
}

var paletteKeys = paletteKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
}

// PaletteDialog filters items with fuzzy matching as the user types.
type PaletteDialog struct {
	input   textinput.Model
	items   []PaletteItem
	matches []int
	cursor  int
}

func NewPaletteDialog(items []PaletteItem) *PaletteDialog {
	ti := textinput.New()
	ti.Placeholder = "Type a command…"
	ti.Prompt = "> "
	ti.Focus()

	d := &PaletteDialog{input: ti, items: items}
	d.filter()
	return d
}

func (d *PaletteDialog) filter() {
	query := strings.TrimSpace(d.input.Value())
	d.cursor = 0
	d.matches = d.matches[:0]
	if query == "" {
		for i := range d.items {
			d.matches = append(d.matches, i)
		}
		return
	}

	targets := make([]string, len(d.items))
	for i, it := range d.items {
		targets[i] = it.Title + " " + it.Description
	}
	ranks := fuzzy.RankFindFold(query, targets)
	sort.Sort(ranks)
	for _, r := range ranks {
		d.matches = append(d.matches, r.OriginalIndex)
	}
}

// Selected returns the highlighted item.
func (d *PaletteDialog) Selected() (PaletteItem, bool) {
	if len(d.matches) == 0 {
		return PaletteItem{}, false
	}
	return d.items[d.matches[d.cursor]], true
}

func (d *PaletteDialog) Update(msg tea.Msg) (modal.Content, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, paletteKeys.Close):
			return d, closeDialog()
		case key.Matches(msg, paletteKeys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
			return d, nil
		case key.Matches(msg, paletteKeys.Down):
			if d.cursor < len(d.matches)-1 {
				d.cursor++
			}
			return d, nil
		case key.Matches(msg, paletteKeys.Select):
			item, ok := d.Selected()
			if !ok {
				return d, nil
			}
			return d, closeThen(item.Msg)
		}
	}

	before := d.input.Value()
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	if d.input.Value() != before {
		d.filter()
	}
	return d, cmd
}

func (d *PaletteDialog) View() string {
	t := theme.Current()
	base := lipgloss.NewStyle().Background(t.BackgroundElement)
	title := base.Foreground(t.Text)
	desc := base.Foreground(t.TextMuted)
	keyStyle := base.Foreground(t.Secondary)
	selected := lipgloss.NewStyle().Background(t.Primary).Foreground(t.Background).Bold(true)

	lines := []string{d.input.View(), ""}
	if len(d.matches) == 0 {
		lines = append(lines, desc.Render("No matching commands"))
	}

	start := max(0, d.cursor-paletteVisible+1)
	end := min(len(d.matches), start+paletteVisible)
	for i := start; i < end; i++ {
		it := d.items[d.matches[i]]
		if i == d.cursor {
			lines = append(lines, selected.Render(" "+it.Title+" "))
			continue
		}
		line := title.Render(" "+it.Title) + desc.Render("  "+it.Description)
		if it.Key != "" {
			line += keyStyle.Render("  " + it.Key)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (d *PaletteDialog) BindingKeys() []key.Binding {
	return []key.Binding{paletteKeys.Up, paletteKeys.Down, paletteKeys.Select, paletteKeys.Close}
}
