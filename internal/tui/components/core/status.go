package core

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glassqr/glassqr/internal/app"
	"github.com/glassqr/glassqr/internal/pubsub"
	"github.com/glassqr/glassqr/internal/tui/styles"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

// StatusCmp is the bottom bar: help hint, counters and the active layout.
type StatusCmp struct {
	width    int
	state    app.State
	helpText string
}

func NewStatusCmp(initial app.State) StatusCmp {
	return StatusCmp{state: initial}
}

func (m StatusCmp) Init() tea.Cmd {
	return nil
}

func (m StatusCmp) Update(msg tea.Msg) (StatusCmp, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case pubsub.Event[app.State]:
		m.state = msg.Payload
	}
	return m, nil
}

func (m *StatusCmp) SetHelpWidgetMsg(s string) {
	m.helpText = s
}

func padded() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1)
}

func (m StatusCmp) helpWidget() string {
	t := theme.Current()
	text := m.helpText
	if text == "" {
		text = "ctrl+? help"
	}
	return padded().
		Background(t.TextMuted).
		Foreground(t.Background).
		Bold(true).
		Render(text)
}

// counters renders "12 generated · 3 today · 2 saved".
func counters(s app.State) string {
	parts := []string{
		fmt.Sprintf("%d generated", s.GeneratedCount),
		fmt.Sprintf("%d today", s.TodayCount),
		fmt.Sprintf("%d saved", s.TotalSaved),
	}
	return strings.Join(parts, " · ")
}

func (m StatusCmp) View() string {
	t := theme.Current()

	help := m.helpWidget()
	stats := padded().
		Background(t.Text).
		Foreground(t.BackgroundPanel).
		Render(counters(m.state))

	mode := "desktop"
	if m.state.Compact {
		mode = "compact"
	}
	right := padded().
		Background(t.BackgroundElement).
		Foreground(t.Secondary).
		Render(fmt.Sprintf("%s %s · %s", styles.ThemeIcon, m.state.Theme.Label(), mode))

	fill := max(0, m.width-lipgloss.Width(help)-lipgloss.Width(stats)-lipgloss.Width(right))
	phase := padded().
		Background(t.BackgroundPanel).
		Foreground(t.TextMuted).
		Width(fill).
		Render(m.phaseText())

	return help + stats + phase + right
}

func (m StatusCmp) phaseText() string {
	switch m.state.Phase {
	case app.PhaseGenerating:
		return "generating…"
	case app.PhaseReady:
		return styles.CheckIcon + " ready"
	}
	return ""
}
