// Package editor is the text input of the studio.
package editor

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glassqr/glassqr/internal/tui/styles"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

const placeholder = "Enter text or a link…"

// ExternalEditMsg carries the text written in $EDITOR.
type ExternalEditMsg struct {
	Text string
	Err  error
}

type keyMap struct {
	OpenEditor key.Binding
	Newline    key.Binding
}

var keys = keyMap{
	OpenEditor: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "open $EDITOR"),
	),
	Newline: key.NewBinding(
		key.WithKeys("alt+enter", "ctrl+j"),
		key.WithHelp("alt+enter", "new line"),
	),
}

type Model struct {
	textarea textarea.Model
	width    int
	height   int
	limit    int
}

// New returns a focused editor. limit only drives the counter; truncation is
// left to the caller so it can be announced.
func New(limit int) *Model {
	return &Model{textarea: createTextArea(nil), limit: limit}
}

func createTextArea(existing *textarea.Model) textarea.Model {
	t := theme.Current()
	bg := t.BackgroundPanel

	ta := textarea.New()
	ta.BlurredStyle.Base = styles.BaseStyle().Background(bg)
	ta.BlurredStyle.CursorLine = styles.BaseStyle().Background(bg)
	ta.BlurredStyle.Placeholder = styles.BaseStyle().Background(bg).Foreground(t.TextMuted)
	ta.BlurredStyle.Text = styles.BaseStyle().Background(bg).Foreground(t.TextMuted)
	ta.FocusedStyle.Base = styles.BaseStyle().Background(bg)
	ta.FocusedStyle.CursorLine = styles.BaseStyle().Background(bg)
	ta.FocusedStyle.Placeholder = styles.BaseStyle().Background(bg).Foreground(t.TextMuted)
	ta.FocusedStyle.Text = styles.BaseStyle().Background(bg).Foreground(t.Text)

	ta.Placeholder = placeholder
	ta.Prompt = " "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	// enter generates
	ta.KeyMap.InsertNewline = keys.Newline

	if existing != nil {
		ta.SetValue(existing.Value())
		ta.SetWidth(existing.Width())
		ta.SetHeight(existing.Height())
	}

	ta.Focus()
	return ta
}

// Restyle rebuilds the textarea after a theme change.
func (m *Model) Restyle() {
	focused := m.textarea.Focused()
	m.textarea = createTextArea(&m.textarea)
	if m.width > 0 {
		m.SetSize(m.width, m.height)
	}
	if !focused {
		m.textarea.Blur()
	}
}

func (m *Model) Value() string {
	return m.textarea.Value()
}

func (m *Model) SetValue(s string) {
	m.textarea.SetValue(s)
}

func (m *Model) Focus() tea.Cmd {
	return m.textarea.Focus()
}

func (m *Model) Blur() {
	m.textarea.Blur()
}

func (m *Model) Focused() bool {
	return m.textarea.Focused()
}

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ExternalEditMsg:
		if msg.Err == nil {
			m.textarea.SetValue(strings.TrimRight(msg.Text, "\n"))
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, keys.OpenEditor) {
			return m, openEditor(m.textarea.Value())
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// openEditor hands the current text to $EDITOR and reads it back.
func openEditor(value string) tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	tmpfile, err := os.CreateTemp("", "glassqr_*.txt")
	if err != nil {
		return func() tea.Msg { return ExternalEditMsg{Err: err} }
	}
	_, err = tmpfile.WriteString(value)
	tmpfile.Close()
	if err != nil {
		os.Remove(tmpfile.Name())
		return func() tea.Msg { return ExternalEditMsg{Err: err} }
	}

	c := exec.Command(editor, tmpfile.Name()) //nolint:gosec
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return tea.ExecProcess(c, func(err error) tea.Msg {
		defer os.Remove(tmpfile.Name())
		if err != nil {
			slog.Warn("external editor failed", "editor", editor, "error", err)
			return ExternalEditMsg{Err: err}
		}
		content, err := os.ReadFile(tmpfile.Name())
		if err != nil {
			return ExternalEditMsg{Err: err}
		}
		return ExternalEditMsg{Text: string(content)}
	})
}

// Counter renders "used/limit".
func (m *Model) Counter() string {
	t := theme.Current()
	n := utf8.RuneCountInString(m.textarea.Value())
	style := lipgloss.NewStyle().Foreground(t.TextMuted)
	if m.limit > 0 && n >= m.limit {
		style = style.Foreground(t.Warning)
	}
	return style.Render(fmt.Sprintf("%d/%d", n, m.limit))
}

func (m *Model) View() string {
	t := theme.Current()
	prompt := lipgloss.NewStyle().
		Padding(0, 0, 0, 1).
		Bold(true).
		Foreground(t.Primary).
		Render(">")
	input := lipgloss.JoinHorizontal(lipgloss.Top, prompt, m.textarea.View())
	counter := lipgloss.PlaceHorizontal(m.width, lipgloss.Right, m.Counter())
	return lipgloss.JoinVertical(lipgloss.Left, input, counter)
}

// SetSize sets the outer size; one row is kept for the counter.
func (m *Model) SetSize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	m.textarea.SetWidth(max(width-3, 1))
	m.textarea.SetHeight(max(height-1, 1))
	return nil
}

func (m *Model) GetSize() (int, int) {
	return m.width, m.height
}

func (m *Model) BindingKeys() []key.Binding {
	return []key.Binding{keys.OpenEditor, keys.Newline}
}
