package modal

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glassqr/glassqr/internal/tui/layout"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

// Content is what a modal frames.
type Content interface {
	Update(msg tea.Msg) (Content, tea.Cmd)
	View() string
}

// Modal is a reusable modal component that handles frame rendering and overlay placement
type Modal struct {
	content  Content
	title    string
	width    int
	maxWidth int
}

// ModalOption is a function that configures a Modal
type ModalOption func(*Modal)

func WithTitle(title string) ModalOption {
	return func(m *Modal) {
		m.title = title
	}
}

func WithMaxWidth(width int) ModalOption {
	return func(m *Modal) {
		m.maxWidth = width
	}
}

// New creates a new Modal with the given content and options
func New(content Content, opts ...ModalOption) *Modal {
	m := &Modal{content: content}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Modal) Content() Content {
	return m.content
}

func (m *Modal) Title() string {
	return m.title
}

func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
	}
	var cmd tea.Cmd
	m.content, cmd = m.content.Update(msg)
	return m, cmd
}

// InnerWidth is the width available to the content.
func (m *Modal) InnerWidth() int {
	return m.outerWidth() - 6
}

func (m *Modal) outerWidth() int {
	w := m.width - 8
	if w <= 0 {
		w = 60
	}
	if m.maxWidth > 0 && w > m.maxWidth {
		w = m.maxWidth
	}
	return w
}

func (m *Modal) View() string {
	t := theme.Current()

	contentView := m.content.View()
	if m.title != "" {
		title := lipgloss.NewStyle().
			Background(t.BackgroundElement).
			Foreground(t.Primary).
			Bold(true).
			Render(m.title)
		contentView = lipgloss.JoinVertical(lipgloss.Left, title, "", contentView)
	}

	return lipgloss.NewStyle().
		Background(t.BackgroundElement).
		Foreground(t.Text).
		Padding(1, 2).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderRight(true).
		BorderForeground(t.Primary).
		BorderBackground(t.Background).
		Width(m.outerWidth()).
		Render(contentView)
}

// Render renders the modal centered on the screen
func (m *Modal) Render(background string) string {
	return layout.PlaceCentered(m.View(), background, true)
}

// BindingKeys returns the key bindings from the content if it implements layout.Bindings
func (m *Modal) BindingKeys() []key.Binding {
	if b, ok := m.content.(layout.Bindings); ok {
		return b.BindingKeys()
	}
	return []key.Binding{}
}
