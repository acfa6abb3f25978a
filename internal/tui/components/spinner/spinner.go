// Package spinner shows progress on stderr while the non-interactive mode works.
package spinner

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glassqr/glassqr/internal/tui/theme"
)

// Spinner wraps a bubbles spinner in its own small program.
type Spinner struct {
	prog   *tea.Program
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

type spinnerModel struct {
	spinner  spinner.Model
	message  string
	quitting bool
}

type quitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.quitting = true
		return m, tea.Quit
	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.message)
}

func newSpinner(message string, style lipgloss.Style) *Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = style

	ctx, cancel := context.WithCancel(context.Background())
	prog := tea.NewProgram(
		spinnerModel{spinner: s, message: message},
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
		tea.WithoutCatchPanics(),
	)
	return &Spinner{
		prog:   prog,
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// NewSpinner creates a spinner in the terminal's default colours.
func NewSpinner(message string) *Spinner {
	return newSpinner(message, lipgloss.NewStyle())
}

// NewThemedSpinner creates a spinner in the primary colour of the current theme.
func NewThemedSpinner(message string) *Spinner {
	return newSpinner(message, lipgloss.NewStyle().Foreground(theme.Current().Primary))
}

func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		go func() {
			<-s.ctx.Done()
			s.prog.Send(quitMsg{})
		}()
		if _, err := s.prog.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running spinner: %v\n", err)
		}
	}()
}

// Stop ends the spinner and waits until its line is cleared.
func (s *Spinner) Stop() {
	s.cancel()
	<-s.done
}
