package toast

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/glassqr/glassqr/internal/notify"
	"github.com/glassqr/glassqr/internal/pubsub"
	"github.com/glassqr/glassqr/internal/tui/layout"
	"github.com/glassqr/glassqr/internal/tui/styles"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

// MaxVisible is how many of the newest toasts are drawn at once.
const MaxVisible = 4

// fadeToastMsg starts the exit animation of a toast.
type fadeToastMsg struct {
	ID string
}

// DismissToastMsg is a message to dismiss a specific toast
type DismissToastMsg struct {
	ID string
}

// Toast represents a single toast notification
type Toast struct {
	notify.Notification
	Fading bool
}

// ToastManager manages multiple toast notifications
type ToastManager struct {
	toasts []Toast
	width  int
}

func NewToastManager() *ToastManager {
	return &ToastManager{
		toasts: []Toast{},
	}
}

func (tm *ToastManager) Init() tea.Cmd {
	return nil
}

// Update handles messages for the toast manager
func (tm *ToastManager) Update(msg tea.Msg) (*ToastManager, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tm.width = msg.Width

	case pubsub.Event[notify.Notification]:
		return tm, tm.Show(msg.Payload)

	case fadeToastMsg:
		for i := range tm.toasts {
			if tm.toasts[i].ID == msg.ID {
				tm.toasts[i].Fading = true
				id := msg.ID
				return tm, tea.Tick(notify.FadeDuration, func(time.Time) tea.Msg {
					return DismissToastMsg{ID: id}
				})
			}
		}

	case DismissToastMsg:
		var newToasts []Toast
		for _, t := range tm.toasts {
			if t.ID != msg.ID {
				newToasts = append(newToasts, t)
			}
		}
		tm.toasts = newToasts
	}

	return tm, nil
}

// Show adds n and schedules its fade.
func (tm *ToastManager) Show(n notify.Notification) tea.Cmd {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Duration <= 0 {
		n.Duration = notify.DefaultDuration
	}

	tm.toasts = append(tm.toasts, Toast{Notification: n})

	id := n.ID
	return tea.Tick(n.Duration, func(time.Time) tea.Msg {
		return fadeToastMsg{ID: id}
	})
}

func (tm *ToastManager) Toasts() []Toast {
	return append([]Toast(nil), tm.toasts...)
}

// View renders all active toasts
func (tm *ToastManager) View() string {
	if len(tm.toasts) == 0 {
		return ""
	}

	t := theme.Current()
	maxWidth := max(36, tm.width/3)
	contentMaxWidth := max(maxWidth-6, 20)

	visible := tm.toasts
	if len(visible) > MaxVisible {
		visible = visible[len(visible)-MaxVisible:]
	}

	var toastViews []string
	for _, toast := range visible {
		color := styles.SeverityColor(toast.Severity)
		text := t.Text
		if toast.Fading {
			color = theme.Blend(color, t.BackgroundElement, 0.6)
			text = t.TextMuted
		}

		baseStyle := lipgloss.NewStyle().
			Background(t.BackgroundElement).
			Foreground(text).
			Padding(0, 2).
			BorderStyle(lipgloss.ThickBorder()).
			BorderBackground(t.Background).
			BorderForeground(color).
			BorderLeft(true).
			BorderRight(true)

		var content strings.Builder
		if toast.Title != "" {
			titleStyle := lipgloss.NewStyle().
				Background(t.BackgroundElement).
				Foreground(color).
				Bold(true)
			content.WriteString(titleStyle.Render(styles.SeverityIcon(toast.Severity) + " " + toast.Title))
			content.WriteString("\n")
		}

		messageStyle := lipgloss.NewStyle().
			Background(t.BackgroundElement).
			Foreground(text).
			Width(contentMaxWidth)
		content.WriteString(messageStyle.Render(toast.Message))

		toastViews = append(toastViews, baseStyle.MaxWidth(maxWidth).Render(content.String()))
	}

	return strings.Join(toastViews, "\n")
}

// RenderOverlay renders the toasts as an overlay on the given background
func (tm *ToastManager) RenderOverlay(background string) string {
	toastView := tm.View()
	if toastView == "" {
		return background
	}

	bgWidth := lipgloss.Width(background)
	bgHeight := lipgloss.Height(background)
	toastWidth := lipgloss.Width(toastView)
	toastHeight := lipgloss.Height(toastView)

	// bottom right, two cells from the edges
	x := max(bgWidth-toastWidth-2, 0)
	y := max(bgHeight-toastHeight-2, 0)
	return layout.PlaceOverlay(x, y, toastView, background, false)
}
