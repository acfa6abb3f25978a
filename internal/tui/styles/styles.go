package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glassqr/glassqr/internal/notify"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

// BaseStyle returns the base style with background and foreground colors
func BaseStyle() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().
		Background(t.Background).
		Foreground(t.Text)
}

func Muted() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().Background(t.Background).Foreground(t.TextMuted)
}

func Bold() lipgloss.Style {
	return BaseStyle().Bold(true)
}

// Panel is the frosted card the editor and preview sit in.
func Panel() lipgloss.Style {
	t := theme.Current()
	return lipgloss.NewStyle().
		Background(t.BackgroundPanel).
		Foreground(t.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Background).
		Padding(0, 1)
}

// Button renders a clickable label. Active buttons use the primary colour.
func Button(label string, active, disabled bool) string {
	t := theme.Current()
	s := lipgloss.NewStyle().
		Padding(0, 1).
		Background(t.BackgroundElement).
		Foreground(t.Text)
	switch {
	case disabled:
		s = s.Foreground(t.TextMuted).Faint(true)
	case active:
		s = s.Background(t.Primary).Foreground(t.Background).Bold(true)
	}
	return s.Render(label)
}

// Swatch is a small block in the given colour.
func Swatch(hex string, active bool) string {
	t := theme.Current()
	block := "██"
	if active {
		block = "▐█▌"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex)).
		Background(t.Background).
		Render(block)
}

// SeverityColor is the accent used for a notification.
func SeverityColor(sev notify.Severity) lipgloss.Color {
	t := theme.Current()
	switch sev {
	case notify.SeveritySuccess:
		return t.Success
	case notify.SeverityWarning:
		return t.Warning
	case notify.SeverityError:
		return t.Error
	default:
		return t.Info
	}
}

func SeverityIcon(sev notify.Severity) string {
	switch sev {
	case notify.SeveritySuccess:
		return CheckIcon
	case notify.SeverityWarning:
		return WarningIcon
	case notify.SeverityError:
		return ErrorIcon
	default:
		return InfoIcon
	}
}

// GradientText colours each rune along the primary to accent gradient.
func GradientText(text string) string {
	t := theme.Current()
	runes := []rune(text)
	colors := theme.Gradient(t.Primary, t.Accent, len(runes))
	var b strings.Builder
	for i, r := range runes {
		b.WriteString(lipgloss.NewStyle().
			Foreground(colors[i]).
			Background(t.Background).
			Bold(true).
			Render(string(r)))
	}
	return b.String()
}
