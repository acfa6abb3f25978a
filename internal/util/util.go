package util

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

func Clamp(v, low, high int) int {
	// Swap if needed to ensure low <= high
	if high < low {
		low, high = high, low
	}
	return min(high, max(low, v))
}

// Measure logs the elapsed time since it was called once the returned func runs.
func Measure(tag string) func(...any) {
	startTime := time.Now()
	return func(tags ...any) {
		args := append([]any{"timeTakenMs", time.Since(startTime).Milliseconds()}, tags...)
		slog.Debug(tag, args...)
	}
}
