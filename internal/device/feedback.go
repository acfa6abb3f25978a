package device

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// Feedback emits a short physical cue after a successful action.
type Feedback interface {
	Pulse()
}

// NoFeedback does nothing.
type NoFeedback struct{}

func (NoFeedback) Pulse() {}

// Bell rings the terminal bell.
type Bell struct {
	w io.Writer
}

// NewFeedback returns a Bell writing to out when enabled and out is a
// terminal, and NoFeedback otherwise.
func NewFeedback(enabled bool, out *os.File) Feedback {
	if !enabled || out == nil {
		return NoFeedback{}
	}
	if !isTerminal(out) {
		return NoFeedback{}
	}
	return &Bell{w: out}
}

func (b *Bell) Pulse() {
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		slog.Debug("terminal bell failed", "error", err)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
