// Package clipboard copies generated PNGs to the system clipboard.
package clipboard

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
)

// ErrUnavailable means no clipboard mechanism accepted the data.
var ErrUnavailable = errors.New("clipboard unavailable")

// Method reports how the data reached the clipboard.
type Method string

const (
	MethodImage Method = "image"
	MethodText  Method = "text"
	MethodOSC52 Method = "osc52"
)

// Copier places a PNG on the clipboard.
type Copier interface {
	CopyImage(ctx context.Context, png []byte) (Method, error)
}

// System tries the native image clipboard, then a data URL through the text
// clipboard, then an OSC52 escape on the terminal.
type System struct {
	native imageTool
	// textWriter writes to the text clipboard.
	textWriter func(string) error
	textOK     bool
	osc52      io.Writer
}

// NewSystem builds a copier for the current platform. term receives OSC52
// sequences and may be nil to disable that fallback.
func NewSystem(term io.Writer) *System {
	return &System{
		native:     detectImageTool(),
		textWriter: clipboard.WriteAll,
		textOK:     !clipboard.Unsupported,
		osc52:      term,
	}
}

// DataURL encodes png as a data:image/png;base64 URL.
func DataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func (s *System) CopyImage(ctx context.Context, png []byte) (Method, error) {
	if len(png) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrUnavailable)
	}

	var errs []error
	if s.native != nil {
		err := s.native.copy(ctx, png)
		if err == nil {
			return MethodImage, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		slog.Debug("native image clipboard failed", "tool", s.native.name(), "error", err)
		errs = append(errs, err)
	}

	url := DataURL(png)
	if s.textOK && s.textWriter != nil {
		err := s.textWriter(url)
		if err == nil {
			return MethodText, nil
		}
		slog.Debug("text clipboard failed", "error", err)
		errs = append(errs, err)
	}

	if s.osc52 != nil {
		termenv.NewOutput(s.osc52).Copy(url)
		return MethodOSC52, nil
	}

	errs = append(errs, ErrUnavailable)
	return "", errors.Join(errs...)
}
