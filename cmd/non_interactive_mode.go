package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/glassqr/glassqr/internal/app"
	"github.com/glassqr/glassqr/internal/config"
	"github.com/glassqr/glassqr/internal/format"
	"github.com/glassqr/glassqr/internal/logging"
	"github.com/glassqr/glassqr/internal/notify"
	"github.com/glassqr/glassqr/internal/pubsub"
	"github.com/glassqr/glassqr/internal/qr"
	"github.com/glassqr/glassqr/internal/tui/components/spinner"
)

type nonInteractiveOptions struct {
	text     string
	size     string
	color    string
	download bool
	copy     bool
	stats    bool
	format   format.OutputFormat
	quiet    bool
	verbose  bool
}

// syncWriter is a thread-safe writer that prevents interleaved output
type syncWriter struct {
	w  io.Writer
	mu sync.Mutex
}

func (sw *syncWriter) Write(p []byte) (n int, err error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

func newSyncWriter(w io.Writer) io.Writer {
	return &syncWriter{w: w}
}

// checkStdinPipe returns the piped input, if any.
func checkStdinPipe() (string, bool) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", false
	}
	if stat.Mode()&os.ModeCharDevice != 0 || stat.Mode()&os.ModeNamedPipe == 0 {
		return "", false
	}
	return readPiped(os.Stdin)
}

func readPiped(r io.Reader) (string, bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", false
	}
	text := strings.TrimRight(string(data), "\r\n")
	if text == "" {
		return "", false
	}
	return text, true
}

// handleNonInteractiveMode generates one code, optionally exports it, and
// prints a summary.
func handleNonInteractiveMode(ctx context.Context, cfg *config.Config, logs *logging.Service, opts nonInteractiveOptions) error {
	slog.Info("Running in non-interactive mode",
		"format", opts.format, "size", opts.size, "color", opts.color,
		"download", opts.download, "copy", opts.copy, "stats", opts.stats)

	if opts.quiet && opts.verbose {
		return fmt.Errorf("--quiet and --verbose flags cannot be used together")
	}

	if opts.verbose {
		charmLogger := charmlog.NewWithOptions(newSyncWriter(os.Stderr), charmlog.Options{
			Level:           charmlog.DebugLevel,
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "glassqr",
		})
		charmlog.SetDefault(charmLogger)
		slog.SetDefault(slog.New(charmLogger))
		charmLogger.Info("Verbose logging enabled")
	}

	var size qr.Size
	if opts.size != "" {
		s, err := qr.ParseSize(opts.size)
		if err != nil {
			return err
		}
		size = s
	}
	var color qr.Color
	if opts.color != "" {
		c, err := qr.ParseColor(opts.color)
		if err != nil {
			return err
		}
		color = c
	}

	var s *spinner.Spinner
	if !opts.quiet && !opts.stats {
		s = spinner.NewThemedSpinner("Generating QR code...")
		s.Start()
		defer s.Stop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt, err := newRuntime(ctx, cfg, logs)
	if err != nil {
		slog.Error("Failed to create app", "error", err)
		return err
	}
	defer rt.Close()
	a := rt.app

	logNotifications(ctx, a.Notifications, slog.Default())

	var output any
	if opts.stats {
		st := a.State().Stats()
		output = format.Stats{
			GeneratedCount: st.GeneratedCount,
			TodayCount:     st.TodayCount,
			TotalSaved:     st.TotalSaved,
			Theme:          string(st.Theme),
			LastGenerated:  st.LastGenerated,
		}
	} else {
		res, err := generateOnce(ctx, a, rt.encoder, size, color, opts)
		if err != nil {
			return err
		}
		if opts.format == format.JSONFormat {
			res.Preview = ""
		}
		output = res
	}

	formattedOutput, err := format.FormatOutput(output, opts.format)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if s != nil {
		s.Stop()
	}
	fmt.Println(formattedOutput)
	return nil
}

func generateOnce(ctx context.Context, a *app.App, encoder string, size qr.Size, color qr.Color, opts nonInteractiveOptions) (format.Result, error) {
	if size != "" {
		a.SetSize(size)
	}
	if color != "" {
		a.SetColor(color)
	}

	// there is nobody to ask, so a link-like text is taken as given
	bm, err := a.Generate(ctx, opts.text, app.GenerateOptions{Force: true, Confirmed: true})
	if err != nil {
		return format.Result{}, fmt.Errorf("failed to generate QR code: %w", err)
	}

	state := a.State()
	res := format.Result{
		Text:       state.Text,
		Size:       string(state.Size),
		SizeLabel:  state.SizeLabel,
		Color:      string(state.Color),
		ColorLabel: state.ColorLabel,
		Encoder:    encoder,
		Width:      bm.Image.Bounds().Dx(),
		Preview:    qr.Render(bm.Modules),
	}

	if opts.download {
		path, err := a.Download(ctx)
		if err != nil {
			return res, fmt.Errorf("failed to save QR code: %w", err)
		}
		res.File = path
	}
	if opts.copy {
		method, err := a.Copy(ctx)
		if err != nil {
			slog.Warn("copy failed", "error", err)
		}
		res.Copied = string(method)
	}
	return res, nil
}

// logNotifications mirrors the app's notifications into the log, since there
// is no screen to show them on. It subscribes before returning so nothing
// published afterwards is missed. The returned channel closes once the
// subscription ends.
func logNotifications(ctx context.Context, sub pubsub.Subscriber[notify.Notification], logger *slog.Logger) <-chan struct{} {
	events := sub.Subscribe(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer logging.RecoverPanic("notification-logger", nil)
		for ev := range events {
			n := ev.Payload
			logger.Debug("notification", "severity", n.Severity, "title", n.Title, "message", n.Message)
		}
	}()
	return done
}
