package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/glassqr/glassqr/internal/app"
	"github.com/glassqr/glassqr/internal/clipboard"
	"github.com/glassqr/glassqr/internal/config"
	"github.com/glassqr/glassqr/internal/device"
	"github.com/glassqr/glassqr/internal/export"
	"github.com/glassqr/glassqr/internal/format"
	"github.com/glassqr/glassqr/internal/logging"
	"github.com/glassqr/glassqr/internal/notify"
	"github.com/glassqr/glassqr/internal/pubsub"
	"github.com/glassqr/glassqr/internal/qr"
	"github.com/glassqr/glassqr/internal/share"
	"github.com/glassqr/glassqr/internal/store"
	"github.com/glassqr/glassqr/internal/tui"
	"github.com/glassqr/glassqr/internal/tui/components/dialog"
	"github.com/glassqr/glassqr/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "glassqr",
	Short: "A terminal QR code studio",
	Long: `glassqr turns text and links into QR codes right in the terminal.
Pick a size and a colour, then save the code as PNG, copy it to the clipboard
or share it over a local link. Everything runs on this machine.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flag("help").Changed {
			cmd.Help()
			return nil
		}
		if cmd.Flag("version").Changed {
			fmt.Println(version.Version)
			return nil
		}

		debug, _ := cmd.Flags().GetBool("debug")
		cwd, _ := cmd.Flags().GetString("cwd")
		if cwd != "" {
			if err := os.Chdir(cwd); err != nil {
				return fmt.Errorf("failed to change directory: %v", err)
			}
		}
		if cwd == "" {
			c, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current working directory: %v", err)
			}
			cwd = c
		}
		cfg, err := config.Load(cwd, debug)
		if err != nil {
			return err
		}

		logs := logging.NewService(logging.DefaultRecentLimit)
		defer logs.Shutdown()
		logFile, err := logging.Setup(cfg.LogDir(), cfg.Debug, logs)
		if err != nil {
			return err
		}
		defer logFile.Close()

		text, _ := cmd.Flags().GetString("text")
		if text == "" {
			if piped, ok := checkStdinPipe(); ok {
				text = piped
			}
		}
		stats, _ := cmd.Flags().GetBool("stats")

		if text != "" || stats {
			outputFormatStr, _ := cmd.Flags().GetString("output-format")
			outputFormat := format.OutputFormat(outputFormatStr)
			if !outputFormat.IsValid() {
				return fmt.Errorf("invalid output format: %s", outputFormatStr)
			}

			opts := nonInteractiveOptions{text: text, format: outputFormat, stats: stats}
			opts.size, _ = cmd.Flags().GetString("size")
			opts.color, _ = cmd.Flags().GetString("color")
			opts.download, _ = cmd.Flags().GetBool("download")
			opts.copy, _ = cmd.Flags().GetBool("copy")
			opts.quiet, _ = cmd.Flags().GetBool("quiet")
			opts.verbose, _ = cmd.Flags().GetBool("verbose")
			return handleNonInteractiveMode(cmd.Context(), cfg, logs, opts)
		}

		serve, _ := cmd.Flags().GetBool("serve")
		if serve {
			cfg.Share.Enabled = true
		}
		return runTUI(cmd.Context(), cfg, logs)
	},
}

// runtime holds the wired services of one invocation.
type runtime struct {
	app     *app.App
	share   *share.Server
	encoder string
	closers []func() error
}

// Close stops the app and releases everything newRuntime opened, in reverse
// order. Each resource has exactly one closer here.
func (r *runtime) Close() error {
	if r.app != nil {
		r.app.Shutdown()
	}
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			slog.Warn("failed to release resource", "error", err)
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// newRuntime opens storage and exports and builds the app around them.
func newRuntime(ctx context.Context, cfg *config.Config, logs *logging.Service) (*runtime, error) {
	rt := &runtime{encoder: cfg.QR.Encoder}

	kv, err := store.Open(ctx, cfg.Storage.Backend, cfg.StoreDir())
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, kv.Close)
	repo := store.NewRepository(kv, cfg.Storage.Key).WithDefaultTheme(cfg.TUI.Theme)

	enc, err := qr.NewEncoder(cfg.QR.Encoder)
	if err != nil {
		rt.Close()
		return nil, err
	}

	var exporter app.Exporter
	if ex, err := export.OpenDir(cfg.Export.Directory); err != nil {
		slog.Warn("downloads unavailable", "dir", cfg.Export.Directory, "error", err)
	} else {
		exporter = ex
		rt.closers = append(rt.closers, ex.Close)
	}

	var sharer app.Sharer
	if cfg.Share.Enabled {
		srv, err := share.New(cfg.Share.Address, cfg.Share.PublicURL)
		if err != nil {
			slog.Warn("sharing unavailable", "address", cfg.Share.Address, "error", err)
		} else {
			rt.share = srv
			sharer = srv
			rt.closers = append(rt.closers, srv.Close)
		}
	}

	a, err := app.New(ctx, app.Options{
		Repository:    repo,
		Generator:     qr.NewGenerator(enc),
		Notifications: notify.NewService(),
		Logs:          logs,
		Exporter:      exporter,
		Clipboard:     clipboard.NewSystem(os.Stderr),
		Sharer:        sharer,
		Feedback:      device.NewFeedback(cfg.Feedback.Bell, os.Stdout),
		DefaultSize:   qr.Size(cfg.QR.DefaultSize),
		DefaultColor:  qr.Color(cfg.QR.DefaultColor),
		MaxTextLength: cfg.QR.MaxTextLength,
		Device: device.Options{
			CompactBreakpoint: cfg.Device.CompactBreakpoint,
			CellWidthPx:       cfg.Device.CellWidthPx,
		},
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.app = a
	return rt, nil
}

func runTUI(parent context.Context, cfg *config.Config, logs *logging.Service) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	rt, err := newRuntime(ctx, cfg, logs)
	if err != nil {
		slog.Error("Failed to create app", "error", err)
		return err
	}
	defer rt.Close()

	about := dialog.AboutInfo{
		Version:   version.Version,
		Encoder:   rt.encoder,
		Storage:   cfg.Storage.Backend,
		ExportDir: cfg.Export.Directory,
	}
	if rt.share != nil {
		about.ShareURL = rt.share.BaseURL()
	}

	g, gctx := errgroup.WithContext(ctx)

	zone.NewGlobal()
	program := tea.NewProgram(
		tui.New(gctx, rt.app, tui.Options{About: about, MaxTextLength: cfg.QR.MaxTextLength}),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(gctx),
	)

	ch, cancelSubs := setupSubscriptions(gctx, rt.app)

	tuiCtx, tuiCancel := context.WithCancel(gctx)
	var tuiWg sync.WaitGroup
	tuiWg.Add(1)
	go func() {
		defer tuiWg.Done()
		defer logging.RecoverPanic("TUI-message-handler", func() {
			attemptTUIRecovery(program)
		})

		for {
			select {
			case <-tuiCtx.Done():
				slog.Info("TUI message handler shutting down")
				return
			case msg, ok := <-ch:
				if !ok {
					slog.Info("TUI message channel closed")
					return
				}
				program.Send(msg)
			}
		}
	}()

	if rt.share != nil {
		g.Go(func() error {
			defer logging.RecoverPanic("share-server", nil)
			return rt.share.Start(gctx)
		})
	}
	g.Go(func() error {
		// the share server follows the TUI
		defer cancel()
		result, err := program.Run()
		if err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		slog.Info("TUI exited", "result", result)
		return nil
	})

	err = g.Wait()

	cancelSubs()
	tuiCancel()
	tuiWg.Wait()
	slog.Info("All goroutines cleaned up")

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		slog.Error("TUI error", "error", err)
		return err
	}
	return nil
}

// attemptTUIRecovery quits the program after a panic in the event pump.
func attemptTUIRecovery(program *tea.Program) {
	slog.Info("Attempting to recover TUI after panic")
	program.Quit()
}

func setupSubscriber[T any](
	ctx context.Context,
	wg *sync.WaitGroup,
	name string,
	subscriber func(context.Context) <-chan pubsub.Event[T],
	outputCh chan<- tea.Msg,
) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer logging.RecoverPanic(fmt.Sprintf("subscription-%s", name), nil)

		subCh := subscriber(ctx)
		if subCh == nil {
			slog.Warn("subscription channel is nil", "name", name)
			return
		}

		for {
			select {
			case event, ok := <-subCh:
				if !ok {
					slog.Debug("subscription channel closed", "name", name)
					return
				}

				var msg tea.Msg = event

				select {
				case outputCh <- msg:
				case <-time.After(2 * time.Second):
					slog.Warn("message dropped due to slow consumer", "name", name)
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// setupSubscriptions fans the app's brokers into one channel for the program.
func setupSubscriptions(parentCtx context.Context, a *app.App) (chan tea.Msg, func()) {
	ch := make(chan tea.Msg, 100)

	wg := sync.WaitGroup{}
	ctx, cancel := context.WithCancel(parentCtx)

	setupSubscriber(ctx, &wg, "notifications", a.Notifications.Subscribe, ch)
	setupSubscriber(ctx, &wg, "state", a.Subscribe, ch)
	if a.Logs != nil {
		setupSubscriber(ctx, &wg, "logging", a.Logs.Subscribe, ch)
	}

	cleanupFunc := func() {
		slog.Debug("Cancelling all subscriptions")
		cancel()

		waitCh := make(chan struct{})
		go func() {
			defer logging.RecoverPanic("subscription-cleanup", nil)
			wg.Wait()
			close(waitCh)
		}()

		select {
		case <-waitCh:
			close(ch)
		case <-time.After(5 * time.Second):
			slog.Warn("Timed out waiting for some subscription goroutines to complete")
			close(ch)
		}
	}
	return ch, cleanupFunc
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("version", "v", false, "Version")
	rootCmd.Flags().BoolP("debug", "d", false, "Debug")
	rootCmd.Flags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.Flags().StringP("text", "t", "", "Generate a QR code for this text in non-interactive mode")
	rootCmd.Flags().String("size", "", "QR code size (small, medium, large)")
	rootCmd.Flags().String("color", "", "QR code colour (dark, primary, accent)")
	rootCmd.Flags().Bool("download", false, "Save the generated QR code as PNG")
	rootCmd.Flags().Bool("copy", false, "Copy the generated QR code to the clipboard")
	rootCmd.Flags().StringP("output-format", "f", "text", "Output format for non-interactive mode (text, json)")
	rootCmd.Flags().BoolP("quiet", "q", false, "Hide spinner in non-interactive mode")
	rootCmd.Flags().BoolP("verbose", "", false, "Display logs to stderr in non-interactive mode")
	rootCmd.Flags().Bool("stats", false, "Print the usage counters and exit")
	rootCmd.Flags().Bool("serve", false, "Run the share server alongside the TUI")

	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
	rootCmd.MarkFlagsMutuallyExclusive("stats", "text")
}
