// Package app owns the session state and implements every user action.
package app

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/glassqr/glassqr/internal/clipboard"
	"github.com/glassqr/glassqr/internal/device"
	"github.com/glassqr/glassqr/internal/logging"
	"github.com/glassqr/glassqr/internal/notify"
	"github.com/glassqr/glassqr/internal/pubsub"
	"github.com/glassqr/glassqr/internal/qr"
	"github.com/glassqr/glassqr/internal/store"
)

// DefaultMaxTextLength is the input limit in runes.
const DefaultMaxTextLength = 1000

// Exporter saves a PNG under a file name and reports where it went.
type Exporter interface {
	SavePNG(ctx context.Context, name string, data []byte) (string, error)
}

// Sharer publishes a PNG and returns a link to it.
type Sharer interface {
	Publish(ctx context.Context, name string, png []byte) (string, error)
}

type Options struct {
	Repository    *store.Repository
	Generator     *qr.Generator
	Notifications notify.Service
	Logs          *logging.Service

	// Optional capabilities. A nil Exporter, Clipboard or Sharer makes the
	// matching action unavailable.
	Exporter  Exporter
	Clipboard clipboard.Copier
	Sharer    Sharer
	Feedback  device.Feedback

	DefaultSize   qr.Size
	DefaultColor  qr.Color
	MaxTextLength int
	Device        device.Options

	Now  func() time.Time
	Rand func(n int) int
}

type App struct {
	Notifications notify.Service
	Logs          *logging.Service

	repo      *store.Repository
	generator *qr.Generator
	exporter  Exporter
	clipboard clipboard.Copier
	sharer    Sharer
	feedback  device.Feedback
	updates   *pubsub.Broker[State]

	maxTextLength int
	deviceOpts    device.Options
	configSize    qr.Size
	sizeChosen    bool

	now  func() time.Time
	rand func(n int) int

	mu    sync.Mutex
	state State
	seq   uint64
}

func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Repository == nil || opts.Generator == nil || opts.Notifications == nil {
		return nil, errors.New("app: repository, generator and notifications are required")
	}
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = DefaultMaxTextLength
	}
	if opts.Feedback == nil {
		opts.Feedback = device.NoFeedback{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.IntN
	}
	if _, err := qr.ParseSize(string(opts.DefaultSize)); err != nil {
		opts.DefaultSize = qr.DefaultSize
	}
	if _, err := qr.ParseColor(string(opts.DefaultColor)); err != nil {
		opts.DefaultColor = qr.DefaultColor
	}

	a := &App{
		Notifications: opts.Notifications,
		Logs:          opts.Logs,
		repo:          opts.Repository,
		generator:     opts.Generator,
		exporter:      opts.Exporter,
		clipboard:     opts.Clipboard,
		sharer:        opts.Sharer,
		feedback:      opts.Feedback,
		updates:       pubsub.NewBroker[State](),
		maxTextLength: opts.MaxTextLength,
		deviceOpts:    opts.Device,
		configSize:    opts.DefaultSize,
		now:           opts.Now,
		rand:          opts.Rand,
	}

	rec := a.repo.Load(ctx)
	a.state = State{
		Size:           opts.DefaultSize,
		Color:          opts.DefaultColor,
		Phase:          PhaseEmpty,
		GeneratedCount: rec.GeneratedCount,
		TodayCount:     rec.TodayCount,
		TotalSaved:     rec.TotalSaved,
		Theme:          Theme(rec.Theme),
	}
	if rec.LastGenerated != nil {
		a.state.LastGenerated = *rec.LastGenerated
	}
	slog.Debug("app initialised",
		"generated", rec.GeneratedCount,
		"today", rec.TodayCount,
		"saved", rec.TotalSaved,
		"theme", rec.Theme,
		"encoder", a.generator.EncoderName(),
	)
	return a, nil
}

// State returns a snapshot of the current state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Subscribe delivers a snapshot after every state change.
func (a *App) Subscribe(ctx context.Context) <-chan pubsub.Event[State] {
	return a.updates.Subscribe(ctx)
}

func (a *App) publishState() {
	a.updates.Publish(pubsub.EventTypeUpdated, a.State())
}

// SetViewport records the terminal size. Until the user picks a size
// explicitly, compact layouts preselect the small size.
func (a *App) SetViewport(columns, rows int) device.Viewport {
	vp := device.Detect(columns, rows, a.deviceOpts)
	a.mu.Lock()
	a.state.Viewport = vp
	a.state.Compact = vp.Compact
	if !a.sizeChosen {
		a.state.Size = device.DefaultSize(vp, a.configSize)
	}
	a.mu.Unlock()
	a.publishState()
	return vp
}

func (a *App) SetSize(size qr.Size) {
	if _, err := qr.ParseSize(string(size)); err != nil {
		slog.Warn("ignoring unknown size", "size", size)
		return
	}
	a.mu.Lock()
	a.state.Size = size
	a.sizeChosen = true
	a.mu.Unlock()
	a.publishState()
}

// SetColor stores c. Unknown names are kept and resolve to dark on
// generation.
func (a *App) SetColor(c qr.Color) {
	a.mu.Lock()
	a.state.Color = c
	a.mu.Unlock()
	a.publishState()
}

// HasText reports whether the last generated or edited text is non-empty.
func (a *App) HasText() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Text != ""
}

// persist writes the counters. Failures are logged; in-memory state stays.
func (a *App) persist(ctx context.Context) {
	a.mu.Lock()
	rec := store.Record{
		GeneratedCount: a.state.GeneratedCount,
		TotalSaved:     a.state.TotalSaved,
		TodayCount:     a.state.TodayCount,
		Theme:          string(a.state.Theme),
	}
	if !a.state.LastGenerated.IsZero() {
		ts := a.state.LastGenerated
		rec.LastGenerated = &ts
	}
	a.mu.Unlock()

	if err := a.repo.Save(ctx, rec); err != nil {
		slog.Error("failed to persist usage record", "error", newError(KindPersistence, "persist", err))
	}
}

// Shutdown stops event delivery. The repository belongs to whoever opened
// it and stays open.
func (a *App) Shutdown() {
	a.updates.Shutdown()
}
