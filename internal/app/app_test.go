package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/glassqr/glassqr/internal/clipboard"
	"github.com/glassqr/glassqr/internal/export"
	"github.com/glassqr/glassqr/internal/notify"
	"github.com/glassqr/glassqr/internal/pubsub"
	"github.com/glassqr/glassqr/internal/qr"
	"github.com/glassqr/glassqr/internal/store"
)

var testNow = time.Date(2026, 10, 17, 14, 5, 9, 0, time.UTC)

// recorder is a synchronous notify.Service.
type recorder struct {
	mu    sync.Mutex
	items []notify.Notification
}

func (r *recorder) Subscribe(context.Context) <-chan pubsub.Event[notify.Notification] {
	ch := make(chan pubsub.Event[notify.Notification])
	close(ch)
	return ch
}

func (r *recorder) Notify(title, message string, severity notify.Severity) notify.Notification {
	n := notify.Notification{Title: title, Message: message, Severity: severity}
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
	return n
}

func (r *recorder) Info(title, message string)    { r.Notify(title, message, notify.SeverityInfo) }
func (r *recorder) Success(title, message string) { r.Notify(title, message, notify.SeveritySuccess) }
func (r *recorder) Warn(title, message string)    { r.Notify(title, message, notify.SeverityWarning) }
func (r *recorder) Error(title, message string)   { r.Notify(title, message, notify.SeverityError) }
func (r *recorder) Shutdown()                     {}

func (r *recorder) all() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.items...)
}

func (r *recorder) last() notify.Notification {
	items := r.all()
	if len(items) == 0 {
		return notify.Notification{}
	}
	return items[len(items)-1]
}

type fakeEncoder struct {
	err error
}

func (fakeEncoder) Name() string { return "fake" }

func (f fakeEncoder) Encode(_ context.Context, req qr.Request) (*qr.Bitmap, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &qr.Bitmap{Request: req, PNG: []byte("png:" + req.Text), Modules: [][]bool{{true}}}, nil
}

type fakeKV struct {
	store.KV
	putErr error
}

func (f fakeKV) Put(ctx context.Context, key string, value []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.KV.Put(ctx, key, value)
}

type fixture struct {
	app     *App
	notes   *recorder
	kv      store.KV
	exports *export.Exporter
	repo    *store.Repository
	encoder *fakeEncoder
}

type fixtureOption func(*Options, *fixture)

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	f := &fixture{
		notes:   &recorder{},
		encoder: &fakeEncoder{},
	}
	f.kv = store.NewBlobKV(memblob.OpenBucket(nil))
	f.repo = store.NewRepository(f.kv, "").WithClock(func() time.Time { return testNow })
	f.exports = export.New(memblob.OpenBucket(nil), "mem")

	o := Options{
		Repository:    f.repo,
		Generator:     qr.NewGenerator(encoderFunc{f.encoder}),
		Notifications: f.notes,
		Exporter:      f.exports,
		Now:           func() time.Time { return testNow },
		Rand:          func(int) int { return 0 },
	}
	for _, opt := range opts {
		opt(&o, f)
	}

	a, err := New(t.Context(), o)
	require.NoError(t, err)
	t.Cleanup(func() { f.exports.Close() })
	f.app = a
	return f
}

// encoderFunc lets tests swap the fake's error after construction.
type encoderFunc struct{ f *fakeEncoder }

func (e encoderFunc) Name() string { return e.f.Name() }

func (e encoderFunc) Encode(ctx context.Context, req qr.Request) (*qr.Bitmap, error) {
	return e.f.Encode(ctx, req)
}

func TestNewLoadsDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	s := f.app.State()
	assert.Equal(t, 0, s.GeneratedCount)
	assert.Equal(t, 0, s.TodayCount)
	assert.Equal(t, 0, s.TotalSaved)
	assert.Equal(t, ThemeDark, s.Theme)
	assert.Equal(t, PhaseEmpty, s.Phase)
	assert.Equal(t, qr.SizeSmall, s.Size)
	assert.Equal(t, qr.ColorDark, s.Color)
	assert.Nil(t, s.Bitmap)
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()
	_, err := New(t.Context(), Options{})
	assert.Error(t, err)
}

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	bm, err := f.app.Generate(t.Context(), "  https://example.com  ", GenerateOptions{})
	require.NoError(t, err)
	require.NotNil(t, bm)
	assert.Equal(t, "https://example.com", bm.Request.Text)
	assert.Equal(t, 256, bm.Request.Width)
	assert.Equal(t, qr.LevelHigh, bm.Request.Level)
	assert.Equal(t, qr.ResolveColor(qr.ColorDark), bm.Request.Foreground)
	assert.Equal(t, qr.Light(), bm.Request.Background)

	s := f.app.State()
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Same(t, bm, s.Bitmap)
	assert.Equal(t, 1, s.GeneratedCount)
	assert.Equal(t, 1, s.TodayCount)
	assert.Equal(t, "Small (256×256px)", s.SizeLabel)
	assert.Equal(t, "Dark", s.ColorLabel)
	assert.Equal(t, testNow.Format("15:04"), s.TimeLabel)
	assert.Equal(t, testNow, s.LastGenerated)

	note := f.notes.last()
	assert.Equal(t, notify.SeveritySuccess, note.Severity)
	assert.Contains(t, successMessages, note.Message)

	rec := f.repo.Load(t.Context())
	assert.Equal(t, 1, rec.GeneratedCount)
	assert.Equal(t, 1, rec.TodayCount)
	assert.Equal(t, "2026-10-17", rec.LastDate)
}

func TestGenerateEachSuccessIncrementsByOne(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	for i := 1; i <= 3; i++ {
		_, err := f.app.Generate(t.Context(), "hello world", GenerateOptions{Force: true})
		require.NoError(t, err)
		s := f.app.State()
		assert.Equal(t, i, s.GeneratedCount)
		assert.Equal(t, i, s.TodayCount)
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	t.Parallel()

	t.Run("forced", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		bm, err := f.app.Generate(t.Context(), "   ", GenerateOptions{Force: true})
		assert.Nil(t, bm)
		assert.ErrorIs(t, err, ErrEmptyInput)
		assert.ErrorIs(t, err, KindValidation)
		assert.Equal(t, notify.SeverityError, f.notes.last().Severity)
		assert.Equal(t, 0, f.app.State().GeneratedCount)
	})

	t.Run("not forced is silent", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		bm, err := f.app.Generate(t.Context(), "", GenerateOptions{})
		assert.Nil(t, bm)
		assert.NoError(t, err)
		assert.Empty(t, f.notes.all())
	})
}

func TestGenerateTruncatesLongInput(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	long := strings.Repeat("ж", 1001)
	bm, err := f.app.Generate(t.Context(), long, GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1000, len([]rune(bm.Request.Text)))
	assert.Equal(t, 1000, len([]rune(f.app.State().Text)))

	notes := f.notes.all()
	require.Len(t, notes, 2)
	assert.Equal(t, "Length limit", notes[0].Title)
	assert.Equal(t, notify.SeverityError, notes[0].Severity)
	assert.Equal(t, notify.SeveritySuccess, notes[1].Severity)
}

func TestGenerateMalformedLink(t *testing.T) {
	t.Parallel()
	const text = "see http example"

	t.Run("desktop asks for confirmation", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.app.SetViewport(160, 40)

		_, err := f.app.Generate(t.Context(), text, GenerateOptions{})
		assert.ErrorIs(t, err, ErrNeedsConfirmation)
		assert.Empty(t, f.notes.all())

		bm, err := f.app.Generate(t.Context(), text, GenerateOptions{Confirmed: true})
		require.NoError(t, err)
		assert.Equal(t, text, bm.Request.Text)
	})

	t.Run("compact rejects with a warning", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.app.SetViewport(60, 30)

		_, err := f.app.Generate(t.Context(), text, GenerateOptions{Confirmed: true})
		assert.ErrorIs(t, err, ErrMalformedLink)
		assert.Equal(t, notify.SeverityWarning, f.notes.last().Severity)
		assert.Equal(t, 0, f.app.State().GeneratedCount)
	})
}

func TestGenerateFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.app.Generate(t.Context(), "first", GenerateOptions{})
	require.NoError(t, err)

	f.encoder.err = errors.New("data too long")
	bm, err := f.app.Generate(t.Context(), "second", GenerateOptions{})
	assert.Nil(t, bm)
	assert.ErrorIs(t, err, KindGeneration)
	assert.Equal(t, KindGeneration, KindOf(err))

	s := f.app.State()
	assert.Equal(t, PhaseEmpty, s.Phase)
	assert.Nil(t, s.Bitmap)
	assert.Equal(t, 1, s.GeneratedCount)
	assert.Equal(t, notify.SeverityError, f.notes.last().Severity)
}

func TestGenerateTooLongForQR(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.encoder.err = fmt.Errorf("qrcode.New: %w", qr.ErrCapacity)
	_, err := f.app.Generate(t.Context(), "long text", GenerateOptions{})
	assert.ErrorIs(t, err, KindGeneration)
	assert.ErrorIs(t, err, qr.ErrCapacity)

	last := f.notes.last()
	assert.Equal(t, notify.SeverityError, last.Severity)
	assert.Equal(t, "This text is too long for a QR code", last.Message)
}

func TestStaleCompletionIsDiscarded(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	first, err := f.app.Begin(ctx, "first", GenerateOptions{})
	require.NoError(t, err)
	second, err := f.app.Begin(ctx, "second", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.Seq+1, second.Seq)

	bm1, err := first.Wait(ctx)
	require.NoError(t, err)
	_, err = f.app.Complete(ctx, first, bm1, nil)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Equal(t, PhaseGenerating, f.app.State().Phase)
	assert.Equal(t, 0, f.app.State().GeneratedCount)

	bm2, err := second.Wait(ctx)
	require.NoError(t, err)
	got, err := f.app.Complete(ctx, second, bm2, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Request.Text)
	assert.Equal(t, 1, f.app.State().GeneratedCount)
}

func TestGenerateClampsToViewport(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.app.SetViewport(50, 40)
	f.app.SetSize(qr.SizeLarge)

	bm, err := f.app.Generate(t.Context(), "hello", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 50*9-100, bm.Request.Width)
	assert.Equal(t, bm.Request.Width, bm.Request.Height)
	assert.Equal(t, "Large (450×450px)", f.app.State().SizeLabel)
}

func TestSetViewportPreselectsSmallOnCompact(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(o *Options, _ *fixture) { o.DefaultSize = qr.SizeMedium })

	assert.Equal(t, qr.SizeMedium, f.app.State().Size)
	vp := f.app.SetViewport(80, 24)
	assert.True(t, vp.Compact)
	assert.Equal(t, qr.SizeSmall, f.app.State().Size)

	f.app.SetViewport(160, 40)
	assert.Equal(t, qr.SizeMedium, f.app.State().Size)

	f.app.SetSize(qr.SizeLarge)
	f.app.SetViewport(80, 24)
	assert.Equal(t, qr.SizeLarge, f.app.State().Size, "an explicit choice survives resizes")
}

func TestPersistenceFailureKeepsCounters(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(o *Options, f *fixture) {
		o.Repository = store.NewRepository(fakeKV{KV: f.kv, putErr: errors.New("quota exceeded")}, "")
	})

	_, err := f.app.Generate(t.Context(), "hello", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.app.State().GeneratedCount)
	assert.Equal(t, notify.SeveritySuccess, f.notes.last().Severity)
}

func TestDownload(t *testing.T) {
	t.Parallel()

	t.Run("without a bitmap", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.app.Download(t.Context())
		assert.ErrorIs(t, err, ErrNoBitmap)
		assert.Equal(t, 0, f.app.State().TotalSaved)
		assert.Equal(t, notify.SeverityError, f.notes.last().Severity)
	})

	t.Run("after generation", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.app.SetSize(qr.SizeMedium)
		_, err := f.app.Generate(t.Context(), "https://example.com", GenerateOptions{})
		require.NoError(t, err)

		path, err := f.app.Download(t.Context())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("mem", "QR-Code-medium-2026-10-17-14-05-09.png"), path)
		assert.Equal(t, 1, f.app.State().TotalSaved)
		assert.Equal(t, 1, f.repo.Load(t.Context()).TotalSaved)
		assert.Equal(t, notify.SeveritySuccess, f.notes.last().Severity)
	})

	t.Run("write failure leaves the counter", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(o *Options, _ *fixture) { o.Exporter = failingExporter{} })
		_, err := f.app.Generate(t.Context(), "hello", GenerateOptions{})
		require.NoError(t, err)

		_, err = f.app.Download(t.Context())
		assert.ErrorIs(t, err, KindPersistence)
		assert.Equal(t, 0, f.app.State().TotalSaved)
		assert.Equal(t, notify.SeverityError, f.notes.last().Severity)
	})
}

type failingExporter struct{}

func (failingExporter) SavePNG(context.Context, string, []byte) (string, error) {
	return "", errors.New("read-only file system")
}

type fakeCopier struct {
	method clipboard.Method
	err    error
	got    []byte
}

func (c *fakeCopier) CopyImage(_ context.Context, png []byte) (clipboard.Method, error) {
	c.got = png
	return c.method, c.err
}

func TestCopy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		copier       *fakeCopier
		wantMethod   clipboard.Method
		wantSeverity notify.Severity
		wantMessage  string
		wantErr      error
	}{
		{
			name:         "image clipboard",
			copier:       &fakeCopier{method: clipboard.MethodImage},
			wantMethod:   clipboard.MethodImage,
			wantSeverity: notify.SeveritySuccess,
		},
		{
			name:         "degrades to the download hint",
			copier:       &fakeCopier{err: clipboard.ErrUnavailable},
			wantSeverity: notify.SeverityInfo,
			wantMessage:  "Use the download action instead",
			wantErr:      ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, func(o *Options, _ *fixture) { o.Clipboard = tt.copier })
			bm, err := f.app.Generate(t.Context(), "hello", GenerateOptions{})
			require.NoError(t, err)

			method, err := f.app.Copy(t.Context())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, bm.PNG, tt.copier.got)
			}
			assert.Equal(t, tt.wantMethod, method)
			note := f.notes.last()
			assert.Equal(t, tt.wantSeverity, note.Severity)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, note.Message)
			}
		})
	}

	t.Run("without a bitmap", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(o *Options, _ *fixture) { o.Clipboard = &fakeCopier{} })
		_, err := f.app.Copy(t.Context())
		assert.ErrorIs(t, err, ErrNoBitmap)
	})
}

type fakeSharer struct {
	url string
	err error
}

func (s fakeSharer) Publish(context.Context, string, []byte) (string, error) {
	return s.url, s.err
}

func TestShare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		sharer      Sharer
		wantURL     string
		wantErr     error
		wantMessage string
		wantNoNote  bool
	}{
		{name: "published", sharer: fakeSharer{url: "http://127.0.0.1:8765/s/x.png"}, wantURL: "http://127.0.0.1:8765/s/x.png", wantMessage: "QR code shared"},
		{name: "unavailable", wantErr: KindCapabilityUnavailable, wantMessage: "Sharing is not available; enable the share server to use it"},
		{name: "user cancelled", sharer: fakeSharer{err: context.Canceled}, wantNoNote: true},
		{name: "failed", sharer: fakeSharer{err: errors.New("listener closed")}, wantErr: KindCapabilityUnavailable, wantMessage: "Sharing cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, func(o *Options, _ *fixture) { o.Sharer = tt.sharer })
			_, err := f.app.Generate(t.Context(), "hello", GenerateOptions{})
			require.NoError(t, err)
			before := len(f.notes.all())

			url, err := f.app.Share(t.Context())
			assert.Equal(t, tt.wantURL, url)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantNoNote {
				assert.Len(t, f.notes.all(), before)
				return
			}
			assert.Equal(t, tt.wantMessage, f.notes.last().Message)
		})
	}
}

func TestToggleThemeTwiceRestores(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := t.Context()

	assert.Equal(t, ThemeLight, f.app.ToggleTheme(ctx))
	assert.Equal(t, "light", f.repo.Load(ctx).Theme)
	assert.Equal(t, notify.SeverityInfo, f.notes.last().Severity)
	assert.Equal(t, "Light theme activated", f.notes.last().Message)

	assert.Equal(t, ThemeDark, f.app.ToggleTheme(ctx))
	assert.Equal(t, "dark", f.repo.Load(ctx).Theme)
	assert.Equal(t, ThemeDark, f.app.State().Theme)
}

func TestLoadExample(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ex := Examples()[0]
	job, err := f.app.LoadExample(t.Context(), ex)
	require.NoError(t, err)
	bm, err := job.Wait(t.Context())
	require.NoError(t, err)
	_, err = f.app.Complete(t.Context(), job, bm, nil)
	require.NoError(t, err)

	assert.Equal(t, ex.Text, f.app.State().Text)
	titles := []string{}
	for _, n := range f.notes.all() {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Example loaded")
}

func TestInfoNotices(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.app.Privacy()
	assert.Equal(t, "Privacy", f.notes.last().Title)
	f.app.Welcome()
	assert.Equal(t, "Welcome!", f.notes.last().Title)
}

func TestShouldAutoGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"hello", false},
		{"http", true},
		{"example.com", true},
		{"a sentence longer than twenty", true},
		{"exactly twenty chars", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ShouldAutoGenerate(tt.text))
		})
	}
}

func TestIsMalformedLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"https://example.com", false},
		{"http", false},
		{"plain text", false},
		{"go to http now", true},
		{"www.http.com", true},
		{"ftp://http.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsMalformedLink(tt.text))
		})
	}
}

func TestErrorMatching(t *testing.T) {
	t.Parallel()

	err := error(newError(KindValidation, "generate", ErrEmptyInput))
	assert.ErrorIs(t, err, KindValidation)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.NotErrorIs(t, err, KindGeneration)
	assert.Equal(t, "generate: validation: text is empty", err.Error())
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}
