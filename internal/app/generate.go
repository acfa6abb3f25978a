package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/glassqr/glassqr/internal/qr"
)

var successMessages = []string{
	"QR code created successfully!",
	"Done! Your QR code has been generated.",
	"Perfect! The QR code is ready to use.",
	"Success! The QR code is created and ready to download.",
}

// autoGenerateMinLength is the length above which typing triggers generation
// even without a link-like pattern.
const autoGenerateMinLength = 20

type GenerateOptions struct {
	// Force reports an empty input as an error instead of ignoring it.
	Force bool
	// Confirmed accepts text that looks like a malformed link.
	Confirmed bool
}

// Job is a submitted generation.
type Job struct {
	Seq   uint64
	Text  string
	Size  qr.Size
	Color qr.Color
	Task  *qr.Task
}

func (j *Job) Wait(ctx context.Context) (*qr.Bitmap, error) {
	return j.Task.Wait(ctx)
}

// ShouldAutoGenerate reports whether typed text should schedule a debounced
// generation.
func ShouldAutoGenerate(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return strings.Contains(text, "http") ||
		strings.Contains(text, ".") ||
		utf8.RuneCountInString(text) > autoGenerateMinLength
}

// IsMalformedLink reports text that mentions http without being a link.
func IsMalformedLink(text string) bool {
	if !strings.Contains(text, "http") || strings.HasPrefix(text, "http") {
		return false
	}
	u, err := url.Parse(text)
	return err != nil || !u.IsAbs()
}

// LimitText truncates text to the maximum length and reports whether it did.
// Truncation publishes a length-limit error notification.
func (a *App) LimitText(text string) (string, bool) {
	if utf8.RuneCountInString(text) <= a.maxTextLength {
		return text, false
	}
	runes := []rune(text)
	a.Notifications.Error("Length limit", fmt.Sprintf("Maximum text length: %d characters", a.maxTextLength))
	return string(runes[:a.maxTextLength]), true
}

// Generate validates text, encodes it and waits for the result.
// An empty text without Force returns (nil, nil).
func (a *App) Generate(ctx context.Context, text string, opts GenerateOptions) (*qr.Bitmap, error) {
	job, err := a.Begin(ctx, text, opts)
	if err != nil || job == nil {
		return nil, err
	}
	bm, err := job.Wait(ctx)
	return a.Complete(ctx, job, bm, err)
}

// Begin validates text and submits it to the generator. The bitmap moves to
// the generating phase; the previous one is dropped.
func (a *App) Begin(ctx context.Context, text string, opts GenerateOptions) (*Job, error) {
	const op = "generate"

	text = strings.TrimSpace(text)
	if text == "" {
		if !opts.Force {
			return nil, nil
		}
		a.Notifications.Error("Attention", "Enter text or a link to generate a QR code")
		return nil, newError(KindValidation, op, ErrEmptyInput)
	}

	text, truncated := a.LimitText(text)
	if truncated {
		slog.Warn("input truncated", "limit", a.maxTextLength)
	}

	a.mu.Lock()
	a.state.Text = text
	compact := a.state.Compact
	a.mu.Unlock()

	if IsMalformedLink(text) {
		if compact {
			a.Notifications.Warn("Invalid link", "The text looks like a link but does not start with http or https")
			return nil, newError(KindValidation, op, ErrMalformedLink)
		}
		if !opts.Confirmed {
			return nil, newError(KindValidation, op, ErrNeedsConfirmation)
		}
	}

	a.mu.Lock()
	a.seq++
	job := &Job{
		Seq:   a.seq,
		Text:  text,
		Size:  a.state.Size,
		Color: a.state.Color,
	}
	req := qr.Request{
		Text:       text,
		Width:      a.state.Viewport.ClampSize(job.Size.Pixels()),
		Foreground: qr.ResolveColor(job.Color),
		Background: qr.Light(),
		Level:      qr.LevelHigh,
	}
	req.Height = req.Width
	a.state.Phase = PhaseGenerating
	a.state.Bitmap = nil
	a.mu.Unlock()

	job.Task = a.generator.Submit(ctx, req)
	slog.Debug("generation started", "seq", job.Seq, "size", job.Size, "color", job.Color, "width", req.Width)
	a.publishState()
	return job, nil
}

// Complete applies the outcome of job. Completions for a job that is no
// longer the latest are discarded with ErrSuperseded.
func (a *App) Complete(ctx context.Context, job *Job, bm *qr.Bitmap, err error) (*qr.Bitmap, error) {
	const op = "generate"

	a.mu.Lock()
	if job.Seq != a.seq {
		a.mu.Unlock()
		slog.Debug("discarding stale generation", "seq", job.Seq, "latest", a.latestSeq())
		return nil, ErrSuperseded
	}

	if err == nil && bm == nil {
		err = qr.ErrEmptyOutput
	}
	if err != nil {
		a.state.Phase = PhaseEmpty
		a.state.Bitmap = nil
		a.mu.Unlock()

		slog.Error("generation failed", "seq", job.Seq, "error", err)
		msg := "Failed to generate the QR code"
		if errors.Is(err, qr.ErrCapacity) {
			msg = "This text is too long for a QR code"
		}
		a.Notifications.Error("Error", msg)
		a.publishState()
		return nil, newError(KindGeneration, op, err)
	}

	now := a.now()
	a.state.Bitmap = bm
	a.state.Phase = PhaseReady
	a.state.LastGenerated = now
	a.state.SizeLabel = job.Size.Label()
	a.state.ColorLabel = job.Color.Label()
	a.state.TimeLabel = now.Format("15:04")
	a.state.GeneratedCount++
	a.state.TodayCount++
	a.mu.Unlock()

	a.persist(ctx)
	a.feedback.Pulse()
	a.Notifications.Success("Great!", successMessages[a.rand(len(successMessages))])
	a.publishState()
	return bm, nil
}

func (a *App) latestSeq() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seq
}
