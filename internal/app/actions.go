package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/glassqr/glassqr/internal/clipboard"
	"github.com/glassqr/glassqr/internal/export"
	"github.com/glassqr/glassqr/internal/qr"
)

// Example is a preset input offered in the UI.
type Example struct {
	Name string
	Text string
}

var examples = []Example{
	{Name: "Website", Text: "https://github.com"},
	{Name: "Wi-Fi", Text: "WIFI:T:WPA;S:MyNetwork;P:password123;;"},
	{Name: "E-mail", Text: "mailto:hello@example.com"},
	{Name: "Phone", Text: "tel:+15551234567"},
}

func Examples() []Example {
	out := make([]Example, len(examples))
	copy(out, examples)
	return out
}

// requireBitmap returns the current bitmap and selected size, or publishes
// the "not generated" error.
func (a *App) requireBitmap(op string) (*qr.Bitmap, qr.Size, error) {
	a.mu.Lock()
	bm, size, ready := a.state.Bitmap, a.state.Size, a.state.Ready()
	a.mu.Unlock()

	if !ready {
		a.Notifications.Error("Error", "No QR code has been generated yet")
		return nil, "", newError(KindValidation, op, ErrNoBitmap)
	}
	return bm, size, nil
}

// Download writes the current bitmap as a PNG and increments TotalSaved.
func (a *App) Download(ctx context.Context) (string, error) {
	const op = "download"

	bm, size, err := a.requireBitmap(op)
	if err != nil {
		return "", err
	}
	if a.exporter == nil {
		a.Notifications.Error("Error", "Failed to download the QR code")
		return "", newError(KindCapabilityUnavailable, op, ErrUnavailable)
	}

	name := export.FileName(size, a.now())
	path, err := a.exporter.SavePNG(ctx, name, bm.PNG)
	if err != nil {
		slog.Error("download failed", "file", name, "error", err)
		a.Notifications.Error("Error", "Failed to download the QR code")
		return "", newError(KindPersistence, op, err)
	}

	a.mu.Lock()
	a.state.TotalSaved++
	a.mu.Unlock()

	a.persist(ctx)
	a.feedback.Pulse()
	a.Notifications.Success("Success", fmt.Sprintf("QR code saved to %s", path))
	a.publishState()
	return path, nil
}

// Copy places the current bitmap on the clipboard. Clipboard failures end in
// an info notice pointing at the download action.
func (a *App) Copy(ctx context.Context) (clipboard.Method, error) {
	const op = "copy"

	bm, _, err := a.requireBitmap(op)
	if err != nil {
		return "", err
	}
	if a.clipboard == nil {
		a.Notifications.Info("Info", "Use the download action to save the QR code")
		return "", newError(KindCapabilityUnavailable, op, ErrUnavailable)
	}

	method, err := a.clipboard.CopyImage(ctx, bm.PNG)
	if errors.Is(err, context.Canceled) {
		return "", nil
	}
	if err != nil {
		slog.Warn("copy failed", "error", err)
		a.Notifications.Info("Info", "Use the download action instead")
		return "", newError(KindCapabilityUnavailable, op, errors.Join(ErrUnavailable, err))
	}

	message := "QR code copied to the clipboard"
	if method != clipboard.MethodImage {
		message = "QR code copied to the clipboard as a data URL"
	}
	a.Notifications.Success("Copied", message)
	return method, nil
}

// Share publishes the current bitmap and returns its link. A cancelled
// context is treated as the user backing out: no error, no notice.
func (a *App) Share(ctx context.Context) (string, error) {
	const op = "share"

	bm, size, err := a.requireBitmap(op)
	if err != nil {
		return "", err
	}
	if a.sharer == nil {
		a.Notifications.Info("Info", "Sharing is not available; enable the share server to use it")
		return "", newError(KindCapabilityUnavailable, op, ErrUnavailable)
	}

	url, err := a.sharer.Publish(ctx, export.FileName(size, a.now()), bm.PNG)
	if errors.Is(err, context.Canceled) {
		slog.Debug("share cancelled by user")
		return "", nil
	}
	if err != nil {
		slog.Warn("share failed", "error", err)
		a.Notifications.Info("Info", "Sharing cancelled")
		return "", newError(KindCapabilityUnavailable, op, err)
	}

	a.Notifications.Success("Success", "QR code shared")
	return url, nil
}

// ToggleTheme switches between dark and light and persists the choice.
func (a *App) ToggleTheme(ctx context.Context) Theme {
	a.mu.Lock()
	a.state.Theme = a.state.Theme.Toggle()
	theme := a.state.Theme
	a.mu.Unlock()

	a.persist(ctx)
	a.Notifications.Info("Theme changed", fmt.Sprintf("%s theme activated", theme.Label()))
	a.publishState()
	return theme
}

// LoadExample generates ex as a forced generation and announces it.
func (a *App) LoadExample(ctx context.Context, ex Example) (*Job, error) {
	job, err := a.Begin(ctx, ex.Text, GenerateOptions{Force: true, Confirmed: true})
	a.Notifications.Info("Example loaded", "The text was placed in the input field")
	return job, err
}

func (a *App) Privacy() {
	a.Notifications.Info("Privacy", "All data is processed locally and never leaves this machine.")
}

func (a *App) Welcome() {
	a.Notifications.Info("Welcome!", "Enter text or a link to create a QR code")
}
