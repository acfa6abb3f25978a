package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/glassqr/glassqr/internal/notify"
)

func TestLogNotificationsSeesImmediatePublish(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := notify.NewService()
	t.Cleanup(svc.Shutdown)

	ctx, cancel := context.WithCancel(t.Context())
	done := logNotifications(ctx, svc, logger)
	svc.Success("Great!", "QR code generated")
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notification logger did not stop")
	}
	assert.Contains(t, buf.String(), `title=Great!`)
	assert.Contains(t, buf.String(), `message="QR code generated"`)
}
