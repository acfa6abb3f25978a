package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glassqr/glassqr/internal/pubsub"
)

func TestServiceHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		publish  func(Service)
		severity Severity
	}{
		{"info", func(s Service) { s.Info("Theme", "Light mode") }, SeverityInfo},
		{"success", func(s Service) { s.Success("Success", "Created") }, SeveritySuccess},
		{"warning", func(s Service) { s.Warn("Invalid link", "Check it") }, SeverityWarning},
		{"error", func(s Service) { s.Error("Error", "Failed") }, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewService()
			t.Cleanup(svc.Shutdown)
			ch := svc.Subscribe(t.Context())

			tt.publish(svc)

			select {
			case ev := <-ch:
				assert.Equal(t, pubsub.EventTypeCreated, ev.Type)
				assert.Equal(t, tt.severity, ev.Payload.Severity)
				assert.Equal(t, DefaultDuration, ev.Payload.Duration)
				assert.NotEmpty(t, ev.Payload.ID)
			case <-time.After(time.Second):
				t.Fatal("timeout waiting for notification")
			}
		})
	}
}

func TestNotifyPreservesPublishOrder(t *testing.T) {
	t.Parallel()
	svc := NewService()
	t.Cleanup(svc.Shutdown)
	ch := svc.Subscribe(t.Context())

	first := svc.Notify("Length limit", "Truncated", SeverityError)
	second := svc.Notify("Success", "Created", "")

	got := []Notification{(<-ch).Payload, (<-ch).Payload}
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, SeverityInfo, got[1].Severity, "empty severity defaults to info")
}
