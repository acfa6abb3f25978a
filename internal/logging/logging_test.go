package logging

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterParsesLogfmt(t *testing.T) {
	t.Parallel()
	svc := NewService(10)
	ch := svc.Subscribe(t.Context())
	w := NewWriter(svc)

	line := `time=2026-05-09T12:34:56.789Z level=WARN msg="share failed" size=small` + "\n"
	n, err := w.Write([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	select {
	case ev := <-ch:
		assert.Equal(t, EventLogCreated, ev.Type)
		assert.Equal(t, "warn", ev.Payload.Level)
		assert.Equal(t, "share failed", ev.Payload.Message)
		assert.Equal(t, map[string]string{"size": "small"}, ev.Payload.Attributes)
		assert.Equal(t, 2026, ev.Payload.Timestamp.Year())
		assert.NotEmpty(t, ev.Payload.ID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for log event")
	}
}

func TestServiceRecentIsBounded(t *testing.T) {
	t.Parallel()
	svc := NewService(3)
	for i := range 5 {
		svc.Create(t.Context(), Log{Message: fmt.Sprintf("m%d", i)})
	}

	recent := svc.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "m2", recent[0].Message)
	assert.Equal(t, "m4", recent[2].Message)
	assert.Equal(t, "info", recent[0].Level)
}

func TestServiceShutdownDropsRecords(t *testing.T) {
	t.Parallel()
	svc := NewService(0)
	svc.Shutdown()

	assert.NotPanics(t, func() { svc.Create(t.Context(), Log{Message: "late"}) })
	assert.Empty(t, svc.Recent())
}

func TestSetupCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(0)
	file, err := Setup(dir, true, svc)
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	assert.FileExists(t, file.Name())
}
