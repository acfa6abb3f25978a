package util_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/glassqr/glassqr/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		v, low, high int
		want         int
	}{
		{name: "inside", v: 5, low: 0, high: 10, want: 5},
		{name: "below", v: -3, low: 0, high: 10, want: 0},
		{name: "above", v: 42, low: 0, high: 10, want: 10},
		{name: "swapped bounds", v: 42, low: 10, high: 0, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, util.Clamp(tt.v, tt.low, tt.high))
		})
	}
}

func TestCmdHandler(t *testing.T) {
	t.Parallel()
	type ping struct{ n int }
	cmd := util.CmdHandler(ping{n: 7})
	assert.Equal(t, ping{n: 7}, cmd())
}

// Not parallel: swaps the default logger.
func TestMeasure(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	done := util.Measure("qr encode finished")
	done("encoder", "skip2")

	out := buf.String()
	assert.Contains(t, out, "qr encode finished")
	assert.Contains(t, out, "timeTakenMs=")
	assert.Contains(t, out, "encoder=skip2")
}
