package spinner

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestSpinner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		new  func(string) *Spinner
	}{
		{name: "plain", new: NewSpinner},
		{name: "themed", new: NewThemedSpinner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := tt.new("Generating QR code")
			s.Start()
			time.Sleep(50 * time.Millisecond)

			stopped := make(chan struct{})
			go func() {
				s.Stop()
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-time.After(2 * time.Second):
				t.Fatal("spinner did not stop")
			}
		})
	}
}

func TestSpinnerModel(t *testing.T) {
	t.Parallel()

	m := spinnerModel{message: "Saving"}
	assert.Contains(t, m.View(), "Saving")

	next, cmd := m.Update(quitMsg{})
	assert.NotNil(t, cmd)
	assert.Empty(t, next.View())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotNil(t, cmd)
}
