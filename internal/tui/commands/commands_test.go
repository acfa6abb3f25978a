package commands

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestRegistryMatch(t *testing.T) {
	t.Parallel()

	r := NewCommandRegistry()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
	}{
		{name: "enter generates", msg: tea.KeyMsg{Type: tea.KeyEnter}, want: Generate},
		{name: "ctrl+s downloads", msg: tea.KeyMsg{Type: tea.KeyCtrlS}, want: Download},
		{name: "f2 cycles the size", msg: tea.KeyMsg{Type: tea.KeyF2}, want: Size},
		{name: "f6 opens the style picker", msg: tea.KeyMsg{Type: tea.KeyF6}, want: Style},
		{name: "ctrl+c quits", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, want: Quit},
		{name: "plain runes are typing", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := r.Match(tt.msg)
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestRegistryFind(t *testing.T) {
	t.Parallel()

	r := NewCommandRegistry()
	c, ok := r.Find(Share)
	assert.True(t, ok)
	assert.Equal(t, "ctrl+o", c.KeyBinding.Help().Key)

	_, ok = r.Find("missing")
	assert.False(t, ok)
	assert.Len(t, r.Bindings(), len(r))
}
