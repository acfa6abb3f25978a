package layout

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func TestPlaceOverlay(t *testing.T) {
	t.Parallel()

	bg := "aaaaa\naaaaa\naaaaa"

	tests := []struct {
		name string
		x, y int
		fg   string
		want string
	}{
		{
			name: "inside",
			x:    1,
			y:    1,
			fg:   "xx",
			want: "aaaaa\naxxaa\naaaaa",
		},
		{
			name: "clamped to the right edge",
			x:    9,
			y:    0,
			fg:   "xx",
			want: "aaaxx\naaaaa\naaaaa",
		},
		{
			name: "negative position",
			x:    -3,
			y:    -1,
			fg:   "x",
			want: "xaaaa\naaaaa\naaaaa",
		},
		{
			name: "larger than the background",
			x:    0,
			y:    0,
			fg:   "xxxxxx\nxxxxxx\nxxxxxx\nxxxxxx",
			want: "xxxxxx\nxxxxxx\nxxxxxx\nxxxxxx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PlaceOverlay(tt.x, tt.y, tt.fg, bg, false))
		})
	}
}

func TestPlaceCentered(t *testing.T) {
	t.Parallel()
	bg := "......\n......\n......"
	assert.Equal(t, "......\n..xx..\n......", PlaceCentered("xx", bg, false))
}

func TestKeyMapToSlice(t *testing.T) {
	t.Parallel()

	km := struct {
		Quit   key.Binding
		Help   key.Binding
		Name   string
		hidden key.Binding
	}{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
		Help:   key.NewBinding(key.WithKeys("?")),
		hidden: key.NewBinding(key.WithKeys("x")),
	}

	got := KeyMapToSlice(km)
	assert.Len(t, got, 2)
	assert.Equal(t, []string{"ctrl+c"}, got[0].Keys())
	assert.Len(t, KeyMapToSlice(&km), 2)
	assert.Nil(t, KeyMapToSlice("not a struct"))
}
