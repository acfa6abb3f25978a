package clipboard

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	err   error
	calls int
}

func (f *fakeTool) name() string { return "fake" }

func (f *fakeTool) copy(context.Context, []byte) error {
	f.calls++
	return f.err
}

func TestCopyImage(t *testing.T) {
	t.Parallel()

	png := []byte{0x89, 'P', 'N', 'G'}

	tests := []struct {
		name       string
		native     *fakeTool
		textErr    error
		textOK     bool
		withTerm   bool
		wantMethod Method
		wantErr    error
	}{
		{name: "native image", native: &fakeTool{}, textOK: true, wantMethod: MethodImage},
		{name: "text fallback", native: &fakeTool{err: errors.New("no display")}, textOK: true, wantMethod: MethodText},
		{name: "no native tool", textOK: true, wantMethod: MethodText},
		{name: "osc52 fallback", textErr: errors.New("xsel missing"), textOK: true, withTerm: true, wantMethod: MethodOSC52},
		{name: "unsupported text clipboard", withTerm: true, wantMethod: MethodOSC52},
		{name: "nothing available", textErr: errors.New("xsel missing"), textOK: true, wantErr: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var copied string
			var term bytes.Buffer
			s := &System{
				textWriter: func(s string) error {
					copied = s
					return tt.textErr
				},
				textOK: tt.textOK,
			}
			if tt.native != nil {
				s.native = tt.native
			}
			if tt.withTerm {
				s.osc52 = &term
			}

			method, err := s.CopyImage(t.Context(), png)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMethod, method)

			switch method {
			case MethodText:
				assert.Equal(t, DataURL(png), copied)
			case MethodOSC52:
				assert.Contains(t, term.String(), "]52;c;")
			}
		})
	}
}

func TestCopyImageRejectsEmpty(t *testing.T) {
	t.Parallel()
	_, err := (&System{}).CopyImage(t.Context(), nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCopyImageStopsOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	native := &fakeTool{err: context.Canceled}
	_, err := (&System{native: native, textOK: true, textWriter: func(string) error { return nil }}).CopyImage(ctx, []byte{1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, native.calls)
}

func TestDataURL(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "data:image/png;base64,AQID", DataURL([]byte{1, 2, 3}))
}
