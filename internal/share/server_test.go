package share

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, publicURL string) *Server {
	t.Helper()
	s, err := New("127.0.0.1:0", publicURL)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPublishAndServe(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	url, err := s.Publish(t.Context(), "QR-Code-small.png", []byte("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, s.BaseURL()+"/s/"), url)

	req := httptest.NewRequest(http.MethodGet, strings.TrimPrefix(url, s.BaseURL()), nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "QR-Code-small.png")
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestUnknownID(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/s/nope.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublishErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "https://qr.example.net/")

	_, err := s.Publish(t.Context(), "x.png", nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = s.Publish(ctx, "x.png", []byte{1})
	assert.ErrorIs(t, err, context.Canceled)

	url, err := s.Publish(t.Context(), "x.png", []byte{1})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://qr.example.net/s/"), url)
}

func TestPublishEvictsOldest(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	first, err := s.Publish(t.Context(), "first.png", []byte{1})
	require.NoError(t, err)
	for i := range maxItems {
		_, err := s.Publish(t.Context(), fmt.Sprintf("%d.png", i), []byte{1})
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, strings.TrimPrefix(first, s.BaseURL()), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartServesUntilCancelled(t *testing.T) {
	t.Parallel()
	s, err := New("127.0.0.1:0", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(s.BaseURL() + "/healthz")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
