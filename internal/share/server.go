// Package share serves exported codes over a local HTTP endpoint so another
// device can fetch them.
package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxItems bounds how many shared codes are kept in memory.
const maxItems = 32

type item struct {
	name    string
	png     []byte
	created time.Time
}

type Server struct {
	echo     *echo.Echo
	listener net.Listener
	baseURL  string
	log      *slog.Logger

	mu    sync.RWMutex
	items map[string]item
	order []string
}

// New binds address and prepares the routes. Serving starts with Start.
// publicURL overrides the base of returned links, e.g. a LAN hostname.
func New(address, publicURL string) (*Server, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}

	base := strings.TrimRight(publicURL, "/")
	if base == "" {
		base = "http://" + listener.Addr().String()
	}

	s := &Server{
		echo:     echo.New(),
		listener: listener,
		baseURL:  base,
		log:      slog.With("service", "share"),
		items:    make(map[string]item),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Listener = listener
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	s.echo.GET("/s/:id", s.handleGet)
}

func (s *Server) handleGet(c echo.Context) error {
	id := strings.TrimSuffix(c.Param("id"), ".png")
	s.mu.RLock()
	it, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "shared code not found")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", it.name))
	return c.Blob(http.StatusOK, "image/png", it.png)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) BaseURL() string {
	return s.baseURL
}

// Publish stores png and returns the link that serves it.
func (s *Server) Publish(ctx context.Context, name string, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(png) == 0 {
		return "", errors.New("nothing to share")
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.items[id] = item{name: name, png: png, created: time.Now()}
	s.order = append(s.order, id)
	for len(s.order) > maxItems {
		delete(s.items, s.order[0])
		s.order = s.order[1:]
	}
	s.mu.Unlock()

	url := fmt.Sprintf("%s/s/%s.png", s.baseURL, id)
	s.log.Info("shared code published", "id", id, "name", name)
	return url, nil
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting share server", "url", s.baseURL)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("share server shutdown", "error", err)
		}
	}()
	if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the server and releases the listener.
func (s *Server) Close() error {
	err := s.echo.Close()
	_ = s.listener.Close()
	return err
}
