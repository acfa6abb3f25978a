package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glassqr/glassqr/internal/pubsub"
)

// DefaultRecentLimit bounds the in-memory history shown by the logs dialog.
const DefaultRecentLimit = 200

const (
	EventLogCreated pubsub.EventType = "log_created"

	logFileName = "glassqr.log"
)

type Log struct {
	ID         string
	Timestamp  time.Time
	Level      string
	Message    string
	Attributes map[string]string
}

// Service keeps the most recent records in memory and publishes each new
// record to subscribers.
type Service struct {
	broker *pubsub.Broker[Log]

	mu     sync.RWMutex
	recent []Log
	limit  int
	closed bool
}

func NewService(limit int) *Service {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &Service{
		broker: pubsub.NewBroker[Log](),
		limit:  limit,
	}
}

func (s *Service) Create(_ context.Context, log Log) {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Level == "" {
		log.Level = "info"
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.recent = append(s.recent, log)
	if over := len(s.recent) - s.limit; over > 0 {
		s.recent = append(s.recent[:0:0], s.recent[over:]...)
	}
	s.mu.Unlock()

	s.broker.Publish(EventLogCreated, log)
}

// Recent returns a copy of the retained records, oldest first.
func (s *Service) Recent() []Log {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Log, len(s.recent))
	copy(out, s.recent)
	return out
}

func (s *Service) Subscribe(ctx context.Context) <-chan pubsub.Event[Log] {
	return s.broker.Subscribe(ctx)
}

func (s *Service) Shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.broker.Shutdown()
}

// Setup installs the default slog logger. Records go to <dir>/glassqr.log and
// through the service. The returned file must be closed by the caller.
func Setup(dir string, debug bool, svc *Service) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var out io.Writer = file
	if svc != nil {
		out = io.MultiWriter(file, NewWriter(svc))
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return file, nil
}
