// Package notify publishes transient user-facing notifications.
package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/glassqr/glassqr/internal/pubsub"
)

// Severity represents the kind of a notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

const (
	// DefaultDuration is how long a notification stays fully visible.
	DefaultDuration = 3 * time.Second
	// FadeDuration is the exit animation that follows DefaultDuration.
	FadeDuration = 300 * time.Millisecond
)

// Notification is a transient message shown to the user
type Notification struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Severity  Severity      `json:"severity"`
	CreatedAt time.Time     `json:"createdAt"`
	Duration  time.Duration `json:"duration"`
}

// Service defines the interface for the notification service
type Service interface {
	pubsub.Subscriber[Notification]
	Notify(title, message string, severity Severity) Notification
	Info(title, message string)
	Success(title, message string)
	Warn(title, message string)
	Error(title, message string)
	Shutdown()
}

type service struct {
	*pubsub.Broker[Notification]
	now func() time.Time
}

// NewService creates a notification service backed by its own broker.
func NewService() Service {
	return &service{
		Broker: pubsub.NewBroker[Notification](),
		now:    time.Now,
	}
}

// Notify builds and publishes a notification. The returned value is what
// subscribers receive.
func (s *service) Notify(title, message string, severity Severity) Notification {
	if severity == "" {
		severity = SeverityInfo
	}
	n := Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Severity:  severity,
		CreatedAt: s.now(),
		Duration:  DefaultDuration,
	}
	s.Publish(pubsub.EventTypeCreated, n)
	return n
}

func (s *service) Info(title, message string) {
	s.Notify(title, message, SeverityInfo)
}

func (s *service) Success(title, message string) {
	s.Notify(title, message, SeveritySuccess)
}

func (s *service) Warn(title, message string) {
	s.Notify(title, message, SeverityWarning)
}

func (s *service) Error(title, message string) {
	s.Notify(title, message, SeverityError)
}
