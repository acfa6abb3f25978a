package logging

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-logfmt/logfmt"
)

// writer decodes slog text-handler output and forwards each record to the
// service.
type writer struct {
	svc *Service
}

func (w *writer) Write(p []byte) (int, error) {
	// time=2026-05-09T12:34:56.789-05:00 level=INFO msg="QR code generated" size=small
	d := logfmt.NewDecoder(bytes.NewReader(p))
	for d.ScanRecord() {
		msg := Log{}

		for d.ScanKeyval() {
			key, value := string(d.Key()), string(d.Value())
			switch key {
			case "time":
				parsed, err := time.Parse(time.RFC3339Nano, value)
				if err != nil {
					parsed = time.Now()
				}
				msg.Timestamp = parsed
			case "level":
				msg.Level = strings.ToLower(value)
			case "msg", "message":
				msg.Message = value
			default:
				if msg.Attributes == nil {
					msg.Attributes = make(map[string]string)
				}
				msg.Attributes[key] = value
			}
		}

		w.svc.Create(context.Background(), msg)
	}
	if d.Err() != nil {
		return len(p), fmt.Errorf("logfmt.ScanRecord: %w", d.Err())
	}
	return len(p), nil
}

func NewWriter(svc *Service) *writer {
	return &writer{svc: svc}
}
