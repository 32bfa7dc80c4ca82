// Package telemetry records page views. Events are only logged; nothing is persisted.
package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// Event describes one rendered page.
type Event struct {
	Mode      string
	Subject   string // brand value or canonical site name
	Path      string
	UserAgent string
	Referer   string
	RemoteIP  string
	RequestID string
	Status    int
	At        time.Time
}

// Sink receives page view events.
type Sink interface {
	Record(ctx context.Context, e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event)

// Record calls f(ctx, e).
func (f SinkFunc) Record(ctx context.Context, e Event) {
	f(ctx, e)
}

// SlogSink writes events to a slog.Logger.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a SlogSink. A nil logger uses slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Record logs the event at info level.
func (s *SlogSink) Record(ctx context.Context, e Event) {
	s.logger.InfoContext(ctx, "page view",
		"mode", e.Mode,
		"subject", e.Subject,
		"path", e.Path,
		"status", e.Status,
		"user_agent", e.UserAgent,
		"referer", e.Referer,
		"remote_ip", e.RemoteIP,
		"request_id", e.RequestID,
		"at", e.At.UTC().Format(time.RFC3339),
	)
}

// Nop discards every event.
var Nop Sink = SinkFunc(func(context.Context, Event) {})
