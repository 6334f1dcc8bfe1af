package safety

import (
	"log/slog"
	"time"
)

// AuditRecorder records one entry per capability invocation, successes and
// failures alike.
type AuditRecorder interface {
	Record(event AuditEvent) error
}

// AuditEvent describes a single dispatched invocation.
type AuditEvent struct {
	ID      string
	Tool    string
	Status  string
	Elapsed time.Duration
}

// LogRecorder writes audit entries to a structured logger.
type LogRecorder struct {
	Logger *slog.Logger
}

func NewLogRecorder(logger *slog.Logger) *LogRecorder {
	return &LogRecorder{Logger: logger}
}

func (r *LogRecorder) Record(event AuditEvent) error {
	if r.Logger == nil {
		return nil
	}
	r.Logger.Info("tool_invocation",
		"id", event.ID,
		"tool", event.Tool,
		"status", event.Status,
		"elapsed_ms", event.Elapsed.Milliseconds(),
	)
	return nil
}
