package api

import (
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
)

// CallEvent records metadata about a single API call.
type CallEvent struct {
	Method   string
	Path     string
	Status   int
	Latency  time.Duration
	Attempts int
	Err      error
}

// Observer receives events about API calls for logging.
type Observer interface {
	OnCall(event CallEvent)
}

// LogObserver writes API call events through slog.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *LogObserver) OnCall(event CallEvent) {
	attrs := []any{
		"method", event.Method,
		"path", event.Path,
		"status", event.Status,
		"latency_ms", event.Latency.Milliseconds(),
		"attempts", event.Attempts,
	}
	if event.Err != nil {
		attrs = append(attrs, "kind", string(domain.KindOf(event.Err)), "error", event.Err.Error())
		o.logger.Error("api_call", attrs...)
		return
	}
	o.logger.Info("api_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCall(CallEvent) {}
