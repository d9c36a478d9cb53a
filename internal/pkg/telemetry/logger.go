// Package telemetry wires structured logging and tracing for the process.
// Logs are JSON on stderr; every record written with a context that carries
// an active OpenTelemetry span is stamped with trace_id and span_id so a log
// line can be joined with its distributed trace.
package telemetry

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// ContextHandler decorates an inner slog.Handler with the tracing
// identifiers found in the record's context.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler wraps h so every record gets trace attributes.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{inner: h}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs keeps the decoration on derived loggers, so slog.With(...) does
// not silently drop trace stamping.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}

// InitLogger installs the process-wide slog default: JSON on stderr, info
// level, trace-decorated, tagged with the service name.
func InitLogger(serviceName string) {
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(NewContextHandler(jsonHandler)).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(logger)
}
