package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Record attribute keys added by TracingHandler.
const (
	attrTraceID  = "trace_id"
	attrSpanID   = "span_id"
	attrService  = "service"
	attrMode     = "mode"
	attrDocument = "document"
)

type documentKey struct{}

// WithDocument returns a context whose log records name the document being
// converted.
func WithDocument(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, documentKey{}, name)
}

// DocumentFrom returns the document named by WithDocument.
func DocumentFrom(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(documentKey{}).(string)

	return name, ok && name != ""
}

// TracingHandler is an [slog.Handler] that stamps records with the active
// span and the document in context. Service and mode are attached once, at
// the top level, so groups opened later do not nest them.
type TracingHandler struct {
	next slog.Handler
}

// NewTracingHandler wraps next.
func NewTracingHandler(next slog.Handler, service string, mode AppMode) *TracingHandler {
	return &TracingHandler{next: next.WithAttrs([]slog.Attr{
		slog.String(attrService, service),
		slog.String(attrMode, string(mode)),
	})}
}

func (h *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	if name, ok := DocumentFrom(ctx); ok {
		record.AddAttrs(slog.String(attrDocument, name))
	}

	if err := h.next.Handle(ctx, record); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

func (h *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{next: h.next.WithAttrs(attrs)}
}

func (h *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{next: h.next.WithGroup(name)}
}
