package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// exportedPrefixes are the span attribute key prefixes that reach the
// exporter. Everything else is dropped.
var exportedPrefixes = []string{
	"sfcshift.",
	"mcp.",
	"error.",
	"exception.",
}

// attributeFilter is a SpanProcessor that drops attributes outside
// exportedPrefixes before handing spans to its delegate. Document sources
// and anything a library attaches on its own stay local.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	logger   *slog.Logger
}

// NewAttributeFilter wraps delegate. Dropped keys are logged at debug level
// when logger is non-nil.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, logger: logger}
}

func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s, filter: f})
}

func (f *attributeFilter) Shutdown(ctx context.Context) error {
	if err := f.delegate.Shutdown(ctx); err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	if err := f.delegate.ForceFlush(ctx); err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

func (f *attributeFilter) exported(key attribute.Key) bool {
	if key == "error" {
		return true
	}

	for _, prefix := range exportedPrefixes {
		if strings.HasPrefix(string(key), prefix) {
			return true
		}
	}

	if f.logger != nil {
		f.logger.Debug("span attribute dropped", "key", string(key))
	}

	return false
}

// filteredSpan is a read-only view of a span without the dropped attributes.
type filteredSpan struct {
	sdktrace.ReadOnlySpan

	filter *attributeFilter
}

func (s *filteredSpan) Attributes() []attribute.KeyValue {
	all := s.ReadOnlySpan.Attributes()
	kept := make([]attribute.KeyValue, 0, len(all))

	for _, kv := range all {
		if s.filter.exported(kv.Key) {
			kept = append(kept, kv)
		}
	}

	return kept
}
