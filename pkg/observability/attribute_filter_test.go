package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/sfcshift/pkg/observability"
)

func TestAttributeFilter(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(observability.NewAttributeFilter(recorder, nil)))

	_, span := tp.Tracer("test").Start(context.Background(), "convert")
	span.SetAttributes(
		attribute.String("sfcshift.document", "Card.vue"),
		attribute.String("mcp.tool", "sfc_convert"),
		attribute.Bool("error", true),
		attribute.String("source", "<template/>"),
		attribute.String("user.email", "a@b.c"),
	)
	span.End()

	require.NoError(t, tp.ForceFlush(context.Background()))
	require.NoError(t, tp.Shutdown(context.Background()))

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	keys := make([]string, 0, len(spans[0].Attributes()))
	for _, kv := range spans[0].Attributes() {
		keys = append(keys, string(kv.Key))
	}

	assert.ElementsMatch(t, []string{"sfcshift.document", "mcp.tool", "error"}, keys)
}
