package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/sfcshift/pkg/observability"
)

// logOnce builds a JSON logger over a TracingHandler, lets emit write one
// record and returns it decoded.
func logOnce(t *testing.T, mode observability.AppMode, emit func(*slog.Logger)) map[string]any {
	t.Helper()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	emit(slog.New(observability.NewTracingHandler(inner, "sfcshift", mode)))

	record := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func spanContext(t *testing.T) context.Context {
	t.Helper()

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	return trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
}

func TestTracingHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode observability.AppMode
		emit func(*testing.T, *slog.Logger)
		want map[string]any
		none []string
	}{
		{
			name: "span in context",
			mode: observability.ModeCLI,
			emit: func(t *testing.T, l *slog.Logger) {
				t.Helper()
				l.InfoContext(spanContext(t), "converted")
			},
			want: map[string]any{
				"trace_id": "4bf92f3577b34da6a3ce929d0e0e4736",
				"span_id":  "00f067aa0ba902b7",
				"service":  "sfcshift",
				"mode":     "cli",
			},
			none: []string{"document"},
		},
		{
			name: "no span",
			mode: observability.ModeMCP,
			emit: func(_ *testing.T, l *slog.Logger) {
				l.InfoContext(context.Background(), "listening")
			},
			want: map[string]any{"service": "sfcshift", "mode": "mcp"},
			none: []string{"trace_id", "span_id"},
		},
		{
			name: "document in context",
			mode: observability.ModeWatch,
			emit: func(_ *testing.T, l *slog.Logger) {
				l.WarnContext(observability.WithDocument(context.Background(), "src/Card.vue"), "anomaly")
			},
			want: map[string]any{"document": "src/Card.vue", "mode": "watch"},
		},
		{
			name: "logger attributes",
			mode: observability.ModeCLI,
			emit: func(_ *testing.T, l *slog.Logger) {
				l.With(slog.String("path", "a.vue")).Info("started")
			},
			want: map[string]any{"path": "a.vue", "service": "sfcshift"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			record := logOnce(t, tt.mode, func(l *slog.Logger) { tt.emit(t, l) })

			for key, value := range tt.want {
				assert.Equal(t, value, record[key], key)
			}

			for _, key := range tt.none {
				assert.NotContains(t, record, key)
			}
		})
	}
}

func TestTracingHandler_GroupsKeepServiceOnTop(t *testing.T) {
	t.Parallel()

	record := logOnce(t, observability.ModeCLI, func(l *slog.Logger) {
		l.WithGroup("batch").Info("file", slog.String("kind", "routes"))
	})

	assert.Equal(t, "sfcshift", record["service"])

	batch, ok := record["batch"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "routes", batch["kind"])
}

func TestDocumentFrom(t *testing.T) {
	t.Parallel()

	_, ok := observability.DocumentFrom(context.Background())
	assert.False(t, ok)

	_, ok = observability.DocumentFrom(observability.WithDocument(context.Background(), ""))
	assert.False(t, ok)

	name, ok := observability.DocumentFrom(observability.WithDocument(context.Background(), "x.vue"))
	require.True(t, ok)
	assert.Equal(t, "x.vue", name)
}
