package otel_test

import (
	"context"
	"errors"
	"expo/infras/otel"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func record(t *testing.T, fn func(scope otel.Scope)) sdktrace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "span")
	scope := otel.NewScope(span)
	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func TestScope_SetAttributes(t *testing.T) {
	closing := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	span := record(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{
			"exhibition.title":    "Monet",
			"exhibition.priority": 4,
			"exhibition.images":   []string{"a", "b"},
			"exhibition.progress": 0.5,
			"exhibition.complete": true,
			"exhibition.ends":     closing,
			"exhibition.bytes":    int64(1024),
		})
	})

	got := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		got[kv.Key] = kv.Value
	}

	assert.Equal(t, "Monet", got["exhibition.title"].AsString())
	assert.Equal(t, int64(4), got["exhibition.priority"].AsInt64())
	assert.Equal(t, []string{"a", "b"}, got["exhibition.images"].AsStringSlice())
	assert.InDelta(t, 0.5, got["exhibition.progress"].AsFloat64(), 0.0001)
	assert.True(t, got["exhibition.complete"].AsBool())
	assert.Equal(t, "2024-09-01T00:00:00Z", got["exhibition.ends"].AsString())
	assert.Equal(t, int64(1024), got["exhibition.bytes"].AsInt64())
}

func TestScope_TraceIfError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
	}{
		{name: "nil leaves status unset", err: nil, wantStatus: codes.Unset},
		{name: "error marks span", err: errors.New("db down"), wantStatus: codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := record(t, func(scope otel.Scope) {
				scope.TraceIfError(tt.err)
			})

			assert.Equal(t, tt.wantStatus, span.Status().Code)
		})
	}
}
