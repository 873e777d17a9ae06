package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTracingTest(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func TestStartAndEndOk(t *testing.T) {
	exporter := setupTracingTest(t)

	ctx, span := Start(context.Background(), "lifecycle.register", "event.id", "e-1", "student.id", "s-1", "dangling")
	Event(ctx, "registration.created", "registration.id", "r-1")
	End(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "lifecycle.register", s.Name)
	assert.Equal(t, codes.Ok, s.Status.Code)
	assert.Contains(t, s.Attributes, attribute.String("event.id", "e-1"))
	assert.Contains(t, s.Attributes, attribute.String("student.id", "s-1"))
	assert.Len(t, s.Attributes, 2)
	require.Len(t, s.Events, 1)
	assert.Equal(t, "registration.created", s.Events[0].Name)
}

func TestEndRecordsError(t *testing.T) {
	exporter := setupTracingTest(t)

	_, span := Start(context.Background(), "lifecycle.checkin")
	End(span, errors.New("already checked in"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "already checked in", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestEndNilSpan(t *testing.T) {
	assert.NotPanics(t, func() { End(nil, nil) })
}
