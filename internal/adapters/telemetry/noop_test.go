package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mason/internal/adapters/telemetry"
	"go.trai.ch/mason/internal/core/ports"
)

var (
	_ ports.Tracer = (*telemetry.OTelTracer)(nil)
	_ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	_ ports.Span   = (*telemetry.OTelSpan)(nil)
	_ ports.Span   = (*telemetry.NoOpSpan)(nil)
)

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	ctx := context.Background()
	gotCtx, span := tracer.Start(ctx, "anything", ports.WithAttribute("k", "v"))

	assert.Equal(t, ctx, gotCtx)
	assert.NotNil(t, span)
}

func TestNoOpSpan(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	_, span := tracer.Start(context.Background(), "anything")

	assert.NotPanics(t, func() {
		span.SetAttribute("key", "value")
		span.RecordError(assert.AnError)
		span.End()
	})
}
