package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/mason/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor to forward span lifecycle events
// to the build reporter. Each span corresponds to one target build.
type Bridge struct {
	reporter ports.Reporter
}

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// NewBridge returns a new Bridge reporting to the given reporter.
func NewBridge(reporter ports.Reporter) *Bridge {
	return &Bridge{
		reporter: reporter,
	}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.reporter == nil {
		return
	}

	if !s.SpanContext().IsValid() {
		return
	}

	b.reporter.OnTargetStart(s.Name())
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.reporter == nil {
		return
	}

	if !s.SpanContext().IsValid() {
		return
	}

	took := s.EndTime().Sub(s.StartTime())

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "task failed"
		}
		err = errors.New(desc)
	}

	b.reporter.OnTargetDone(s.Name(), took, err)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(ctx context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(ctx context.Context) error {
	return nil
}
