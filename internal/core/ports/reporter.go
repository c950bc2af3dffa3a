package ports

import (
	"context"
	"time"
)

// PlanEntry is one planned target in execution order.
type PlanEntry struct {
	// Name is the target name.
	Name string
	// Outdated is the target's own staleness verdict, before dependency
	// effects are considered.
	Outdated bool
}

// Reporter is the abstraction for build progress output. It decouples the
// scheduler from presentation so the same events can drive a terminal
// renderer or a test recorder.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// Start initializes the reporter and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the reporter to flush any buffered output.
	Stop() error

	// Wait blocks until the reporter has fully terminated. For synchronous
	// reporters this returns immediately.
	Wait() error

	// OnPlan is called once per requested target after planning, with the
	// planned targets in execution order.
	OnPlan(root string, entries []PlanEntry)

	// OnTargetStart is called when a target begins building. Targets that
	// are skipped produce no events at all.
	OnTargetStart(name string)

	// OnStep is called just before a build step runs.
	// desc is the rendered command line or action description.
	OnStep(target, desc string)

	// OnStepFailed is called when a step fails; code is the process exit
	// code, or one when the step never started.
	OnStepFailed(target, desc string, code int)

	// OnTargetDone is called when a started target finishes.
	OnTargetDone(name string, took time.Duration, err error)

	// OnRunDone is called once per requested target after all waves have
	// settled.
	OnRunDone(root string, built, skipped int, err error)
}
