package ports

import (
	"context"

	"go.trai.ch/mason/internal/core/domain"
)

// Runner defines the interface for executing build commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// Run executes the step with inherited standard streams. The step must
	// already be expanded against the build configuration.
	//
	// The returned code is the process exit code. It is zero iff err is
	// nil; when the process could not be started at all the code is one.
	Run(ctx context.Context, step domain.ExecStep) (int, error)

	// Probe reports whether program responds to --version, discarding its
	// output. A nil error means the tool is usable; otherwise the error
	// explains why not.
	Probe(ctx context.Context, program string) error
}
