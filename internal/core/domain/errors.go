package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrTargetAlreadyExists is returned when a target set is constructed with two targets sharing a name.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrTargetNotFound is returned when a requested target name is not in the target set.
	ErrTargetNotFound = zerr.New("unknown target")

	// ErrUnknownDependency is returned when a target declares a dependency that is not in the target set.
	ErrUnknownDependency = zerr.New("unknown dependency")

	// ErrCyclicDependency is returned when a target depends, directly or transitively, on itself.
	ErrCyclicDependency = zerr.New("cyclic dependency detected")

	// ErrUnknownSelectorValue is returned when a redirect target's selector value has no mapped choice.
	ErrUnknownSelectorValue = zerr.New("no target mapped to selector value")

	// ErrUnknownSelectorOption is returned when a redirect target switches on an unrecognized option name.
	ErrUnknownSelectorOption = zerr.New("unknown selector option")

	// ErrResultNotProduced is returned when an effect check names a file the target does not produce.
	ErrResultNotProduced = zerr.New("target does not produce file")

	// ErrUnknownArch is returned when an architecture string cannot be canonicalized.
	ErrUnknownArch = zerr.New("unknown architecture")

	// ErrUnknownOS is returned when an operating system string cannot be canonicalized.
	ErrUnknownOS = zerr.New("unknown operating system")

	// ErrCacheEscape is returned when a computed cache entry path escapes the cache root.
	ErrCacheEscape = zerr.New("cache entry path escapes the cache root")

	// ErrCacheLockFailed is returned when the cache root lock cannot be acquired.
	ErrCacheLockFailed = zerr.New("failed to lock cache root")

	// ErrManifestParseFailed is returned when a dependency manifest contains parse errors.
	ErrManifestParseFailed = zerr.New("manifest contains errors")

	// ErrStepFailed is returned when an external build command exits nonzero.
	ErrStepFailed = zerr.New("build step failed")

	// ErrBuildFailed is returned when a build run aborts before completing every wave.
	ErrBuildFailed = zerr.New("build failed")

	// ErrDownloadBadStatus is returned when the asset server answers with a non-OK status.
	ErrDownloadBadStatus = zerr.New("server returned non-OK status")

	// ErrImageManifestMissing is returned when an image archive has no manifest entry.
	ErrImageManifestMissing = zerr.New("image archive has no manifest")

	// ErrImageDigestMalformed is returned when an image config reference is not a blob digest.
	ErrImageDigestMalformed = zerr.New("malformed image config digest")

	// ErrImageNotLoaded is returned when a tag is not present in the local image engine.
	ErrImageNotLoaded = zerr.New("image not loaded")

	// ErrWatchFailed is returned when the source watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch sources")

	// ErrInspectAmbiguous is returned when an inspection is requested for more than one target.
	ErrInspectAmbiguous = zerr.New("give exactly one target")

	// ErrUpToDate is returned by the rebuild check when nothing would build.
	ErrUpToDate = zerr.New("target is up to date")
)

// StepError reports one failed build step and carries the exit code the
// process should terminate with. Matching ErrStepFailed via errors.Is still
// works through Unwrap.
type StepError struct {
	Target string
	Code   int
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("build step of target '%s' failed with exit code %d", e.Target, e.Code)
}

// Unwrap exposes the step-failure sentinel alongside the underlying cause.
func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStepFailed}
	}
	return []error{ErrStepFailed, e.Err}
}
