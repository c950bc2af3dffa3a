// Package report renders build progress as linear, chronological output.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/ui/output"
	"go.trai.ch/mason/internal/ui/style"
)

// Reporter implements ports.Reporter as a synchronous line renderer.
// Step commands inherit the caller's streams, so the reporter only frames
// their output: plan lines, step announcements and per-target verdicts.
type Reporter struct {
	stdout io.Writer
	stderr io.Writer
	out    *termenv.Output

	mu sync.Mutex
}

// NewReporter creates a Reporter writing progress to the given streams.
func NewReporter(stdout, stderr io.Writer) *Reporter {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Reporter{
		stdout: stdout,
		stderr: stderr,
		out:    output.New(stderr),
	}
}

var _ ports.Reporter = (*Reporter)(nil)

// Start is a no-op for the synchronous reporter.
func (r *Reporter) Start(_ context.Context) error {
	return nil
}

// Stop is a no-op; nothing is buffered.
func (r *Reporter) Stop() error {
	return nil
}

// Wait is a no-op for the synchronous reporter.
func (r *Reporter) Wait() error {
	return nil
}

// OnPlan prints the planned jobs in execution order. A target that is not
// yet known to be outdated is marked with a trailing "?": it only builds if
// one of its dependencies turns out to have had an effect.
func (r *Reporter) OnPlan(root string, entries []ports.PlanEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(entries) == 0 {
		_, _ = fmt.Fprintf(r.stderr, "Nothing to build for target %s\n", r.accent(root))
		return
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := "'" + entry.Name + "'"
		if !entry.Outdated {
			name += style.Query
		}
		names = append(names, name)
	}

	_, _ = fmt.Fprintf(r.stderr, "Planning to build %d job(s) for target %s: %s\n",
		len(entries), r.accent(root), strings.Join(names, ", "))
}

// OnTargetStart prints a start marker for a target.
func (r *Reporter) OnTargetStart(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", r.prefix(name))
}

// OnStep announces the command a target is about to run.
func (r *Reporter) OnStep(target, desc string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	styled := r.out.String(desc).Bold().String()
	_, _ = fmt.Fprintf(r.stdout, "%s > %s\n", r.prefix(target), styled)
}

// OnStepFailed reports a failed step. The step's own output has already
// reached the user's terminal through the inherited streams.
func (r *Reporter) OnStepFailed(target, desc string, code int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	styled := r.out.String(desc).Foreground(termenv.RGBColor(string(style.Red))).Bold().String()
	_, _ = fmt.Fprintf(r.stderr, "\n%s Job '%s' failed with exit code %d. See output above.\n\n",
		r.prefix(target), styled, code)
}

// OnTargetDone prints the per-target verdict.
func (r *Reporter) OnTargetDone(name string, took time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		symbol := r.out.String(style.Cross).Foreground(termenv.RGBColor(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v\n", r.prefix(name), symbol, took)
		return
	}

	symbol := r.out.String(style.Check).Foreground(termenv.RGBColor(string(style.Green))).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", r.prefix(name), symbol, took)
}

// OnRunDone prints the overall verdict for one requested target.
func (r *Reporter) OnRunDone(root string, built, skipped int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		symbol := r.out.String(style.Cross).Foreground(termenv.RGBColor(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s Build of target %s failed\n", symbol, r.accent(root))
		return
	}

	symbol := r.out.String(style.Check).Foreground(termenv.RGBColor(string(style.Green))).String()
	if built == 0 {
		_, _ = fmt.Fprintf(r.stderr, "%s Target %s is up to date\n", symbol, r.accent(root))
		return
	}

	suffix := ""
	if skipped > 0 {
		suffix = fmt.Sprintf(" (%d skipped)", skipped)
	}
	_, _ = fmt.Fprintf(r.stderr, "%s Built %d job(s) for target %s%s\n", symbol, built, r.accent(root), suffix)
}

// prefix renders the faint "[name]" attribution marker.
func (r *Reporter) prefix(name string) string {
	return r.out.String("[" + name + "]").Faint().String()
}

// accent renders a quoted target name in the brand color.
func (r *Reporter) accent(name string) string {
	return r.out.String("'" + name + "'").Foreground(termenv.RGBColor(string(style.Ochre))).String()
}
