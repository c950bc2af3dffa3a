// Package shell runs build commands through os/exec.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.Runner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run executes the step's command with the inherited standard streams, so
// compiler and container tooling output lands on the caller's terminal
// unmodified. The environment is merged with the following priority
// (low to high):
// 1. os.Environ() (system base, minus step.Unset entries)
// 2. step.Env (step overrides)
//
// The returned int is the command's exit code; it is 1 when the process
// could not be started at all.
func (r *Runner) Run(ctx context.Context, step domain.ExecStep) (int, error) {
	name := step.Program
	env := mergeEnvironment(os.Environ(), step.Env, step.Unset)

	// Resolve the executable against the merged environment's PATH, so a
	// PATH override in the step is honored.
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, step.Args...) //nolint:gosec // target-provided command
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	if step.Dir != "" {
		cmd.Dir = step.Dir
	}
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				// Killed by a signal; there is no exit code to forward.
				code = 1
			}
			return code, zerr.With(zerr.With(zerr.Wrap(err, "command failed"),
				"program", name), "exit_code", code)
		}
		return 1, zerr.With(zerr.Wrap(err, "command could not be started"), "program", name)
	}

	return 0, nil
}

// Probe checks that a tool is usable by asking it for its version. The
// combined output is captured, not forwarded, and is attached to the
// returned error so the caller can explain why the tool is unavailable.
func (r *Runner) Probe(ctx context.Context, program string) error {
	cmd := exec.CommandContext(ctx, program, "--version")

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "tool cannot be run"),
			"program", program), "output", strings.TrimSpace(output.String()))
	}
	r.logger.Debug("tool is available", "program", program, "version", firstLine(output.String()))
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// mergeEnvironment merges environment variables with the defined priority.
// Names listed in unset are removed from the base environment.
func mergeEnvironment(sysEnv []string, overrides map[string]string, unset []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for _, k := range unset {
		delete(envMap, k)
	}

	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of the given environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

var _ ports.Runner = (*Runner)(nil)
