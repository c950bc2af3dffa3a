package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/adapters/shell"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newTestRunner(t *testing.T) *shell.Runner {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return shell.NewRunner(log)
}

func TestRunner_Run_Success(t *testing.T) {
	runner := newTestRunner(t)

	code, err := runner.Run(context.Background(), domain.ExecStep{
		Program: "sh",
		Args:    []string{"-c", "true"},
		Dir:     t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRunner_Run_PropagatesExitCode(t *testing.T) {
	runner := newTestRunner(t)

	code, err := runner.Run(context.Background(), domain.ExecStep{
		Program: "sh",
		Args:    []string{"-c", "exit 42"},
		Dir:     t.TempDir(),
	})
	require.Error(t, err)
	assert.Equal(t, 42, code)
	assert.Contains(t, err.Error(), "command failed")

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, 42, zErr.Metadata()["exit_code"])
}

func TestRunner_Run_CommandNotFound(t *testing.T) {
	runner := newTestRunner(t)

	code, err := runner.Run(context.Background(), domain.ExecStep{
		Program: "nonexistent-command-xyz123",
	})
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, err.Error(), "could not be started")
}

func TestRunner_Run_EnvironmentOverrides(t *testing.T) {
	runner := newTestRunner(t)
	tmpDir := t.TempDir()

	code, err := runner.Run(context.Background(), domain.ExecStep{
		Program: "sh",
		Args:    []string{"-c", `printf '%s' "$MASON_TEST_VAR" > out.txt`},
		Dir:     tmpDir,
		Env:     map[string]string{"MASON_TEST_VAR": "test-value-123"},
	})
	require.NoError(t, err)
	require.Equal(t, 0, code)

	out, err := os.ReadFile(filepath.Join(tmpDir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "test-value-123", string(out))
}

func TestRunner_Run_UnsetRemovesVariable(t *testing.T) {
	t.Setenv("MASON_TEST_UNSET", "still-here")

	runner := newTestRunner(t)
	tmpDir := t.TempDir()

	// ${VAR-fallback} substitutes the fallback only when VAR is truly unset,
	// not when it is empty.
	code, err := runner.Run(context.Background(), domain.ExecStep{
		Program: "sh",
		Args:    []string{"-c", `printf '%s' "${MASON_TEST_UNSET-gone}" > out.txt`},
		Dir:     tmpDir,
		Unset:   []string{"MASON_TEST_UNSET"},
	})
	require.NoError(t, err)
	require.Equal(t, 0, code)

	out, err := os.ReadFile(filepath.Join(tmpDir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "gone", string(out))
}

func TestRunner_Run_WorkingDirectory(t *testing.T) {
	runner := newTestRunner(t)
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "marker.txt"), []byte("m"), 0o600))

	code, err := runner.Run(context.Background(), domain.ExecStep{
		Program: "sh",
		Args:    []string{"-c", "test -f marker.txt"},
		Dir:     tmpDir,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRunner_Probe(t *testing.T) {
	runner := newTestRunner(t)
	tmpDir := t.TempDir()

	good := filepath.Join(tmpDir, "good-tool")
	require.NoError(t, os.WriteFile(good, []byte("#!/bin/sh\necho good-tool 1.0.0\n"), 0o700)) //nolint:gosec // test fixture must be executable

	broken := filepath.Join(tmpDir, "broken-tool")
	require.NoError(t, os.WriteFile(broken, []byte("#!/bin/sh\necho 'broken install' >&2\nexit 1\n"), 0o700)) //nolint:gosec // test fixture must be executable

	t.Run("available tool", func(t *testing.T) {
		require.NoError(t, runner.Probe(context.Background(), good))
	})

	t.Run("missing tool", func(t *testing.T) {
		err := runner.Probe(context.Background(), filepath.Join(tmpDir, "missing-tool"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tool cannot be run")
	})

	t.Run("failing tool reports its output", func(t *testing.T) {
		err := runner.Probe(context.Background(), broken)
		require.Error(t, err)

		zErr, ok := err.(*zerr.Error)
		require.True(t, ok, "expected *zerr.Error, got %T", err)
		assert.Equal(t, "broken install", zErr.Metadata()["output"])
	})
}
