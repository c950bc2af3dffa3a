package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/app"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// appMocks bundles every port the application is constructed over.
type appMocks struct {
	settings *mocks.MockSettingsLoader
	scanner  *mocks.MockManifestScanner
	hasher   *mocks.MockHasher
	runner   *mocks.MockRunner
	fetcher  *mocks.MockFetcher
	images   *mocks.MockImageInspector
	logger   *mocks.MockLogger
}

func newMocks(t *testing.T) appMocks {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := appMocks{
		settings: mocks.NewMockSettingsLoader(ctrl),
		scanner:  mocks.NewMockManifestScanner(ctrl),
		hasher:   mocks.NewMockHasher(ctrl),
		runner:   mocks.NewMockRunner(ctrl),
		fetcher:  mocks.NewMockFetcher(ctrl),
		images:   mocks.NewMockImageInspector(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	m.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Error(gomock.Any()).AnyTimes()
	return m
}

func (m appMocks) provider() ComponentProvider {
	application := app.New(m.settings, m.scanner, m.hasher, m.runner, m.fetcher, m.images, m.logger)
	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: m.logger}, func() {}, nil
	}
}

// pointAt roots the mocked workspace in dir: settings resolve there and
// manifest scanning yields no source directories.
func (m appMocks) pointAt(dir string) {
	m.settings.EXPECT().Load(".").Return(domain.Settings{
		Root:     dir,
		Version:  "1.0.0",
		CacheDir: ".mason",
		Jobs:     1,
	}, nil).AnyTimes()
	m.scanner.EXPECT().SourceDirs(gomock.Any()).Return(nil, nil).AnyTimes()
}

func discardStreams(a *app.App) {
	a.WithStreams(io.Discard, io.Discard)
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	m := newMocks(t)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, m.provider())
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	m := newMocks(t)
	m.settings.EXPECT().Load(".").Return(domain.Settings{}, errors.New("no workspace"))

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"build", "cli"}, stderr, m.provider(), discardStreams)

	assert.Equal(t, 1, exitCode)
}

// TestRun_StepFailure verifies that a failed build step sets the process exit
// code to the step's own exit code.
func TestRun_StepFailure(t *testing.T) {
	m := newMocks(t)
	m.pointAt(t.TempDir())
	m.runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(42, errors.New("exit status 42"))

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"build", "test-units"}, stderr, m.provider(), discardStreams)

	assert.Equal(t, 42, exitCode)
}

// TestRun_UpToDate verifies that should-rebuild answers through the exit
// code: 0 right after a change, 1 once everything is built.
func TestRun_UpToDate(t *testing.T) {
	m := newMocks(t)
	root := t.TempDir()
	m.pointAt(root)
	m.hasher.EXPECT().Hash(gomock.Any()).Return("digest", nil).AnyTimes()

	// Pretend to be the container engine: "docker save" produces the archive.
	m.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, step domain.ExecStep) (int, error) {
			if step.Program == "docker" && step.Args[0] == "save" {
				dest := filepath.Join(root, step.Args[2])
				require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o750))
				require.NoError(t, os.WriteFile(dest, []byte("image"), 0o600))
			}
			return 0, nil
		}).AnyTimes()

	stderr := new(bytes.Buffer)
	require.Equal(t, 0, run(context.Background(), []string{"build", "postgres-image"}, stderr, m.provider(), discardStreams))

	exitCode := run(context.Background(), []string{"should-rebuild", "postgres-image"}, stderr, m.provider(), discardStreams)
	assert.Equal(t, 1, exitCode)
}

// TestRun_Signal verifies that the context is canceled on signal.
func TestRun_Signal(t *testing.T) {
	m := newMocks(t)

	// A provider whose settings loader blocks until the context is done.
	blockCh := make(chan struct{})
	m.settings.EXPECT().Load(gomock.Any()).DoAndReturn(func(string) (domain.Settings, error) {
		select {
		case <-blockCh:
			return domain.Settings{}, context.Canceled
		case <-time.After(5 * time.Second):
			return domain.Settings{}, errors.New("timeout in mock")
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"build", "cli"}, io.Discard, m.provider(), discardStreams)
	}()

	// Wait a bit to ensure run() reaches Load()
	time.Sleep(100 * time.Millisecond)

	cancel()
	close(blockCh)

	select {
	case ret := <-errCh:
		assert.NotEqual(t, 0, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}
