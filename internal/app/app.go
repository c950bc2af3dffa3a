// Package app implements the application layer for mason.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/mason/internal/adapters/cas"
	"go.trai.ch/mason/internal/adapters/report"
	"go.trai.ch/mason/internal/adapters/telemetry"
	"go.trai.ch/mason/internal/adapters/watcher"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// watchDebounce is how long the watch loop waits after the last filesystem
// event before kicking off a rebuild.
const watchDebounce = 300 * time.Millisecond

// TargetSource produces the target catalog for a workspace. The workspace
// root is the directory holding the settings file; scan is available for
// sources discovered from crate manifests.
type TargetSource func(root string, scan ports.ManifestScanner) (*domain.TargetSet, error)

// Options carries the per-invocation knobs of the CLI. Zero values fall back
// to the workspace settings (or the host platform).
type Options struct {
	Dev           bool
	Download      bool
	Containerized bool
	Force         bool
	DryRun        bool
	Debug         bool

	OS       string
	Arch     string
	Version  string
	CacheDir string
	Jobs     int
}

// App represents the main application logic.
type App struct {
	settings ports.SettingsLoader
	scanner  ports.ManifestScanner
	hasher   ports.Hasher
	runner   ports.Runner
	fetcher  ports.Fetcher
	images   ports.ImageInspector
	logger   ports.Logger

	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance.
func New(
	settings ports.SettingsLoader,
	scanner ports.ManifestScanner,
	hasher ports.Hasher,
	runner ports.Runner,
	fetcher ports.Fetcher,
	images ports.ImageInspector,
	log ports.Logger,
) *App {
	return &App{
		settings: settings,
		scanner:  scanner,
		hasher:   hasher,
		runner:   runner,
		fetcher:  fetcher,
		images:   images,
		logger:   log,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// WithStreams redirects build output away from the process streams.
// This is primarily used for testing.
func (a *App) WithStreams(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// Build compiles each named target in order, honoring the staleness cache.
// The first failing step aborts the run and is returned as a
// *domain.StepError carrying its exit code.
func (a *App) Build(ctx context.Context, source TargetSource, names []string, opts Options) error {
	cfg, set, err := a.assemble(source, opts)
	if err != nil {
		return err
	}

	run := uuid.NewString()
	a.logger.Debug("starting build run", "run", run[:8], "targets", strings.Join(names, ", "))

	sched, reporter, shutdown, err := a.newScheduler(set, cfg)
	if err != nil {
		return err
	}
	defer shutdown(ctx)

	if err := reporter.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = reporter.Stop()
		_ = reporter.Wait()
	}()

	for _, name := range names {
		if err := sched.Run(ctx, domain.NewInternedString(name)); err != nil {
			return err
		}
	}
	return nil
}

// Watch builds the named targets, then rebuilds them whenever a file under
// one of their source directories changes. It blocks until ctx is cancelled.
func (a *App) Watch(ctx context.Context, source TargetSource, names []string, opts Options) error {
	cfg, set, err := a.assemble(source, opts)
	if err != nil {
		return err
	}

	run := uuid.NewString()
	a.logger.Debug("starting watch run", "run", run[:8], "targets", strings.Join(names, ", "))

	sched, reporter, shutdown, err := a.newScheduler(set, cfg)
	if err != nil {
		return err
	}
	defer shutdown(ctx)

	if err := reporter.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = reporter.Stop()
		_ = reporter.Wait()
	}()

	rebuild := func() {
		for _, name := range names {
			if err := sched.Run(ctx, domain.NewInternedString(name)); err != nil {
				// Keep watching; the failure has already been reported.
				a.logger.Error(err)
				return
			}
		}
	}
	rebuild()

	roots, err := a.watchRoots(set, cfg, names)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return zerr.With(domain.ErrWatchFailed, "reason", "no source directories to watch")
	}

	w, err := watcher.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create filesystem watcher")
	}
	if err := w.Start(ctx, roots); err != nil {
		return err
	}
	defer w.Stop()

	changes := make(chan []string, 1)
	debounce := watcher.NewDebouncer(watchDebounce, func(paths []string) {
		select {
		case changes <- paths:
		default:
		}
	})
	defer debounce.Flush()
	go func() {
		for event := range w.Events() {
			debounce.Add(event.Path)
		}
	}()

	a.logger.Info("watching for changes", "roots", len(roots))
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			a.logger.Info("sources changed; rebuilding", "changes", len(paths))
			rebuild()
		}
	}
}

// ShouldRebuild reports whether building name would run at least one target,
// i.e. whether any planned target is outdated or has dependencies whose
// rebuild had an effect.
func (a *App) ShouldRebuild(ctx context.Context, source TargetSource, name string, opts Options) (bool, error) {
	cfg, set, err := a.assemble(source, opts)
	if err != nil {
		return false, err
	}

	sched, _, shutdown, err := a.newScheduler(set, cfg)
	if err != nil {
		return false, err
	}
	defer shutdown(ctx)

	return sched.ShouldRebuild(ctx, domain.NewInternedString(name))
}

// TargetStatus describes one catalog entry in a Listing.
type TargetStatus struct {
	Name        string
	Kind        string
	Description string
	// Reason is why the target cannot be built here; empty when supported.
	Reason string
}

// Listing is the result of List: the described targets of the catalog, split
// by whether the host has the tools to build them.
type Listing struct {
	Supported   []TargetStatus
	Unsupported []TargetStatus
}

// List returns all targets that carry a description, probing each one's
// toolchain to decide support. Undescribed targets are internal and hidden.
func (a *App) List(ctx context.Context, source TargetSource, opts Options) (Listing, error) {
	cfg, set, err := a.assemble(source, opts)
	if err != nil {
		return Listing{}, err
	}

	var listing Listing
	for target := range set.Walk() {
		if target.Description == "" {
			continue
		}
		status := TargetStatus{
			Name:        target.Name.String(),
			Kind:        target.Kind.Kind(),
			Description: target.Description,
		}
		if err := scheduler.Support(ctx, set, target, cfg, a.runner); err != nil {
			status.Reason = supportReason(err)
			listing.Unsupported = append(listing.Unsupported, status)
		} else {
			listing.Supported = append(listing.Supported, status)
		}
	}
	slices.SortFunc(listing.Supported, compareStatus)
	slices.SortFunc(listing.Unsupported, compareStatus)
	return listing, nil
}

func compareStatus(a, b TargetStatus) int {
	return strings.Compare(a.Name, b.Name)
}

// Inspection is the result of Inspect: everything the CLI shows about a
// single target.
type Inspection struct {
	Name        string
	Kind        string
	Description string
	Sources     []string
	Results     []string
	Supported   bool
	// Reason is why the target cannot be built here; empty when supported.
	Reason string
	Tree   domain.DependencyNode
}

// Inspect resolves a single target and reports its kind, expanded sources
// and results, support status and full dependency tree.
func (a *App) Inspect(ctx context.Context, source TargetSource, name string, opts Options) (Inspection, error) {
	cfg, set, err := a.assemble(source, opts)
	if err != nil {
		return Inspection{}, err
	}

	target, ok := set.Get(domain.NewInternedString(name))
	if !ok {
		return Inspection{}, zerr.With(domain.ErrTargetNotFound, "target", name)
	}

	resolved, err := scheduler.Resolve(set, target, cfg)
	if err != nil {
		return Inspection{}, err
	}
	tree, err := scheduler.BuildTree(set, target.Name, cfg)
	if err != nil {
		return Inspection{}, err
	}

	inspection := Inspection{
		Name:        target.Name.String(),
		Kind:        resolved.Kind.Kind(),
		Description: target.Description,
		Sources:     cfg.ExpandAll(resolved.Sources),
		Results:     cfg.ExpandAll(resolved.Results),
		Supported:   true,
		Tree:        tree,
	}
	if err := scheduler.Support(ctx, set, target, cfg, a.runner); err != nil {
		inspection.Supported = false
		inspection.Reason = supportReason(err)
	}
	return inspection, nil
}

// Clean removes the staleness cache of the workspace.
func (a *App) Clean(_ context.Context, opts Options) error {
	cfg, err := a.configure(opts)
	if err != nil {
		return err
	}

	cache := cfg.CacheDir
	if !filepath.IsAbs(cache) {
		cache = filepath.Join(cfg.WorkDir, cache)
	}

	a.logger.Info("removing staleness cache...", "path", cache)
	if err := os.RemoveAll(cache); err != nil {
		return zerr.Wrap(err, "failed to remove staleness cache")
	}
	a.logger.Info("removed staleness cache")
	return nil
}

// configure loads the workspace settings and merges the invocation options
// over them.
func (a *App) configure(opts Options) (domain.BuildConfig, error) {
	workspace, err := a.settings.Load(".")
	if err != nil {
		return domain.BuildConfig{}, zerr.Wrap(err, "failed to load workspace settings")
	}

	targetOS, err := domain.HostOS()
	if err != nil {
		return domain.BuildConfig{}, err
	}
	if opts.OS != "" {
		if targetOS, err = domain.ParseOS(opts.OS); err != nil {
			return domain.BuildConfig{}, err
		}
	}
	arch, err := domain.HostArch()
	if err != nil {
		return domain.BuildConfig{}, err
	}
	if opts.Arch != "" {
		if arch, err = domain.ParseArch(opts.Arch); err != nil {
			return domain.BuildConfig{}, err
		}
	}

	cfg := domain.BuildConfig{
		OS:            targetOS,
		Arch:          arch,
		Dev:           opts.Dev,
		Download:      opts.Download,
		Containerized: opts.Containerized,
		Force:         opts.Force,
		DryRun:        opts.DryRun,
		Version:       workspace.Version,
		CacheDir:      workspace.CacheDir,
		WorkDir:       workspace.Root,
		Jobs:          workspace.Jobs,
	}
	if opts.Version != "" {
		cfg.Version = opts.Version
	}
	if opts.CacheDir != "" {
		cfg.CacheDir = opts.CacheDir
	}
	if opts.Jobs > 0 {
		cfg.Jobs = opts.Jobs
	}

	// Dry runs exist to show what would happen, so force the reasons on.
	if opts.Debug || opts.DryRun {
		if debuggable, ok := a.logger.(interface{ SetDebug(bool) }); ok {
			debuggable.SetDebug(true)
		}
	}

	return cfg, nil
}

// assemble configures the invocation and materializes the target catalog.
func (a *App) assemble(source TargetSource, opts Options) (domain.BuildConfig, *domain.TargetSet, error) {
	cfg, err := a.configure(opts)
	if err != nil {
		return domain.BuildConfig{}, nil, err
	}

	set, err := source(cfg.WorkDir, a.scanner)
	if err != nil {
		return domain.BuildConfig{}, nil, zerr.Wrap(err, "failed to load target catalog")
	}
	if err := set.Validate(); err != nil {
		return domain.BuildConfig{}, nil, err
	}
	return cfg, set, nil
}

// newScheduler wires the per-invocation pieces: the reporter that narrates
// the build, the OTel bridge that feeds it, the staleness cache and the
// scheduler itself.
func (a *App) newScheduler(set *domain.TargetSet, cfg domain.BuildConfig) (*scheduler.Scheduler, ports.Reporter, func(context.Context), error) {
	reporter := report.NewReporter(a.stdout, a.stderr)

	// Route every span started through otel.Tracer to the reporter.
	bridge := telemetry.NewBridge(reporter)
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	otel.SetTracerProvider(provider)
	tracer := telemetry.NewOTelTracer("mason")

	cache, err := cas.NewCache(cfg.CacheDir, cfg.WorkDir, a.hasher, a.logger)
	if err != nil {
		return nil, nil, nil, err
	}

	sched := scheduler.NewScheduler(set, cfg, cache, a.runner, a.fetcher, a.images, tracer, reporter, a.logger)
	shutdown := func(ctx context.Context) {
		_ = provider.Shutdown(ctx)
	}
	return sched, reporter, shutdown, nil
}

// watchRoots collects the directories holding the sources of the named
// targets and everything they depend on.
func (a *App) watchRoots(set *domain.TargetSet, cfg domain.BuildConfig, names []string) ([]string, error) {
	seen := make(map[string]struct{})
	var roots []string

	add := func(path string) {
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.WorkDir, path)
		}
		dir := filepath.Dir(path)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			dir = path
		}
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		roots = append(roots, dir)
	}

	for _, name := range names {
		tree, err := scheduler.BuildTree(set, domain.NewInternedString(name), cfg)
		if err != nil {
			return nil, err
		}
		for _, member := range tree.Flatten() {
			target, ok := set.Get(member)
			if !ok {
				continue
			}
			resolved, err := scheduler.Resolve(set, target, cfg)
			if err != nil {
				return nil, err
			}
			for _, src := range cfg.ExpandAll(resolved.Sources) {
				add(src)
			}
		}
	}

	slices.Sort(roots)
	return roots, nil
}

// supportReason renders a support-probe error for display.
func supportReason(err error) string {
	return strings.TrimSpace(err.Error())
}
