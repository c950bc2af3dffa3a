// Package scheduler plans and drives builds over the target dependency
// graph. It flattens the graph into waves, decides per-target staleness,
// renders and executes build steps, and records what a successful build
// consumed so future invocations can skip unchanged work.
package scheduler

import (
	"context"
	"strings"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scheduler executes build plans for one invocation. It is constructed per
// invocation, around the configuration and reporter of that run.
type Scheduler struct {
	targets  *domain.TargetSet
	cfg      domain.BuildConfig
	cache    ports.StalenessCache
	runner   ports.Runner
	fetcher  ports.Fetcher
	images   ports.ImageInspector
	tracer   ports.Tracer
	reporter ports.Reporter
	logger   ports.Logger
}

// NewScheduler creates a Scheduler for one build invocation.
func NewScheduler(
	targets *domain.TargetSet,
	cfg domain.BuildConfig,
	cache ports.StalenessCache,
	runner ports.Runner,
	fetcher ports.Fetcher,
	images ports.ImageInspector,
	tracer ports.Tracer,
	reporter ports.Reporter,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		targets:  targets,
		cfg:      cfg,
		cache:    cache,
		runner:   runner,
		fetcher:  fetcher,
		images:   images,
		tracer:   tracer,
		reporter: reporter,
		logger:   logger,
	}
}

// Plan resolves the dependency tree under root and flattens it into waves,
// pairing every planned target with its own staleness verdict. Dependency
// effects are not part of the verdict; they are decided at build time, after
// the dependencies of a wave member have actually run.
func (s *Scheduler) Plan(ctx context.Context, root domain.InternedString) (domain.Plan, error) {
	tree, err := BuildTree(s.targets, root, s.cfg)
	if err != nil {
		return domain.Plan{}, err
	}

	plan := domain.Plan{Root: root}
	for _, names := range Waves(tree) {
		wave := make(domain.Wave, 0, len(names))
		for _, name := range names {
			t, ok := s.targets.Get(name)
			if !ok {
				return domain.Plan{}, zerr.With(domain.ErrTargetNotFound, "target", name.String())
			}
			outdated, err := s.isOutdated(ctx, t)
			if err != nil {
				return domain.Plan{}, err
			}
			wave = append(wave, domain.PlannedTarget{Target: t, Outdated: outdated})
		}
		plan.Waves = append(plan.Waves, wave)
	}
	return plan, nil
}

// ShouldRebuild reports whether building root right now would run anything:
// true when any planned target is outdated on its own, or a dependency's
// last rebuild changed sources it consumes.
func (s *Scheduler) ShouldRebuild(ctx context.Context, root domain.InternedString) (bool, error) {
	plan, err := s.Plan(ctx, root)
	if err != nil {
		return false, err
	}
	for _, wave := range plan.Waves {
		for _, pt := range wave {
			if pt.Outdated {
				return true, nil
			}
			effect, err := s.depsHadEffect(pt.Target)
			if err != nil {
				return false, err
			}
			if effect {
				return true, nil
			}
		}
	}
	return false, nil
}

// Run executes the plan for root: waves strictly in order, members of one
// wave concurrently up to the configured job limit. A member whose own
// verdict is fresh still builds when a dependency's rebuild changed sources
// it consumes; otherwise it is skipped. The first failure aborts the run
// once the current wave settles.
func (s *Scheduler) Run(ctx context.Context, root domain.InternedString) error {
	if s.cfg.DryRun {
		s.logger.Warn("simulating build only; no commands are actually run")
	}

	unlock, err := s.cache.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	plan, err := s.Plan(ctx, root)
	if err != nil {
		return err
	}
	s.announce(plan)

	built, skipped := 0, 0
	var runErr error
	for _, wave := range plan.Waves {
		b, sk, err := s.runWave(ctx, wave)
		built += b
		skipped += sk
		if err != nil {
			runErr = err
			break
		}
	}

	s.reporter.OnRunDone(root.String(), built, skipped, runErr)
	return runErr
}

// announce emits the flattened plan to the reporter and the debug log. A
// trailing question mark in the log marks members that only build if a
// dependency effect triggers them.
func (s *Scheduler) announce(plan domain.Plan) {
	entries := make([]ports.PlanEntry, 0, plan.Targets())
	descs := make([]string, 0, plan.Targets())
	for _, wave := range plan.Waves {
		for _, pt := range wave {
			entries = append(entries, ports.PlanEntry{Name: pt.Target.Name.String(), Outdated: pt.Outdated})
			desc := "'" + pt.Target.Name.String() + "'"
			if !pt.Outdated {
				desc += "?"
			}
			descs = append(descs, desc)
		}
	}
	s.reporter.OnPlan(plan.Root.String(), entries)
	s.logger.Debug("to build: " + strings.Join(descs, ", "))
}

type waveResult struct {
	built   bool
	skipped bool
	err     error
}

// runWave builds the members of one wave concurrently, bounded by the
// configured job limit. Every member decides for itself whether it builds or
// skips; the wave settles before the first error is returned.
func (s *Scheduler) runWave(ctx context.Context, wave domain.Wave) (built, skipped int, err error) {
	jobs := s.cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}

	results := make([]waveResult, len(wave))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, pt := range wave {
		g.Go(func() error {
			if gctx.Err() != nil {
				// A sibling already failed; leave this member untouched.
				return nil
			}
			results[i] = s.runPlanned(gctx, pt)
			return results[i].err
		})
	}
	err = g.Wait()

	for _, res := range results {
		switch {
		case res.built:
			built++
		case res.skipped:
			skipped++
		}
	}
	return built, skipped, err
}

// runPlanned decides whether one wave member builds, and builds it.
func (s *Scheduler) runPlanned(ctx context.Context, pt domain.PlannedTarget) waveResult {
	if !pt.Outdated {
		effect, err := s.depsHadEffect(pt.Target)
		if err != nil {
			return waveResult{err: err}
		}
		if !effect {
			return waveResult{skipped: true}
		}
		s.logger.Debug("target is outdated: a dependency was rebuilt with relevant changes",
			"target", pt.Target.Name.String())
	}
	if err := s.buildTarget(ctx, pt.Target); err != nil {
		return waveResult{err: err}
	}
	return waveResult{built: true}
}

// buildTarget runs the steps of one target and, on success, records what it
// consumed and produced. Start and completion reach the reporter through the
// span lifecycle; per-step progress is reported directly.
func (s *Scheduler) buildTarget(ctx context.Context, t domain.Target) error {
	resolved, err := Resolve(s.targets, t, s.cfg)
	if err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, t.Name.String())
	defer span.End()

	steps, err := s.buildSteps(resolved)
	if err != nil {
		span.RecordError(err)
		return err
	}
	for _, step := range steps {
		if err := s.runStep(ctx, t.Name.String(), step); err != nil {
			span.RecordError(err)
			return err
		}
	}
	if s.cfg.DryRun {
		return nil
	}

	if err := s.recordBuilt(resolved); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// runStep reports and executes a single step. In dry-run mode the step is
// reported but not executed.
func (s *Scheduler) runStep(ctx context.Context, target string, step domain.Step) error {
	desc := step.Describe(s.cfg)
	s.reporter.OnStep(target, desc)
	if s.cfg.DryRun {
		return nil
	}

	switch st := step.(type) {
	case domain.ExecStep:
		code, err := s.runner.Run(ctx, st.Expand(s.cfg))
		if err != nil {
			s.reporter.OnStepFailed(target, desc, code)
			return &domain.StepError{Target: target, Code: code, Err: err}
		}
	case domain.FuncStep:
		if err := st.Run(ctx); err != nil {
			s.reporter.OnStepFailed(target, desc, 1)
			return &domain.StepError{Target: target, Code: 1, Err: err}
		}
	default:
		return zerr.With(zerr.New("unsupported step type"), "step", desc)
	}
	return nil
}

// recordBuilt persists the staleness facts of a successful build: digests of
// every consumed source, digests of every produced result, and a snapshot of
// the flags the target was built under.
func (s *Scheduler) recordBuilt(t domain.Target) error {
	for _, src := range s.cfg.ExpandAll(t.Sources) {
		if err := s.cache.Record(ports.FamilySources, src); err != nil {
			return err
		}
	}
	consumed, err := s.consumedDepPaths(t)
	if err != nil {
		return err
	}
	for _, src := range consumed {
		if err := s.cache.Record(ports.FamilySources, src); err != nil {
			return err
		}
	}
	for _, dst := range s.cfg.ExpandAll(t.Results) {
		if err := s.cache.Record(ports.FamilyResults, dst); err != nil {
			return err
		}
	}
	s.cache.RecordFlags(t.Name.String(), s.cfg.FlagValues())
	return nil
}

// consumedDepPaths expands the dependency-supplied sources of a target. An
// unfiltered entry counts as every result of that dependency.
func (s *Scheduler) consumedDepPaths(t domain.Target) ([]string, error) {
	var paths []string
	for _, ds := range t.DepSources {
		if ds.Paths != nil {
			paths = append(paths, s.cfg.ExpandAll(ds.Paths)...)
			continue
		}
		dep, ok := s.targets.Get(ds.Dep)
		if !ok {
			return nil, zerr.With(domain.ErrUnknownDependency, "dependency", ds.Dep.String())
		}
		resolved, err := Resolve(s.targets, dep, s.cfg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, s.cfg.ExpandAll(resolved.Results)...)
	}
	return paths, nil
}
