package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// isOutdated decides a target's own staleness verdict, without considering
// dependency effects. The checks run cheapest first: forced rebuild, changed
// sources, missing results, changed flags, then the kind-specific rule.
func (s *Scheduler) isOutdated(ctx context.Context, t domain.Target) (bool, error) {
	t, err := Resolve(s.targets, t, s.cfg)
	if err != nil {
		return false, err
	}

	if s.cfg.Force {
		s.logger.Debug("target is outdated: rebuild was forced", "target", t.Name.String())
		return true, nil
	}
	for _, src := range s.cfg.ExpandAll(t.Sources) {
		changed, err := s.cache.Changed(ports.FamilySources, src)
		if err != nil {
			return false, err
		}
		if changed {
			s.logger.Debug("target is outdated: source never consumed or changed since the last build",
				"target", t.Name.String(), "source", src)
			return true, nil
		}
	}
	for _, dst := range s.cfg.ExpandAll(t.Results) {
		if _, err := os.Stat(s.workPath(dst)); err != nil {
			s.logger.Debug("target is outdated: result file missing",
				"target", t.Name.String(), "result", dst)
			return true, nil
		}
	}
	if s.cache.FlagsChanged(t.Name.String(), s.cfg.FlagValues()) {
		s.logger.Debug("target is outdated: never built before or built with different flags",
			"target", t.Name.String())
		return true, nil
	}
	return s.kindOutdated(ctx, t)
}

// workPath anchors a relative path at the workspace root.
func (s *Scheduler) workPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.cfg.WorkDir, path)
}

// kindOutdated applies the variant-specific staleness rule. Variants without
// one are up to date once the shared checks pass.
func (s *Scheduler) kindOutdated(ctx context.Context, t domain.Target) (bool, error) {
	switch kind := t.Kind.(type) {
	case domain.ShellKind:
		s.logger.Debug("target is outdated: it runs arbitrary commands", "target", t.Name.String())
		return true, nil
	case domain.CrateKind:
		s.logger.Debug("target is outdated: staleness is left to the toolchain", "target", t.Name.String())
		return true, nil
	case domain.DownloadKind:
		s.logger.Debug("target is outdated: nothing is known about the asset before downloading",
			"target", t.Name.String())
		return true, nil
	case domain.ImageInstallKind:
		return s.imageOutdated(ctx, t, kind)
	default:
		return false, nil
	}
}

// imageOutdated compares the digest embedded in the image archive against
// the digest the local engine has loaded under the tag. Either side being
// unreadable conservatively counts as outdated.
func (s *Scheduler) imageOutdated(ctx context.Context, t domain.Target, kind domain.ImageInstallKind) (bool, error) {
	archive := s.cfg.Expand(kind.Archive)
	want, err := s.images.ArchiveDigest(archive)
	if err != nil {
		s.logger.Debug("target is outdated: image archive digest is unreadable",
			"target", t.Name.String(), "archive", archive, "error", err)
		return true, nil
	}
	tag := s.cfg.Expand(kind.Tag)
	have, err := s.images.LoadedDigest(ctx, tag)
	if err != nil {
		if errors.Is(err, domain.ErrImageNotLoaded) {
			s.logger.Debug("target is outdated: image is not loaded",
				"target", t.Name.String(), "tag", tag)
			return true, nil
		}
		s.logger.Warn("could not query the loaded image digest; assuming outdated",
			"target", t.Name.String(), "tag", tag, "error", err)
		return true, nil
	}
	if want != have {
		s.logger.Debug("target is outdated: loaded image digest differs from the archive",
			"target", t.Name.String(), "tag", tag)
		return true, nil
	}
	return false, nil
}

// hadEffect reports whether the last build of t changed any of the given
// result paths. A nil filter considers every result; a filter path the
// target does not produce is a configuration error.
//
// Effects are judged against the sources family: a result counts as changed
// until a consumer builds against it and records it.
func (s *Scheduler) hadEffect(t domain.Target, filter []string) (bool, error) {
	t, err := Resolve(s.targets, t, s.cfg)
	if err != nil {
		return false, err
	}

	results := s.cfg.ExpandAll(t.Results)
	paths := results
	if filter != nil {
		paths = make([]string, 0, len(filter))
		for _, f := range s.cfg.ExpandAll(filter) {
			if !slices.Contains(results, f) {
				return false, zerr.With(zerr.With(domain.ErrResultNotProduced,
					"target", t.Name.String()), "file", f)
			}
			paths = append(paths, f)
		}
	}

	for _, path := range paths {
		changed, err := s.cache.Changed(ports.FamilySources, path)
		if err != nil {
			return false, err
		}
		if changed {
			s.logger.Debug("rebuild had an effect: result changed since it was last consumed",
				"target", t.Name.String(), "result", path)
			return true, nil
		}
	}
	return false, nil
}

// depsHadEffect reports whether any dependency this target consumes sources
// from changed those sources when it last built.
func (s *Scheduler) depsHadEffect(t domain.Target) (bool, error) {
	t, err := Resolve(s.targets, t, s.cfg)
	if err != nil {
		return false, err
	}
	for _, ds := range t.DepSources {
		dep, ok := s.targets.Get(ds.Dep)
		if !ok {
			return false, zerr.With(domain.ErrUnknownDependency, "dependency", ds.Dep.String())
		}
		effect, err := s.hadEffect(dep, ds.Paths)
		if err != nil {
			return false, err
		}
		if effect {
			return true, nil
		}
	}
	return false, nil
}

// Support reports whether the current environment can build the target. A
// nil error means supported; otherwise the error names the tool that cannot
// run. Only crate compilation probes tools; every other kind either shells
// out unconditionally or needs nothing local.
func Support(ctx context.Context, set *domain.TargetSet, t domain.Target, cfg domain.BuildConfig, runner ports.Runner) error {
	t, err := Resolve(set, t, cfg)
	if err != nil {
		return err
	}
	kind, ok := t.Kind.(domain.CrateKind)
	if !ok {
		return nil
	}
	for _, tool := range kind.ProbedTools() {
		if err := runner.Probe(ctx, tool.Exe); err != nil {
			return zerr.With(zerr.With(zerr.Wrap(err, "tool cannot be run"),
				"tool", tool.Name), "exe", tool.Exe)
		}
	}
	return nil
}
