package scheduler

import (
	"maps"
	"slices"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/zerr"
)

// rootParent labels the implicit parent of the requested target in
// dependency resolution errors.
const rootParent = "<root>"

// Resolve follows redirect targets to the concrete target that builds under
// cfg. Concrete targets resolve to themselves. Resolution is fresh on every
// call, never cached across configuration changes; a selector value with no
// mapped choice is a configuration error.
func Resolve(set *domain.TargetSet, t domain.Target, cfg domain.BuildConfig) (domain.Target, error) {
	seen := make(map[domain.InternedString]bool)
	for {
		kind, ok := t.Kind.(domain.RedirectKind)
		if !ok {
			return t, nil
		}
		if seen[t.Name] {
			return domain.Target{}, zerr.With(domain.ErrCyclicDependency, "target", t.Name.String())
		}
		seen[t.Name] = true

		next, err := redirectHop(set, t, kind, cfg)
		if err != nil {
			return domain.Target{}, err
		}
		t = next
	}
}

// redirectHop returns the target a redirect currently selects.
func redirectHop(set *domain.TargetSet, t domain.Target, kind domain.RedirectKind, cfg domain.BuildConfig) (domain.Target, error) {
	value, err := cfg.Selector(kind.Option)
	if err != nil {
		return domain.Target{}, zerr.With(err, "target", t.Name.String())
	}
	choice, ok := kind.Choices[value]
	if !ok {
		return domain.Target{}, zerr.With(zerr.With(zerr.With(domain.ErrUnknownSelectorValue,
			"target", t.Name.String()), "option", kind.Option), "value", value)
	}
	next, ok := set.Get(choice)
	if !ok {
		return domain.Target{}, zerr.With(zerr.With(domain.ErrTargetNotFound,
			"target", choice.String()), "redirect", t.Name.String())
	}
	return next, nil
}

// effectiveDeps returns the dependencies a target contributes to the tree.
// A redirect contributes the dependencies of the target it currently
// selects, followed by its own.
func effectiveDeps(set *domain.TargetSet, t domain.Target, cfg domain.BuildConfig, seen map[domain.InternedString]bool) ([]domain.InternedString, error) {
	kind, ok := t.Kind.(domain.RedirectKind)
	if !ok {
		return t.Deps, nil
	}
	if seen[t.Name] {
		return nil, zerr.With(domain.ErrCyclicDependency, "target", t.Name.String())
	}
	seen[t.Name] = true

	next, err := redirectHop(set, t, kind, cfg)
	if err != nil {
		return nil, err
	}
	inner, err := effectiveDeps(set, next, cfg, seen)
	if err != nil {
		return nil, err
	}
	deps := make([]domain.InternedString, 0, len(inner)+len(t.Deps))
	deps = append(deps, inner...)
	deps = append(deps, t.Deps...)
	return deps, nil
}

// BuildTree resolves the dependency tree under the named target. Nodes keep
// the requested names; forwarding to selected targets happens per operation,
// not in the tree. A dependency recurring on its own root-to-leaf path is a
// structural error; the same name on two separate branches is not.
func BuildTree(set *domain.TargetSet, name domain.InternedString, cfg domain.BuildConfig) (domain.DependencyNode, error) {
	return buildSubtree(set, name, cfg, rootParent, nil)
}

func buildSubtree(set *domain.TargetSet, name domain.InternedString, cfg domain.BuildConfig, parent string, ancestors map[domain.InternedString]bool) (domain.DependencyNode, error) {
	t, ok := set.Get(name)
	if !ok {
		return domain.DependencyNode{}, zerr.With(zerr.With(domain.ErrUnknownDependency,
			"dependency", name.String()), "of", parent)
	}
	deps, err := effectiveDeps(set, t, cfg, make(map[domain.InternedString]bool))
	if err != nil {
		return domain.DependencyNode{}, err
	}

	branch := make(map[domain.InternedString]bool, len(ancestors)+1)
	maps.Copy(branch, ancestors)
	branch[name] = true
	for _, dep := range deps {
		if branch[dep] {
			return domain.DependencyNode{}, zerr.With(domain.ErrCyclicDependency, "target", dep.String())
		}
	}

	node := domain.DependencyNode{Name: name}
	for _, dep := range deps {
		child, err := buildSubtree(set, dep, cfg, name.String(), branch)
		if err != nil {
			return domain.DependencyNode{}, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// Waves flattens a dependency tree into build waves, deepest leaves first.
// No wave member depends on another member of the same wave, so a wave may
// build in any order or concurrently. A name reached over several paths
// keeps only its deepest occurrence, placing it before everything that
// needs it.
func Waves(root domain.DependencyNode) [][]domain.InternedString {
	var levels [][]domain.InternedString
	var present []map[domain.InternedString]bool

	var walk func(node domain.DependencyNode, depth int)
	walk = func(node domain.DependencyNode, depth int) {
		for _, child := range node.Children {
			walk(child, depth+1)
		}
		for depth >= len(levels) {
			levels = append(levels, nil)
			present = append(present, make(map[domain.InternedString]bool))
		}
		if !present[depth][node.Name] {
			present[depth][node.Name] = true
			levels[depth] = append(levels[depth], node.Name)
		}
	}
	walk(root, 0)
	slices.Reverse(levels)

	// A name on several levels builds in its deepest one only.
	scheduled := make(map[domain.InternedString]bool)
	waves := make([][]domain.InternedString, 0, len(levels))
	for _, level := range levels {
		var wave []domain.InternedString
		for _, name := range level {
			if scheduled[name] {
				continue
			}
			scheduled[name] = true
			wave = append(wave, name)
		}
		if len(wave) > 0 {
			waves = append(waves, wave)
		}
	}
	return waves
}
