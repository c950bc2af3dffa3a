package domain

// DependencyNode is one node of the dependency tree produced during
// resolution. No name appears twice on any root-to-leaf path.
type DependencyNode struct {
	Name     InternedString
	Children []DependencyNode
}

// Flatten returns every name in the tree in depth-first order, with
// duplicates from shared subtrees removed.
func (n DependencyNode) Flatten() []InternedString {
	seen := make(map[InternedString]bool)
	var names []InternedString
	var walk func(DependencyNode)
	walk = func(node DependencyNode) {
		if !seen[node.Name] {
			seen[node.Name] = true
			names = append(names, node.Name)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)
	return names
}

// PlannedTarget pairs a target with its locally-computed staleness verdict.
// Dependency-propagated outdating is deferred to build time.
type PlannedTarget struct {
	Target   Target
	Outdated bool
}

// Wave is a set of planned targets free of dependency edges between its
// members; they may build in any order or concurrently.
type Wave []PlannedTarget

// Plan is the ordered sequence of waves for one requested target, deepest
// leaves first. Waves execute strictly in order. Plans are computed per
// invocation and never persisted.
type Plan struct {
	Root  InternedString
	Waves []Wave
}

// Targets returns the total number of planned targets across all waves.
func (p Plan) Targets() int {
	n := 0
	for _, w := range p.Waves {
		n += len(w)
	}
	return n
}

// AnyOutdated reports whether any planned target was locally outdated at
// planning time.
func (p Plan) AnyOutdated() bool {
	for _, w := range p.Waves {
		for _, pt := range w {
			if pt.Outdated {
				return true
			}
		}
	}
	return false
}
