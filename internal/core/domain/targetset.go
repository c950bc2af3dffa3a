// Package domain contains the core domain models for the target dependency
// graph and the staleness engine.
package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// TargetSet is the immutable collection of all targets of one workspace,
// keyed by name. It is constructed once by the caller and passed into every
// graph and scheduler operation; there is no global registry.
type TargetSet struct {
	targets map[InternedString]Target
	order   []InternedString
}

// NewTargetSet builds a set from the given targets.
// It returns an error if two targets share a name.
func NewTargetSet(targets ...Target) (*TargetSet, error) {
	s := &TargetSet{
		targets: make(map[InternedString]Target, len(targets)),
	}
	for _, t := range targets {
		if err := s.add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *TargetSet) add(t Target) error {
	if _, exists := s.targets[t.Name]; exists {
		return zerr.With(ErrTargetAlreadyExists, "target", t.Name.String())
	}
	s.targets[t.Name] = t
	s.order = append(s.order, t.Name)
	return nil
}

// Validate checks structural consistency: every dependency-supplied source
// must belong to a declared strong dependency, so the planner orders the
// producer before the consumer.
func (s *TargetSet) Validate() error {
	for _, name := range s.order {
		t := s.targets[name]
		declared := make(map[InternedString]bool, len(t.Deps))
		for _, dep := range t.Deps {
			declared[dep] = true
		}
		for _, ds := range t.DepSources {
			if !declared[ds.Dep] {
				return zerr.With(
					zerr.With(ErrUnknownDependency, "target", name.String()),
					"dependency", ds.Dep.String(),
				)
			}
		}
	}
	return nil
}

// Get returns the target with the given name.
func (s *TargetSet) Get(name InternedString) (Target, bool) {
	t, ok := s.targets[name]
	return t, ok
}

// Len returns the number of targets in the set.
func (s *TargetSet) Len() int {
	return len(s.targets)
}

// Walk returns an iterator that yields targets in declaration order.
func (s *TargetSet) Walk() iter.Seq[Target] {
	return func(yield func(Target) bool) {
		for _, name := range s.order {
			if !yield(s.targets[name]) {
				return
			}
		}
	}
}
