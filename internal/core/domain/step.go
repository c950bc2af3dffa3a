package domain

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Step is one unit of build work. Concrete steps are either external commands
// or in-process actions (downloads); both render to a one-line description for
// the build log.
type Step interface {
	Describe(cfg BuildConfig) string
}

// ExecStep describes one external command: program, arguments, an optional
// working directory override and environment overrides. Entries in Unset are
// removed from the inherited environment. Templates may contain configuration
// placeholders; they are expanded just before execution.
type ExecStep struct {
	Program string
	Args    []string
	Dir     string
	Env     map[string]string
	Unset   []string

	// Desc, when set, replaces the rendered command line in the build log.
	// It may contain a $CMD placeholder for the command line itself.
	Desc string
}

// Describe renders the command for the build log.
func (s ExecStep) Describe(cfg BuildConfig) string {
	var b strings.Builder
	if s.Dir != "" {
		fmt.Fprintf(&b, "cd %s && ", cfg.Expand(s.Dir))
	}
	for _, name := range s.Unset {
		fmt.Fprintf(&b, "%s= ", name)
	}
	for _, key := range slices.Sorted(maps.Keys(s.Env)) {
		fmt.Fprintf(&b, "%s=%q ", key, cfg.Expand(s.Env[key]))
	}
	b.WriteString(cfg.Expand(s.Program))
	for _, arg := range s.Args {
		b.WriteByte(' ')
		b.WriteString(cfg.Expand(arg))
	}
	if s.Desc != "" {
		return strings.ReplaceAll(cfg.Expand(s.Desc), "$CMD", b.String())
	}
	return b.String()
}

// Expand resolves every template of the step against the configuration,
// returning a step ready for execution.
func (s ExecStep) Expand(cfg BuildConfig) ExecStep {
	out := ExecStep{
		Program: cfg.Expand(s.Program),
		Args:    cfg.ExpandAll(s.Args),
		Dir:     cfg.Expand(s.Dir),
		Unset:   append([]string(nil), s.Unset...),
		Desc:    s.Desc,
	}
	if len(s.Env) > 0 {
		out.Env = make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			out.Env[k] = cfg.Expand(v)
		}
	}
	return out
}

// FuncStep is an in-process build action, such as a download. Failure aborts
// the run like a nonzero external command.
type FuncStep struct {
	Desc string
	Run  func(ctx context.Context) error
}

// Describe renders the action for the build log.
func (s FuncStep) Describe(cfg BuildConfig) string {
	return cfg.Expand(s.Desc)
}
