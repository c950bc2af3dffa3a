package domain

// TargetOption adjusts the shared fields of a target under construction.
type TargetOption func(*Target)

// WithDescription sets the listing description. Targets without one are
// hidden from listings.
func WithDescription(text string) TargetOption {
	return func(t *Target) { t.Description = text }
}

// WithSources appends source path templates.
func WithSources(paths ...string) TargetOption {
	return func(t *Target) { t.Sources = append(t.Sources, paths...) }
}

// WithDepSource appends dependency-supplied source paths. Passing no paths
// means any output of that dependency counts.
func WithDepSource(dep string, paths ...string) TargetOption {
	return func(t *Target) {
		t.DepSources = append(t.DepSources, DepSource{Dep: NewInternedString(dep), Paths: paths})
	}
}

// WithDeps appends strong dependencies.
func WithDeps(names ...string) TargetOption {
	return func(t *Target) { t.Deps = append(t.Deps, NewInternedStrings(names)...) }
}

// WithResults appends result path templates.
func WithResults(paths ...string) TargetOption {
	return func(t *Target) { t.Results = append(t.Results, paths...) }
}

func newTarget(name string, kind Kind, opts []TargetOption) Target {
	t := Target{Name: NewInternedString(name), Kind: kind}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// NewShellTarget builds a target that runs a fixed list of commands.
func NewShellTarget(name string, steps []ExecStep, opts ...TargetOption) Target {
	return newTarget(name, ShellKind{Steps: steps}, opts)
}

// NewCrateTarget builds a toolchain-delegated compile target.
func NewCrateTarget(name string, kind CrateKind, opts ...TargetOption) Target {
	return newTarget(name, kind, opts)
}

// NewDownloadTarget builds a target that fetches one artifact from url into
// output, its single result.
func NewDownloadTarget(name, url, output string, opts ...TargetOption) Target {
	t := newTarget(name, DownloadKind{URL: url}, opts)
	t.Results = append([]string{output}, t.Results...)
	return t
}

// NewImageTarget builds a container-image build target producing archive. The
// build file is tracked as the first source.
func NewImageTarget(name string, kind ImageBuildKind, archive string, opts ...TargetOption) Target {
	t := newTarget(name, kind, opts)
	t.Sources = append([]string{kind.Dockerfile}, t.Sources...)
	t.Results = append([]string{archive}, t.Results...)
	return t
}

// NewImagePullTarget builds a target that pulls ref from a registry and saves
// it to archive, its single result.
func NewImagePullTarget(name, ref, archive string, opts ...TargetOption) Target {
	t := newTarget(name, ImagePullKind{Ref: ref}, opts)
	t.Results = append([]string{archive}, t.Results...)
	return t
}

// NewImageInstallTarget builds a target that loads the archive produced by dep
// into the local image engine under tag.
func NewImageInstallTarget(name, archive, tag, dep string, opts ...TargetOption) Target {
	t := newTarget(name, ImageInstallKind{Archive: archive, Tag: tag}, opts)
	t.DepSources = append([]DepSource{{Dep: NewInternedString(dep), Paths: []string{archive}}}, t.DepSources...)
	t.Deps = append([]InternedString{NewInternedString(dep)}, t.Deps...)
	return t
}

// NewInstallTarget builds a target that copies the file produced by dep from
// source to dest, optionally through sudo.
func NewInstallTarget(name, source, dest, dep string, sudo bool, opts ...TargetOption) Target {
	t := newTarget(name, InstallKind{Source: source, Dest: dest, Sudo: sudo}, opts)
	t.DepSources = append([]DepSource{{Dep: NewInternedString(dep), Paths: []string{source}}}, t.DepSources...)
	t.Results = append([]string{dest}, t.Results...)
	t.Deps = append([]InternedString{NewInternedString(dep)}, t.Deps...)
	return t
}

// NewContainerTarget builds a target that runs its build inside a container.
func NewContainerTarget(name string, kind ContainerRunKind, opts ...TargetOption) Target {
	return newTarget(name, kind, opts)
}

// NewRedirectTarget builds an indirection target switching on option. Choices
// map selector values to the target names they forward to.
func NewRedirectTarget(name, option string, choices map[string]string, opts ...TargetOption) Target {
	interned := make(map[string]InternedString, len(choices))
	for value, target := range choices {
		interned[value] = NewInternedString(target)
	}
	return newTarget(name, RedirectKind{Option: option, Choices: interned}, opts)
}

// NewVoidTarget builds a dependency aggregator with no work of its own.
func NewVoidTarget(name string, opts ...TargetOption) Target {
	return newTarget(name, VoidKind{}, opts)
}
