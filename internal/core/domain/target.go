package domain

// Target is a named buildable unit: the sources it consumes, the results it
// promises to produce, the targets it depends on, and a kind describing how it
// builds. Targets are immutable configuration data; all behavior lives in the
// scheduler.
type Target struct {
	// Name uniquely identifies the target, stable across runs.
	Name InternedString

	// Description is human text for listings. Empty means hidden.
	Description string

	// Sources are path templates whose content staleness forces a rebuild.
	// An empty list means the inputs are unknown.
	Sources []string

	// DepSources are paths produced by dependencies that this target
	// consumes. They participate in staleness like Sources and drive the
	// effect cascade at build time.
	DepSources []DepSource

	// Results are path templates this target promises to produce. A missing
	// result forces a rebuild; an empty list means the outputs are unknown.
	Results []string

	// Deps are the strong dependencies, built before this target.
	Deps []InternedString

	// Kind carries the variant-specific build data.
	Kind Kind
}

// DepSource names paths of one dependency that a target consumes. A nil Paths
// slice means any output of that dependency counts.
type DepSource struct {
	Dep   InternedString
	Paths []string
}

// Kind is the closed set of target variants. Each variant carries only data;
// the scheduler turns it into staleness rules and build steps.
type Kind interface {
	// Kind returns the variant name shown in listings and inspections.
	Kind() string
}

// ShellKind runs a fixed list of external commands. It is always considered
// outdated: nothing can verify that skipping arbitrary commands is safe.
type ShellKind struct {
	Steps []ExecStep
}

func (ShellKind) Kind() string { return "shell" }

// Tool names an executable probed for availability before a crate target is
// considered supported.
type Tool struct {
	Name string
	Exe  string
}

// DefaultCrateTools are the executables every crate build needs.
var DefaultCrateTools = []Tool{
	{Name: "Cargo", Exe: "cargo"},
	{Name: "Rust compiler", Exe: "rustc"},
	{Name: "Package config", Exe: "pkgconf"},
}

// CrateKind compiles workspace packages with the Rust toolchain. Staleness is
// delegated entirely to the toolchain's own incremental tracking, so the
// target always reports outdated.
type CrateKind struct {
	// Packages are the workspace packages handed to the build.
	Packages []string

	// Triple is the target triple template, e.g. "$ARCH-unknown-linux-musl".
	// It is passed only when the architecture was requested explicitly,
	// unless TripleAlways is set.
	Triple       string
	TripleAlways bool

	// ForceDev always builds the debug profile, regardless of configuration.
	ForceDev bool

	// Env and Unset adjust the toolchain's environment.
	Env   map[string]string
	Unset []string

	// Tools overrides the probed executables. Nil means DefaultCrateTools.
	Tools []Tool
}

func (CrateKind) Kind() string { return "crate" }

// ProbedTools returns the executables to probe for support.
func (k CrateKind) ProbedTools() []Tool {
	if k.Tools == nil {
		return DefaultCrateTools
	}
	return k.Tools
}

// DownloadKind fetches one artifact from a network address into the target's
// single result path and marks it executable. Always outdated: nothing is
// known about the asset before downloading.
type DownloadKind struct {
	URL string
}

func (DownloadKind) Kind() string { return "download" }

// ImageBuildKind builds a container image from a build file into an archive
// result. The build file is implicitly the target's first source.
type ImageBuildKind struct {
	Dockerfile string
	Context    string
	Stage      string
	BuildArgs  map[string]string
}

func (ImageBuildKind) Kind() string { return "image" }

// BuildContext returns the configured build context, defaulting to the
// workspace root.
func (k ImageBuildKind) BuildContext() string {
	if k.Context == "" {
		return "."
	}
	return k.Context
}

// ImagePullKind pulls an image from a registry and saves it to an archive
// result.
type ImagePullKind struct {
	Ref string
}

func (ImagePullKind) Kind() string { return "image-pull" }

// ImageInstallKind loads a previously built image archive into the local
// engine and tags it. Outdated when the archive's embedded digest differs
// from the digest the engine currently has loaded under the tag.
type ImageInstallKind struct {
	Archive string
	Tag     string
}

func (ImageInstallKind) Kind() string { return "image-install" }

// InstallKind copies a single produced file to a fixed destination, optionally
// through sudo. Outdated when the destination is missing.
type InstallKind struct {
	Source string
	Dest   string
	Sudo   bool
}

func (InstallKind) Kind() string { return "install" }

// VolumeMount binds a host path into a container. Host paths must be
// absolute; use $CWD to anchor workspace paths.
type VolumeMount struct {
	Host      string
	Container string
}

// ContainerRunKind executes a build inside a disposable container of a
// previously installed image, then restores ownership of every mounted host
// path to the invoking user.
type ContainerRunKind struct {
	Image   string
	Command []string
	Volumes []VolumeMount
	Env     map[string]string
}

func (ContainerRunKind) Kind() string { return "container-run" }

// RedirectKind selects one concrete target from a mapping keyed by the
// current value of a selector option, and forwards every operation to it.
// Resolution is fresh on every operation; a selector value absent from the
// mapping is a fatal configuration error.
type RedirectKind struct {
	Option  string
	Choices map[string]InternedString
}

func (RedirectKind) Kind() string { return "redirect" }

// VoidKind builds nothing; it exists to name a group of dependencies.
type VoidKind struct{}

func (VoidKind) Kind() string { return "void" }
