package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Selector option names recognized by redirect targets.
const (
	OptionDev           = "dev"
	OptionDownload      = "down"
	OptionContainerized = "con"
)

// BuildConfig is the caller-supplied configuration one build invocation runs
// under. It is immutable for the duration of the invocation; every target
// operation is a pure function of it.
type BuildConfig struct {
	// OS and Arch identify the platform artifacts are produced for.
	OS   OS
	Arch Arch

	// Dev selects debug builds, Download selects prebuilt assets over
	// compilation, Containerized selects in-container compilation.
	Dev           bool
	Download      bool
	Containerized bool

	// Force marks every target outdated. DryRun logs commands without
	// running them.
	Force  bool
	DryRun bool

	// Version is the release version used when downloading prebuilt assets.
	Version string

	// CacheDir is the staleness cache root. WorkDir is the workspace root
	// all relative paths resolve against.
	CacheDir string
	WorkDir  string

	// Jobs bounds how many targets of one wave may build concurrently.
	// Zero or one reproduces the serial reference behavior.
	Jobs int
}

// Release returns the build profile name substituted for $RELEASE.
func (c BuildConfig) Release() string {
	if c.Dev {
		return "debug"
	}
	return "release"
}

// Expand substitutes the configuration placeholders in a path or command
// template. Unknown placeholders pass through untouched.
func (c BuildConfig) Expand(s string) string {
	return c.replacer().Replace(s)
}

// ExpandAll substitutes the configuration placeholders in every template of a
// list, returning a fresh slice.
func (c BuildConfig) ExpandAll(templates []string) []string {
	r := c.replacer()
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = r.Replace(t)
	}
	return out
}

func (c BuildConfig) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"$RELEASE", c.Release(),
		"$RUST_OS", c.OS.Triple(),
		"$OS", c.OS.Triple(),
		"$RUST_ARCH", c.Arch.Triple(),
		"$DOCKER_ARCH", c.Arch.Container(),
		"$ARCH", c.Arch.Triple(),
		"$CWD", c.WorkDir,
		"$VERSION", c.Version,
	)
}

// FlagValues returns the subset of configuration options recorded in flag
// snapshots. A target is stale when its snapshot disagrees with these.
func (c BuildConfig) FlagValues() map[string]string {
	return map[string]string{
		OptionDev:      strconv.FormatBool(c.Dev),
		OptionDownload: strconv.FormatBool(c.Download),
	}
}

// Selector returns the current value of a redirect selector option.
func (c BuildConfig) Selector(option string) (string, error) {
	switch option {
	case OptionDev:
		return strconv.FormatBool(c.Dev), nil
	case OptionDownload:
		return strconv.FormatBool(c.Download), nil
	case OptionContainerized:
		return strconv.FormatBool(c.Containerized), nil
	default:
		return "", zerr.With(ErrUnknownSelectorOption, "option", option)
	}
}
