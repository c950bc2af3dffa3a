package domain

import (
	"runtime"
	"strings"

	"go.trai.ch/zerr"
)

// Arch identifies a processor architecture, canonicalized over its common aliases.
// The zero value is not valid; construct one with ParseArch or HostArch.
type Arch struct {
	name  string
	given bool
}

// ParseArch canonicalizes an architecture string given explicitly by the user.
// Recognized spellings are x86_64/amd64 and aarch64/arm64.
func ParseArch(raw string) (Arch, error) {
	name, err := resolveArch(raw)
	if err != nil {
		return Arch{}, err
	}
	return Arch{name: name, given: true}, nil
}

// HostArch returns the architecture of the machine mason runs on.
func HostArch() (Arch, error) {
	name, err := resolveArch(runtime.GOARCH)
	if err != nil {
		return Arch{}, err
	}
	return Arch{name: name}, nil
}

func resolveArch(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "x86_64", "amd64":
		return "x86_64", nil
	case "aarch64", "arm64":
		return "aarch64", nil
	default:
		return "", zerr.With(ErrUnknownArch, "arch", raw)
	}
}

// String returns the canonical name, x86_64 or aarch64.
func (a Arch) String() string {
	return a.name
}

// Given reports whether the architecture was requested explicitly rather than
// detected from the host. Toolchain commands only pin a target platform for
// explicitly requested architectures.
func (a Arch) Given() bool {
	return a.given
}

// Triple returns the spelling used in toolchain target triples.
func (a Arch) Triple() string {
	return a.name
}

// Container returns the spelling used by container platforms and images.
func (a Arch) Container() string {
	if a.name == "x86_64" {
		return "amd64"
	}
	return "arm64"
}

// OS identifies an operating system, canonicalized over its common aliases.
// The zero value is not valid; construct one with ParseOS or HostOS.
type OS struct {
	name  string
	given bool
}

// ParseOS canonicalizes an operating system string given explicitly by the user.
// Recognized spellings are linux and darwin/macos.
func ParseOS(raw string) (OS, error) {
	name, err := resolveOS(raw)
	if err != nil {
		return OS{}, err
	}
	return OS{name: name, given: true}, nil
}

// HostOS returns the operating system of the machine mason runs on.
func HostOS() (OS, error) {
	name, err := resolveOS(runtime.GOOS)
	if err != nil {
		return OS{}, err
	}
	return OS{name: name}, nil
}

func resolveOS(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "linux":
		return "linux", nil
	case "darwin", "macos":
		return "darwin", nil
	default:
		return "", zerr.With(ErrUnknownOS, "os", raw)
	}
}

// String returns the canonical name, linux or darwin.
func (o OS) String() string {
	return o.name
}

// Given reports whether the operating system was requested explicitly rather
// than detected from the host.
func (o OS) Given() bool {
	return o.given
}

// Triple returns the spelling used in toolchain target triples.
func (o OS) Triple() string {
	return o.name
}
