// Package ports defines the core interfaces for the application.
package ports

import "context"

// Family selects one of the two digest families of the staleness cache.
type Family uint8

const (
	// FamilySources holds digests of paths as last consumed by a build.
	FamilySources Family = iota
	// FamilyResults holds digests of paths as last produced by a build.
	FamilyResults
)

// StalenessCache defines the interface for the digest and flag-snapshot store
// that backs staleness decisions.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type StalenessCache interface {
	// Changed reports whether the content at path differs from the digest
	// recorded in the given family. A missing path, a missing record or an
	// unreadable record all count as changed. Directories are compared
	// entry by entry.
	//
	// The only error returned is a fatal one: path resolving outside the
	// workspace the cache mirrors.
	Changed(family Family, path string) (bool, error)

	// Record stores the current digest of path in the given family,
	// creating parent directories as needed. Write failures are logged and
	// swallowed so a broken cache degrades to rebuilding; the returned
	// error is reserved for paths escaping the workspace.
	Record(family Family, path string) error

	// FlagsChanged reports whether the recorded flag snapshot for target
	// differs from flags. A missing or malformed snapshot counts as
	// changed; unrecognized recorded names are ignored.
	FlagsChanged(target string, flags map[string]string) bool

	// RecordFlags stores the flag snapshot for target. Failures are logged
	// and swallowed like Record's.
	RecordFlags(target string, flags map[string]string)

	// Lock takes the cache-wide build lock, waiting for a concurrent
	// invocation to release it first. The returned function releases it.
	Lock(ctx context.Context) (func(), error)
}
