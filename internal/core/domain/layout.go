package domain

import "path/filepath"

const (
	// MasonDirName is the name of the internal workspace directory.
	MasonDirName = ".mason"

	// CacheDirName is the name of the staleness cache directory.
	CacheDirName = "cache"

	// SourcesDirName is the cache family holding digests of consumed paths.
	SourcesDirName = "srcs"

	// ResultsDirName is the cache family holding digests of produced paths.
	ResultsDirName = "dsts"

	// FlagsDirName is the cache directory holding per-target flag snapshots.
	FlagsDirName = "flags"

	// LockFileName is the name of the cache root lock file.
	LockFileName = ".lock"

	// SettingsFileName is the name of the workspace settings file.
	SettingsFileName = "mason.yaml"

	// DefaultVersion is the asset version downloaded when none is configured.
	DefaultVersion = "1.0.0"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default root directory for the staleness cache.
// It joins .mason and cache.
func DefaultCachePath() string {
	return filepath.Join(MasonDirName, CacheDirName)
}
