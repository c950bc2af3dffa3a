package domain

// Settings are the workspace-level values read from the settings file, before
// command-line flags are applied on top.
type Settings struct {
	// Root is the workspace root, the directory holding the settings file.
	// When no settings file exists this is the directory the lookup started in.
	Root string

	// Version is the default asset version for download targets.
	Version string

	// CacheDir is the staleness cache location, relative to Root unless
	// absolute.
	CacheDir string

	// Jobs bounds how many targets of one wave may build concurrently.
	Jobs int
}

// DefaultSettings returns the settings used when no settings file is found.
func DefaultSettings(root string) Settings {
	return Settings{
		Root:     root,
		Version:  DefaultVersion,
		CacheDir: DefaultCachePath(),
		Jobs:     1,
	}
}
