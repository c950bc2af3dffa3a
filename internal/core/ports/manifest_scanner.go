package ports

// ManifestScanner defines the interface for discovering the source
// directories a crate manifest depends on.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest_scanner.go -destination=mocks/mock_manifest_scanner.go -package=mocks
type ManifestScanner interface {
	// SourceDirs parses the manifest at path and returns the absolute
	// directories of its local path dependencies, plus the manifest's own
	// directory. Any parse error makes the whole discovery fail; the
	// returned list must not be used in that case.
	SourceDirs(path string) ([]string, error)
}
