package manifest

import (
	"os"
	"path/filepath"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scanner implements ports.ManifestScanner for crate manifests.
type Scanner struct {
	logger ports.Logger
}

// NewScanner creates a new Scanner.
func NewScanner(logger ports.Logger) *Scanner {
	return &Scanner{
		logger: logger,
	}
}

// SourceDirs parses the manifest at path and returns the directory of every
// local path dependency, followed by the manifest's own directory. All
// returned paths are absolute. When the manifest has parse errors every one
// of them is logged and no paths are returned; a partial list would make the
// staleness checks silently blind to some sources.
func (s *Scanner) SourceDirs(path string) ([]string, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from the target catalog
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "could not read manifest"), "manifest", path)
	}

	paths, errs := parse(string(raw))
	if len(errs) > 0 {
		for _, parseErr := range errs {
			s.logger.Error(zerr.With(zerr.Wrap(parseErr, "invalid manifest"), "manifest", path))
		}
		return nil, zerr.With(zerr.With(domain.ErrManifestParseFailed,
			"manifest", path), "errors", len(errs))
	}

	dir := filepath.Dir(path)
	dirs := make([]string, 0, len(paths)+1)
	for _, p := range paths {
		dirs = append(dirs, filepath.Join(dir, p))
	}
	dirs = append(dirs, dir)

	for i, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "could not resolve source directory"), "path", d)
		}
		dirs[i] = abs
	}

	s.logger.Debug("deduced manifest source directories", "manifest", path, "dirs", dirs)
	return dirs, nil
}

var _ ports.ManifestScanner = (*Scanner)(nil)
