// Package cas implements the on-disk staleness cache: content digests of
// tracked paths mirrored under per-family directories, plus per-target flag
// snapshots.
package cas

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StalenessCache = (*Cache)(nil)

// lockRetryDelay is how often a blocked invocation retries the cache lock.
const lockRetryDelay = 100 * time.Millisecond

// Cache stores one digest file per tracked path, mirrored under the family
// directory, so `srcs/<path>` holds the digest path had when it was last
// consumed. Flag snapshots live under `flags/<target>` as name=value lines.
//
// Read and write failures degrade to "changed" with a warning so a broken
// cache costs rebuilds, never correctness. The only fatal condition is a
// tracked path escaping the cache mirror.
type Cache struct {
	root    string
	workDir string
	hasher  ports.Hasher
	log     ports.Logger
	lock    *flock.Flock
}

// NewCache creates the staleness cache rooted at root. A relative root is
// resolved against workDir. The root directory is created eagerly so the lock
// file has a home.
func NewCache(root, workDir string, hasher ports.Hasher, log ports.Logger) (*Cache, error) {
	if !filepath.IsAbs(root) {
		root = filepath.Join(workDir, root)
	}
	root = filepath.Clean(root)

	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create cache root"), "cache", root)
	}

	return &Cache{
		root:    root,
		workDir: workDir,
		hasher:  hasher,
		log:     log,
		lock:    flock.New(filepath.Join(root, domain.LockFileName)),
	}, nil
}

// Root returns the absolute cache root.
func (c *Cache) Root() string {
	return c.root
}

// Changed reports whether path's content differs from the digest recorded in
// family. Directories recurse; a missing path or a broken entry counts as
// changed.
func (c *Cache) Changed(family ports.Family, path string) (bool, error) {
	resolved := c.resolve(path)

	info, err := os.Stat(resolved)
	switch {
	case err != nil:
		c.log.Warn("tracked path is not a file or directory; considering it changed", "path", path)
		return true, nil

	case info.IsDir():
		entries, err := os.ReadDir(resolved)
		if err != nil {
			c.log.Warn("failed to list tracked directory; considering it changed", "path", path, "error", err)
			return true, nil
		}
		for _, entry := range entries {
			changed, err := c.Changed(family, filepath.Join(path, entry.Name()))
			if err != nil {
				return false, err
			}
			if changed {
				c.log.Debug("tracked directory changed because one of its children did", "path", path, "child", entry.Name())
				return true, nil
			}
		}
		return false, nil

	default:
		return c.fileChanged(family, path, resolved)
	}
}

func (c *Cache) fileChanged(family ports.Family, path, resolved string) (bool, error) {
	entry, err := c.entryPath(family, path)
	if err != nil {
		return false, err
	}

	recorded, err := os.ReadFile(entry) //nolint:gosec // Entry is under the cache root by construction
	if errors.Is(err, fs.ErrNotExist) {
		c.log.Debug("tracked file has no cache entry; considering it changed", "path", path)
		return true, nil
	}
	if err != nil {
		c.log.Warn("failed to read cache entry; considering the file changed", "entry", entry, "error", err)
		return true, nil
	}

	current, err := c.hasher.Hash(resolved)
	if err != nil {
		c.log.Warn("failed to hash tracked file; considering it changed", "path", path, "error", err)
		return true, nil
	}

	if current != strings.TrimSpace(string(recorded)) {
		c.log.Debug("tracked file digest does not match its cache entry", "path", path)
		return true, nil
	}
	return false, nil
}

// Record stores the current digest of path in family. Directories recurse.
// All failures except a cache escape are logged and swallowed.
func (c *Cache) Record(family ports.Family, path string) error {
	resolved := c.resolve(path)

	info, err := os.Stat(resolved)
	switch {
	case err != nil:
		c.log.Warn("tracked path not found; cannot record its digest", "path", path)
		return nil

	case info.IsDir():
		entries, err := os.ReadDir(resolved)
		if err != nil {
			c.log.Warn("failed to list tracked directory; cannot record its digests", "path", path, "error", err)
			return nil
		}
		for _, entry := range entries {
			if err := c.Record(family, filepath.Join(path, entry.Name())); err != nil {
				return err
			}
		}
		return nil

	default:
		entry, err := c.entryPath(family, path)
		if err != nil {
			return err
		}

		digest, err := c.hasher.Hash(resolved)
		if err != nil {
			c.log.Warn("failed to hash tracked file; cannot record its digest", "path", path, "error", err)
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(entry), domain.DirPerm); err != nil {
			c.log.Warn("failed to create cache entry directory", "entry", entry, "error", err)
			return nil
		}
		if err := os.WriteFile(entry, []byte(digest), domain.FilePerm); err != nil {
			c.log.Warn("failed to write cache entry", "entry", entry, "error", err)
		}
		return nil
	}
}

// FlagsChanged reports whether the recorded snapshot for target differs from
// flags. Recorded names outside flags are ignored; a name in flags that the
// snapshot misses counts as changed.
func (c *Cache) FlagsChanged(target string, flags map[string]string) bool {
	path := c.flagsPath(target)

	data, err := os.ReadFile(path) //nolint:gosec // Path is under the cache root by construction
	if errors.Is(err, fs.ErrNotExist) {
		c.log.Debug("no flag snapshot; considering the flags changed", "target", target)
		return true
	}
	if err != nil {
		c.log.Warn("failed to read flag snapshot; considering the flags changed", "target", target, "error", err)
		return true
	}

	recorded := make(map[string]string, len(flags))
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			c.log.Warn("skipping malformed flag snapshot line", "target", target, "line", i+1)
			continue
		}
		name := strings.ToLower(strings.TrimSpace(parts[0]))
		if _, known := flags[name]; !known {
			c.log.Warn("ignoring unknown flag in snapshot", "target", target, "flag", name)
			continue
		}
		recorded[name] = strings.TrimSpace(parts[1])
	}

	for name, want := range flags {
		got, ok := recorded[name]
		if !ok {
			c.log.Warn("flag missing from snapshot; considering the flags changed", "target", target, "flag", name)
			return true
		}
		if !strings.EqualFold(got, want) {
			c.log.Debug("flag snapshot does not match the current flags", "target", target, "flag", name)
			return true
		}
	}
	return false
}

// RecordFlags stores the flag snapshot for target, one name=value line per
// flag in name order. Failures are logged and swallowed.
func (c *Cache) RecordFlags(target string, flags map[string]string) {
	path := c.flagsPath(target)

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		c.log.Warn("failed to create flag snapshot directory", "target", target, "error", err)
		return
	}

	var b strings.Builder
	for _, name := range slices.Sorted(maps.Keys(flags)) {
		fmt.Fprintf(&b, "%s=%s\n", name, flags[name])
	}
	if err := os.WriteFile(path, []byte(b.String()), domain.FilePerm); err != nil {
		c.log.Warn("failed to write flag snapshot", "target", target, "error", err)
	}
}

// Lock takes the cache-wide build lock, retrying until a concurrent
// invocation releases it or ctx is cancelled.
func (c *Cache) Lock(ctx context.Context) (func(), error) {
	locked, err := c.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to take the cache lock"), "cache", c.root)
	}
	if !locked {
		return nil, zerr.With(domain.ErrCacheLockFailed, "cache", c.root)
	}
	return func() { _ = c.lock.Unlock() }, nil
}

// resolve returns the on-disk location of a tracked path.
func (c *Cache) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.workDir, path)
}

// entryPath mirrors a tracked path under the family directory and guards
// against it escaping the cache.
func (c *Cache) entryPath(family ports.Family, path string) (string, error) {
	base := c.familyDir(family)
	entry := filepath.Join(base, path)

	rel, err := filepath.Rel(base, entry)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", zerr.With(zerr.With(domain.ErrCacheEscape, "path", path), "cache", base)
	}
	return entry, nil
}

func (c *Cache) familyDir(family ports.Family) string {
	if family == ports.FamilyResults {
		return filepath.Join(c.root, domain.ResultsDirName)
	}
	return filepath.Join(c.root, domain.SourcesDirName)
}

func (c *Cache) flagsPath(target string) string {
	return filepath.Join(c.root, domain.FlagsDirName, target)
}
