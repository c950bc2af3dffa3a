// Package fs implements content digests for tracked files.
package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// chunkSize is the read buffer size for hashing.
const chunkSize = 64 * 1024

// Hasher computes XXHash digests of file contents.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Hash computes the digest of the file at path, reading it in chunks so large
// artifacts do not need to fit into memory. The digest renders as 16 hex
// digits.
func (h *Hasher) Hash(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			_, _ = digest.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
		}
	}

	return fmt.Sprintf("%016x", digest.Sum64()), nil
}
