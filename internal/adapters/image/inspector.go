// Package image inspects container image archives and the local image engine.
package image

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// blobPrefix is how a saved image archive references its config blob.
const blobPrefix = "blobs/sha256/"

// Inspector implements ports.ImageInspector. Archive digests are read straight
// from the tar stream; loaded digests are asked from the docker CLI so the
// adapter works against whatever engine the docker command points at.
type Inspector struct {
	logger ports.Logger
}

// NewInspector creates a new Inspector.
func NewInspector(logger ports.Logger) *Inspector {
	return &Inspector{
		logger: logger,
	}
}

// ArchiveDigest extracts the config digest of a saved image archive. The
// digest identifies the image contents, so two archives of the same build
// share it and a re-tagged image keeps it.
func (i *Inspector) ArchiveDigest(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the target catalog
	if err != nil {
		return "", zerr.Wrap(err, "failed to open image archive")
	}
	defer func() { _ = f.Close() }()

	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to read image archive"), "path", path)
		}
		if hdr.Typeflag != tar.TypeReg || hdr.Name != "manifest.json" {
			continue
		}
		return digestFromManifest(tr, path)
	}

	return "", zerr.With(domain.ErrImageManifestMissing, "path", path)
}

// digestFromManifest reads the archive manifest and cuts the config blob
// reference down to the bare digest.
func digestFromManifest(r io.Reader, path string) (string, error) {
	var manifest []struct {
		Config string `json:"Config"`
	}
	if err := json.NewDecoder(r).Decode(&manifest); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to parse image manifest"), "path", path)
	}
	if len(manifest) == 0 {
		return "", zerr.With(domain.ErrImageManifestMissing, "path", path)
	}

	digest, ok := strings.CutPrefix(manifest[0].Config, blobPrefix)
	if !ok {
		return "", zerr.With(zerr.With(domain.ErrImageDigestMalformed,
			"path", path), "config", manifest[0].Config)
	}
	return digest, nil
}

// LoadedDigest returns the digest the local engine has for a tag, or
// domain.ErrImageNotLoaded when the engine does not know the tag.
func (i *Inspector) LoadedDigest(ctx context.Context, tag string) (string, error) {
	cmd := exec.CommandContext(ctx, "docker", "image", "inspect", "--format", "{{.Id}}", tag)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			i.logger.Debug("image is not loaded", "tag", tag,
				"output", strings.TrimSpace(stderr.String()))
			return "", zerr.With(domain.ErrImageNotLoaded, "tag", tag)
		}
		return "", zerr.With(zerr.Wrap(err, "failed to inspect image"), "tag", tag)
	}

	return strings.TrimPrefix(strings.TrimSpace(stdout.String()), "sha256:"), nil
}

var _ ports.ImageInspector = (*Inspector)(nil)
