package ports

import "context"

// ImageInspector defines the interface for querying container image digests.
//
//go:generate go run go.uber.org/mock/mockgen -source=images.go -destination=mocks/mock_images.go -package=mocks
type ImageInspector interface {
	// ArchiveDigest reads the image digest from a saved image archive.
	ArchiveDigest(path string) (string, error)

	// LoadedDigest queries the local engine for the digest loaded under
	// tag. It returns domain.ErrImageNotLoaded when the tag is unknown to
	// the engine.
	LoadedDigest(ctx context.Context, tag string) (string, error)
}
