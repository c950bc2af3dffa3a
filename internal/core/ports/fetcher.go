package ports

import "context"

// Fetcher defines the interface for downloading build artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch downloads url into dest, creating parent directories as
	// needed. A failed or interrupted transfer removes the partial file
	// before the error is returned.
	Fetch(ctx context.Context, url, dest string) error
}
