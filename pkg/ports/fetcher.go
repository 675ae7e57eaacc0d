package ports

import "context"

// ImageBuffer is a fetched image normalized to PNG.
type ImageBuffer struct {
	Data         []byte // PNG encoded
	SourceFormat string // format reported by the decoder ("jpeg", "png", "webp", ...)
	Width        int
	Height       int
}

// ImageFetcher retrieves remote images.
type ImageFetcher interface {
	// Fetch downloads url, verifies it is an image and returns it as PNG.
	// When useCache is true the shared image cache is consulted and filled.
	Fetch(ctx context.Context, url string, useCache bool) (ImageBuffer, error)
}

// URLValidator decides whether a remote URL may be fetched.
type URLValidator interface {
	IsAllowed(rawURL string) bool
}
