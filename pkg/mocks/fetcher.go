package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

// FetchCall records one ImageFetcher.Fetch call.
type FetchCall struct {
	URL      string
	UseCache bool
}

// ImageFetcher is a mock implementation of ports.ImageFetcher.
// URLs present in Images succeed; URLs in Errors fail with that error;
// anything else fails with a FetchError.
type ImageFetcher struct {
	mu     sync.Mutex
	Images map[string]ports.ImageBuffer
	Errors map[string]error
	Calls  []FetchCall

	FetchFunc func(ctx context.Context, url string, useCache bool) (ports.ImageBuffer, error)
}

// NewImageFetcher creates a fetcher that serves the given URLs.
func NewImageFetcher(urls ...string) *ImageFetcher {
	f := &ImageFetcher{
		Images: make(map[string]ports.ImageBuffer),
		Errors: make(map[string]error),
	}
	for _, u := range urls {
		f.Images[u] = ports.ImageBuffer{Data: []byte("png:" + u), SourceFormat: "png", Width: 100, Height: 150}
	}
	return f
}

func (m *ImageFetcher) Fetch(ctx context.Context, url string, useCache bool) (ports.ImageBuffer, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, FetchCall{URL: url, UseCache: useCache})
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, url, useCache)
	}
	if err, ok := m.Errors[url]; ok {
		return ports.ImageBuffer{}, err
	}
	if buf, ok := m.Images[url]; ok {
		return buf, nil
	}
	return ports.ImageBuffer{}, &pipeline.FetchError{URL: url, Reason: "not found", Err: fmt.Errorf("status 404")}
}

// CallCount returns the number of Fetch calls.
func (m *ImageFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

var _ ports.ImageFetcher = (*ImageFetcher)(nil)

// URLValidator allows a fixed set of URLs, or everything when AllowAll is set.
type URLValidator struct {
	AllowAll bool
	Allowed  map[string]bool
}

func (m *URLValidator) IsAllowed(rawURL string) bool {
	return m.AllowAll || m.Allowed[rawURL]
}

var _ ports.URLValidator = (*URLValidator)(nil)
