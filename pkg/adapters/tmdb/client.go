// Package tmdb looks up backdrop artwork through The Movie Database API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/user/orionbanner/pkg/cache"
	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

const (
	// DefaultBaseURL is the v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// ImageBaseURL serves artwork at original resolution.
	ImageBaseURL = "https://image.tmdb.org/t/p/original"

	defaultTimeout = 10 * time.Second
)

// Client implements ports.BackdropProvider.
type Client struct {
	http    *http.Client
	apiKey  string
	baseURL string
	queries *cache.TTL[string, []string]
	logger  ports.Logger
	delay   time.Duration
}

// New creates a Client. queries may be nil to disable response caching.
func New(client *http.Client, apiKey, baseURL string, queries *cache.TTL[string, []string], logger ports.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    client,
		apiKey:  apiKey,
		baseURL: baseURL,
		queries: queries,
		logger:  logger.WithComponent("tmdb"),
		delay:   300 * time.Millisecond,
	}
}

type image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Language    *string `json:"iso_639_1"`
}

type imagesResponse struct {
	ID        int64   `json:"id"`
	Backdrops []image `json:"backdrops"`
}

// Backdrops returns backdrop URLs for a movie or tv show, best first.
// Textless backdrops rank ahead of localized ones.
func (c *Client) Backdrops(ctx context.Context, id int64, mediaType string) ([]string, error) {
	if id <= 0 {
		return nil, fmt.Errorf("tmdb: invalid id %d", id)
	}
	kind := pipeline.NormalizeMediaType(mediaType)
	key := fmt.Sprintf("tmdb:%s:%d", kind, id)

	if c.queries != nil {
		if urls, ok := c.queries.Get(key); ok {
			c.logger.Debug("Cache hit for %s", key)
			return urls, nil
		}
	}

	var resp imagesResponse
	err := retry.Do(
		func() error { return c.get(ctx, fmt.Sprintf("/%s/%d/images", kind, id), &resp) },
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	urls := rankBackdrops(resp.Backdrops)
	if c.queries != nil {
		c.queries.Set(key, urls)
	}
	c.logger.Debug("Found %d backdrops for %s", len(urls), key)
	return urls, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return retry.Unrecoverable(err)
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	q.Set("include_image_language", "null,pt,en")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("tmdb %s: status %d: %s", path, resp.StatusCode, snippet)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return retry.Unrecoverable(err)
		}
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Unrecoverable(fmt.Errorf("tmdb decode: %w", err))
	}
	return nil
}

func rankBackdrops(images []image) []string {
	sorted := make([]image, 0, len(images))
	for _, img := range images {
		if img.FilePath != "" {
			sorted = append(sorted, img)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if (a.Language == nil) != (b.Language == nil) {
			return a.Language == nil
		}
		if a.VoteAverage != b.VoteAverage {
			return a.VoteAverage > b.VoteAverage
		}
		return a.Width > b.Width
	})

	urls := make([]string, len(sorted))
	for i, img := range sorted {
		urls[i] = ImageBaseURL + img.FilePath
	}
	return urls
}

// Ensure Client implements ports.BackdropProvider
var _ ports.BackdropProvider = (*Client)(nil)
