// Package fanart looks up movie backgrounds on fanart.tv.
package fanart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/user/orionbanner/pkg/cache"
	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

const (
	// DefaultBaseURL is the v3 API root.
	DefaultBaseURL = "https://webservice.fanart.tv/v3"
	// AssetHost serves fanart.tv images.
	AssetHost = "assets.fanart.tv"

	defaultTimeout = 10 * time.Second
)

// Client implements ports.BackdropProvider for movies. TV lookups need a
// TVDB id, which requests do not carry, so they return no results.
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
		logger:  logger.WithComponent("fanart"),
		delay:   300 * time.Millisecond,
	}
}

type artwork struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Lang  string `json:"lang"`
	Likes string `json:"likes"`
}

type movieResponse struct {
	Backgrounds []artwork `json:"moviebackground"`
}

// Backdrops returns background URLs ordered by likes.
func (c *Client) Backdrops(ctx context.Context, id int64, mediaType string) ([]string, error) {
	if pipeline.NormalizeMediaType(mediaType) == pipeline.MediaTV {
		return nil, nil
	}
	if id <= 0 {
		return nil, fmt.Errorf("fanart: invalid id %d", id)
	}
	key := fmt.Sprintf("fanart:movie:%d", id)

	if c.queries != nil {
		if urls, ok := c.queries.Get(key); ok {
			return urls, nil
		}
	}

	var resp movieResponse
	notFound := false
	err := retry.Do(
		func() error {
			var err error
			notFound, err = c.get(ctx, fmt.Sprintf("/movies/%d", id), &resp)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	var urls []string
	if !notFound {
		urls = rank(resp.Backgrounds)
	}
	if c.queries != nil {
		c.queries.Set(key, urls)
	}
	c.logger.Debug("Found %d backdrops for %s", len(urls), key)
	return urls, nil
}

// get reports notFound for a 404, which fanart.tv returns for titles without artwork.
func (c *Client) get(ctx context.Context, path string, out interface{}) (notFound bool, err error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return false, retry.Unrecoverable(err)
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, retry.Unrecoverable(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("fanart request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return true, nil
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("fanart %s: status %d: %s", path, resp.StatusCode, snippet)
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return false, retry.Unrecoverable(err)
		}
		return false, err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, retry.Unrecoverable(fmt.Errorf("fanart decode: %w", err))
	}
	return false, nil
}

func rank(items []artwork) []string {
	sorted := make([]artwork, 0, len(items))
	for _, a := range items {
		if a.URL != "" {
			sorted = append(sorted, a)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		li, _ := strconv.Atoi(sorted[i].Likes)
		lj, _ := strconv.Atoi(sorted[j].Likes)
		return li > lj
	})
	urls := make([]string, len(sorted))
	for i, a := range sorted {
		urls[i] = a.URL
	}
	return urls
}

// Ensure Client implements ports.BackdropProvider
var _ ports.BackdropProvider = (*Client)(nil)
