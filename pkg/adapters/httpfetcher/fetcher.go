// Package httpfetcher downloads remote images and normalizes them to PNG.
package httpfetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/user/orionbanner/pkg/cache"
	"github.com/user/orionbanner/pkg/metrics"
	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

// Defaults for Config fields left at zero.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "OrionBannerBot/1.0 (+https://orion.app)"
	DefaultMaxBytes  = 20 << 20
	DefaultMaxPixels = 40_000_000
)

// Config controls outbound requests.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	// MaxPixels bounds width*height, checked from the header before decoding.
	MaxPixels int64
}

// Fetcher implements ports.ImageFetcher over HTTP.
type Fetcher struct {
	client   *http.Client
	guard    ports.URLValidator
	renderer ports.Renderer
	cache    *cache.TTL[string, ports.ImageBuffer]
	metrics  *metrics.Metrics
	logger   ports.Logger
	cfg      Config
}

// New creates a Fetcher. images may be nil to disable caching; m may be nil.
func New(
	client *http.Client,
	guard ports.URLValidator,
	renderer ports.Renderer,
	images *cache.TTL[string, ports.ImageBuffer],
	m *metrics.Metrics,
	logger ports.Logger,
	cfg Config,
) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = DefaultMaxPixels
	}
	return &Fetcher{
		client:   client,
		guard:    guard,
		renderer: renderer,
		cache:    images,
		metrics:  m,
		logger:   logger.WithComponent("fetcher"),
		cfg:      cfg,
	}
}

// Fetch validates url, downloads it and returns it as PNG.
// Nothing is cached unless the body decoded as an image.
func (f *Fetcher) Fetch(ctx context.Context, url string, useCache bool) (ports.ImageBuffer, error) {
	if !f.guard.IsAllowed(url) {
		return ports.ImageBuffer{}, &pipeline.FetchError{URL: url, Reason: "host not allowed"}
	}

	if useCache && f.cache != nil {
		if buf, ok := f.cache.Get(url); ok {
			f.metrics.ObserveCache(true)
			f.logger.Debug("Cache hit for %s", url)
			return buf, nil
		}
		f.metrics.ObserveCache(false)
	}

	buf, err := f.download(ctx, url)
	f.metrics.ObserveFetch(err == nil)
	if err != nil {
		return ports.ImageBuffer{}, err
	}

	if useCache && f.cache != nil {
		f.cache.Set(url, buf)
	}
	f.logger.Debug("Fetched %s (%s, %dx%d)", url, buf.SourceFormat, buf.Width, buf.Height)
	return buf, nil
}

func (f *Fetcher) download(ctx context.Context, url string) (ports.ImageBuffer, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.ImageBuffer{}, &pipeline.FetchError{URL: url, Reason: "bad request", Err: err}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		reason := "request failed"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		return ports.ImageBuffer{}, &pipeline.FetchError{URL: url, Reason: reason, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return ports.ImageBuffer{}, &pipeline.FetchError{URL: url, Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return ports.ImageBuffer{}, &pipeline.FetchError{URL: url, Reason: "read body", Err: err}
	}
	if int64(len(body)) > f.cfg.MaxBytes {
		return ports.ImageBuffer{}, &pipeline.FetchError{URL: url, Reason: fmt.Sprintf("body exceeds %d bytes", f.cfg.MaxBytes)}
	}

	mt := mimetype.Detect(body)
	if !strings.HasPrefix(mt.String(), "image/") {
		return ports.ImageBuffer{}, &pipeline.FetchError{URL: url, Reason: "not an image: " + mt.String()}
	}

	header, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return ports.ImageBuffer{}, &pipeline.FetchError{URL: url, Reason: "decode header " + mt.Extension(), Err: err}
	}
	if pixels := int64(header.Width) * int64(header.Height); pixels > f.cfg.MaxPixels {
		return ports.ImageBuffer{}, &pipeline.FetchError{
			URL:    url,
			Reason: fmt.Sprintf("image %dx%d exceeds %d pixels", header.Width, header.Height, f.cfg.MaxPixels),
		}
	}

	img, format, err := f.renderer.DecodeImage(body, ports.FormatAuto)
	if err != nil {
		return ports.ImageBuffer{}, &pipeline.FetchError{URL: url, Reason: "decode " + mt.Extension(), Err: err}
	}

	png, err := f.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return ports.ImageBuffer{}, &pipeline.FetchError{URL: url, Reason: "normalize", Err: err}
	}

	b := img.Bounds()
	return ports.ImageBuffer{
		Data:         png,
		SourceFormat: format,
		Width:        b.Dx(),
		Height:       b.Dy(),
	}, nil
}

// Ensure Fetcher implements ports.ImageFetcher
var _ ports.ImageFetcher = (*Fetcher)(nil)
