package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/orionbanner/pkg/adapters/logger"
	"github.com/user/orionbanner/pkg/cache"
)

const imagesJSON = `{
  "id": 550,
  "backdrops": [
    {"file_path": "/en.jpg", "width": 3840, "height": 2160, "vote_average": 9.0, "iso_639_1": "en"},
    {"file_path": "/low.jpg", "width": 1280, "height": 720, "vote_average": 5.2, "iso_639_1": null},
    {"file_path": "/best.jpg", "width": 1920, "height": 1080, "vote_average": 5.6, "iso_639_1": null},
    {"file_path": "/wide.jpg", "width": 3840, "height": 2160, "vote_average": 5.2, "iso_639_1": null},
    {"file_path": "", "width": 100, "height": 100, "vote_average": 10, "iso_639_1": null}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.Client(), "k3y", srv.URL, cache.New[string, []string](30*time.Minute), logger.NewNoop())
	c.delay = time.Millisecond
	return c, &hits
}

func TestBackdrops_RankingAndURLs(t *testing.T) {
	var gotPath, gotKey string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		w.Write([]byte(imagesJSON))
	})

	urls, err := c.Backdrops(context.Background(), 550, "movie")
	if err != nil {
		t.Fatalf("Backdrops() error = %v", err)
	}
	if gotPath != "/movie/550/images" || gotKey != "k3y" {
		t.Errorf("request path=%q key=%q", gotPath, gotKey)
	}

	want := []string{
		ImageBaseURL + "/best.jpg",
		ImageBaseURL + "/wide.jpg",
		ImageBaseURL + "/low.jpg",
		ImageBaseURL + "/en.jpg",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestBackdrops_TVPathAndCache(t *testing.T) {
	var gotPath string
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"id": 1399, "backdrops": []}`))
	})

	for _, mediaType := range []string{"tv", "series", "serie"} {
		if _, err := c.Backdrops(context.Background(), 1399, mediaType); err != nil {
			t.Fatalf("Backdrops(%s) error = %v", mediaType, err)
		}
	}
	if gotPath != "/tv/1399/images" {
		t.Errorf("path = %q", gotPath)
	}
	if hits.Load() != 1 {
		t.Errorf("responses should be cached, hits = %d", hits.Load())
	}
}

func TestBackdrops_RetriesServerErrors(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := c.Backdrops(context.Background(), 1, "movie"); err == nil {
		t.Fatal("expected error")
	}
	if hits.Load() != 2 {
		t.Errorf("hits = %d, want 2 attempts", hits.Load())
	}
}

func TestBackdrops_DoesNotRetryClientErrors(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := c.Backdrops(context.Background(), 1, "movie"); err == nil {
		t.Fatal("expected error")
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", hits.Load())
	}
}

func TestBackdrops_InvalidID(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := c.Backdrops(context.Background(), 0, "movie"); err == nil {
		t.Error("expected error for zero id")
	}
	if hits.Load() != 0 {
		t.Error("invalid id must not reach the API")
	}
}
