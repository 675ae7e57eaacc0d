package fanart

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

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.Client(), "key", srv.URL, cache.New[string, []string](time.Minute), logger.NewNoop())
	c.delay = time.Millisecond
	return c, &hits
}

func TestBackdrops_OrderedByLikes(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movies/603" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"moviebackground": [
			{"id": "1", "url": "https://assets.fanart.tv/a.jpg", "lang": "", "likes": "2"},
			{"id": "2", "url": "https://assets.fanart.tv/b.jpg", "lang": "", "likes": "11"},
			{"id": "3", "url": "", "lang": "", "likes": "50"}
		]}`))
	})

	urls, err := c.Backdrops(context.Background(), 603, "movie")
	if err != nil {
		t.Fatalf("Backdrops() error = %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://assets.fanart.tv/b.jpg" {
		t.Errorf("urls = %v", urls)
	}
}

func TestBackdrops_NotFoundIsEmpty(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	for i := 0; i < 2; i++ {
		urls, err := c.Backdrops(context.Background(), 42, "movie")
		if err != nil || len(urls) != 0 {
			t.Fatalf("Backdrops() = %v, %v", urls, err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("empty result should be cached, hits = %d", hits.Load())
	}
}

func TestBackdrops_TVSkipsRequest(t *testing.T) {
	for _, mediaType := range []string{"tv", "series", "serie", "TV"} {
		t.Run(mediaType, func(t *testing.T) {
			c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
			urls, err := c.Backdrops(context.Background(), 1399, mediaType)
			if err != nil || urls != nil {
				t.Errorf("Backdrops(%s) = %v, %v", mediaType, urls, err)
			}
			if hits.Load() != 0 {
				t.Error("tv lookups must not call the movie endpoint")
			}
		})
	}
}
