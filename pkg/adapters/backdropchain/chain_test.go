package backdropchain

import (
	"context"
	"errors"
	"testing"

	"github.com/user/orionbanner/pkg/mocks"
)

func TestChain_FirstNonEmptyWins(t *testing.T) {
	empty := &mocks.BackdropProvider{}
	first := &mocks.BackdropProvider{URLs: []string{"https://image.tmdb.org/t/p/original/a.jpg"}}
	second := &mocks.BackdropProvider{URLs: []string{"https://assets.fanart.tv/b.jpg"}}

	urls, err := New(empty, first, second).Backdrops(context.Background(), 1, "movie")
	if err != nil {
		t.Fatalf("Backdrops() error = %v", err)
	}
	if len(urls) != 1 || urls[0] != first.URLs[0] {
		t.Errorf("urls = %v", urls)
	}
	if len(second.Calls) != 0 {
		t.Error("providers after a hit must not be queried")
	}
	if len(empty.Calls) != 1 || empty.Calls[0].ID != 1 || empty.Calls[0].MediaType != "movie" {
		t.Errorf("empty provider calls = %+v", empty.Calls)
	}
}

func TestChain_ErrorThenSuccess(t *testing.T) {
	failing := &mocks.BackdropProvider{Err: errors.New("tmdb down")}
	ok := &mocks.BackdropProvider{URLs: []string{"https://assets.fanart.tv/b.jpg"}}

	urls, err := New(failing, nil, ok).Backdrops(context.Background(), 1, "movie")
	if err != nil || len(urls) != 1 {
		t.Errorf("Backdrops() = %v, %v", urls, err)
	}
}

func TestChain_AllFail(t *testing.T) {
	e1, e2 := errors.New("a"), errors.New("b")
	_, err := New(&mocks.BackdropProvider{Err: e1}, &mocks.BackdropProvider{Err: e2}).
		Backdrops(context.Background(), 1, "movie")
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("expected joined errors, got %v", err)
	}
}

func TestChain_EmptyChain(t *testing.T) {
	c := New()
	if c.Len() != 0 {
		t.Errorf("Len() = %d", c.Len())
	}
	urls, err := c.Backdrops(context.Background(), 1, "movie")
	if err != nil || urls != nil {
		t.Errorf("Backdrops() = %v, %v", urls, err)
	}
}
