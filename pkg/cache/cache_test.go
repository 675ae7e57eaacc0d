package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTTL_SetGet(t *testing.T) {
	c := New[string, []byte](time.Hour)

	c.Set("k", []byte("v"))
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != "v" {
		t.Errorf("got %q, want %q", got, "v")
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestTTL_ExpiresAfterTTL(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](30*time.Minute, WithClock(clock.Now))

	c.Set("k", 1)
	clock.Advance(29 * time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit before ttl")
	}

	clock.Advance(time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss once ttl elapsed")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be evicted on read, len = %d", c.Len())
	}
}

func TestTTL_SetReplacesAndResetsAge(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](time.Minute, WithClock(clock.Now))

	c.Set("k", 1)
	clock.Advance(50 * time.Second)
	c.Set("k", 2)
	clock.Advance(50 * time.Second)

	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Errorf("Get = %d, %v; want 2, true", got, ok)
	}
}

func TestTTL_SweepAboveHighWater(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](time.Minute, WithClock(clock.Now), WithHighWater(10))

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("old-%d", i), i)
	}
	clock.Advance(2 * time.Minute)

	// At the mark: no sweep yet.
	if c.Len() != 10 {
		t.Fatalf("len = %d, want 10", c.Len())
	}

	c.Set("fresh", 42)
	if c.Len() != 1 {
		t.Errorf("len after sweep = %d, want 1", c.Len())
	}
	if v, ok := c.Get("fresh"); !ok || v != 42 {
		t.Errorf("fresh entry lost: %d, %v", v, ok)
	}
}

func TestTTL_SweepKeepsLiveEntries(t *testing.T) {
	c := New[int, int](time.Hour, WithHighWater(5))
	for i := 0; i < 20; i++ {
		c.Set(i, i)
	}
	if c.Len() != 20 {
		t.Errorf("live entries must survive the sweep, len = %d", c.Len())
	}
}

func TestTTL_Clear(t *testing.T) {
	c := New[string, int](time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("len = %d after Clear", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after Clear")
	}
}

func TestTTL_IndependentInstances(t *testing.T) {
	images := New[string, []byte](time.Hour)
	queries := New[string, []string](30 * time.Minute)

	images.Set("https://image.tmdb.org/a.jpg", []byte{1})
	queries.Set("https://image.tmdb.org/a.jpg", []string{"x"})
	images.Clear()

	if _, ok := queries.Get("https://image.tmdb.org/a.jpg"); !ok {
		t.Error("clearing one cache must not affect the other")
	}
}

func TestTTL_ConcurrentAccess(t *testing.T) {
	c := New[int, int](time.Hour, WithHighWater(50))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Set(w*1000+i, i)
				c.Get(w*1000 + i)
			}
		}(w)
	}
	wg.Wait()

	if c.Len() != 8*200 {
		t.Errorf("len = %d, want %d", c.Len(), 8*200)
	}
}
