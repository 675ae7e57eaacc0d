// Package cache provides an in-memory key/value store with per-entry expiry.
package cache

import (
	"sync"
	"time"
)

// DefaultHighWater is the entry count above which Set sweeps expired entries.
const DefaultHighWater = 1000

type entry[V any] struct {
	value    V
	inserted time.Time
}

// Option configures a TTL cache.
type Option func(*settings)

type settings struct {
	now       func() time.Time
	highWater int
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithHighWater overrides the size that triggers an expiry sweep.
func WithHighWater(n int) Option {
	return func(s *settings) { s.highWater = n }
}

// TTL is a map whose entries expire ttl after insertion.
// Expired entries are dropped when read, and swept in bulk when the map
// grows past the high-water mark. Concurrent misses for the same key are
// not coalesced; the last Set wins.
type TTL[K comparable, V any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	entries   map[K]entry[V]
	now       func() time.Time
	highWater int
}

// New creates a TTL cache.
func New[K comparable, V any](ttl time.Duration, opts ...Option) *TTL[K, V] {
	s := settings{now: time.Now, highWater: DefaultHighWater}
	for _, opt := range opts {
		opt(&s)
	}
	return &TTL[K, V]{
		ttl:       ttl,
		entries:   make(map[K]entry[V]),
		now:       s.now,
		highWater: s.highWater,
	}
}

// Get returns the value for key if present and not expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.expired(e) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, inserted: c.now()}
	if len(c.entries) > c.highWater {
		c.sweepLocked()
	}
}

// Delete removes key.
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *TTL[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]entry[V])
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TTL returns the configured entry lifetime.
func (c *TTL[K, V]) TTL() time.Duration {
	return c.ttl
}

func (c *TTL[K, V]) expired(e entry[V]) bool {
	return c.now().Sub(e.inserted) >= c.ttl
}

func (c *TTL[K, V]) sweepLocked() {
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
		}
	}
}
