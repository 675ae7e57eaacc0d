package mocks

import (
	"sync"

	"github.com/user/orionbanner/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
// Artifacts are keyed by tag.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Requests map[string][]byte
	Overlays map[string][]byte
	Banners  map[string][]byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:  enabled,
		Requests: make(map[string][]byte),
		Overlays: make(map[string][]byte),
		Banners:  make(map[string][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveRequestJSON(tag string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[tag] = data
	return nil
}

func (m *DebugSink) SaveOverlaySVG(tag string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Overlays[tag] = data
	return nil
}

func (m *DebugSink) SaveBanner(tag string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Banners[tag] = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
