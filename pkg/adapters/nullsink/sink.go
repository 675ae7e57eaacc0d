// Package nullsink provides a no-op debug sink implementation.
package nullsink

import "github.com/user/orionbanner/pkg/ports"

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveRequestJSON does nothing.
func (s *Sink) SaveRequestJSON(tag string, data []byte) error {
	return nil
}

// SaveOverlaySVG does nothing.
func (s *Sink) SaveOverlaySVG(tag string, data []byte) error {
	return nil
}

// SaveBanner does nothing.
func (s *Sink) SaveBanner(tag string, data []byte) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
