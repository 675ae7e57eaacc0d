// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"path/filepath"
	"time"

	"github.com/user/orionbanner/pkg/ports"
)

// Sink saves debug output to files under baseDir/<yyyymmdd>/<tag>/.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
	now     func() time.Time
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
		now:     time.Now,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveRequestJSON saves the normalized request.
func (s *Sink) SaveRequestJSON(tag string, data []byte) error {
	return s.fs.WriteFile(s.path(tag, "request.json"), data)
}

// SaveOverlaySVG saves the overlay markup.
func (s *Sink) SaveOverlaySVG(tag string, data []byte) error {
	return s.fs.WriteFile(s.path(tag, "overlay.svg"), data)
}

// SaveBanner saves the final PNG.
func (s *Sink) SaveBanner(tag string, data []byte) error {
	return s.fs.WriteFile(s.path(tag, "banner.png"), data)
}

// path groups artifacts by tag and day; tags are already filename-safe.
func (s *Sink) path(tag, name string) string {
	if tag == "" {
		tag = "untitled"
	}
	return filepath.Join(s.baseDir, s.now().Format("20060102"), tag, name)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
