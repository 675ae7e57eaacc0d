package filesink

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/orionbanner/pkg/adapters/osfilesystem"
	"github.com/user/orionbanner/pkg/mocks"
)

var testBaseDir = filepath.Join("debug")

func newTestSink(fs *mocks.FileSystem) *Sink {
	s := New(testBaseDir, fs)
	s.now = func() time.Time { return time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSink_Enabled(t *testing.T) {
	if !New(testBaseDir, mocks.NewFileSystem()).Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_Save(t *testing.T) {
	tests := []struct {
		name string
		save func(*Sink, string, []byte) error
		file string
	}{
		{"request", (*Sink).SaveRequestJSON, "request.json"},
		{"overlay", (*Sink).SaveOverlaySVG, "overlay.svg"},
		{"banner", (*Sink).SaveBanner, "banner.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewFileSystem()
			sink := newTestSink(fs)

			data := []byte("payload-" + tt.name)
			if err := tt.save(sink, "Duna", data); err != nil {
				t.Fatalf("save failed: %v", err)
			}

			want := filepath.Join(testBaseDir, "20250309", "Duna", tt.file)
			saved, ok := fs.GetFile(want)
			if !ok {
				t.Fatalf("expected file at %s, got %v", want, fs.GetAllFiles())
			}
			if string(saved) != string(data) {
				t.Errorf("expected %q, got %q", data, saved)
			}
		})
	}
}

func TestSink_EmptyTag(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := newTestSink(fs)

	sink.SaveBanner("", []byte("x"))

	if _, ok := fs.GetFile(filepath.Join(testBaseDir, "20250309", "untitled", "banner.png")); !ok {
		t.Errorf("empty tag should map to untitled, got %v", fs.GetAllFiles())
	}
}

func TestSink_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	boom := errors.New("read-only")
	fs.WriteFileFunc = func(string, []byte) error { return boom }

	if err := newTestSink(fs).SaveOverlaySVG("t", nil); !errors.Is(err, boom) {
		t.Errorf("expected write error, got %v", err)
	}
}

func TestSink_OnDisk(t *testing.T) {
	dir := t.TempDir()
	sink := New(dir, osfilesystem.New())

	if err := sink.SaveRequestJSON("Test_Movie", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*", "Test_Movie", "request.json"))
	if err != nil || len(matches) != 1 {
		t.Errorf("expected one request.json on disk, got %v (%v)", matches, err)
	}
}
