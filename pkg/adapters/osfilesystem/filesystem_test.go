package osfilesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "banner.png")

	if err := fs.WriteFile(path, []byte("hello world")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", data)
	}
}

func TestFileSystem_WriteFileCreatesParentDirsAndLeavesNoTemp(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "out.png")

	if err := fs.WriteFile(path, []byte("x")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := fs.WriteFile(path, []byte("overwritten")); err != nil {
		t.Fatalf("second WriteFile failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.png" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "overwritten" {
		t.Errorf("got %q", data)
	}
}

func TestFileSystem_Exists(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	exists, err := fs.Exists(filepath.Join(dir, "missing"))
	if err != nil || exists {
		t.Errorf("Exists(missing) = %v, %v", exists, err)
	}
	exists, err = fs.Exists(dir)
	if err != nil || !exists {
		t.Errorf("Exists(dir) = %v, %v", exists, err)
	}
}

func TestFileSystem_Rooted(t *testing.T) {
	root := t.TempDir()
	fs := NewRooted(root)

	if err := fs.WriteFile("assets/logo.png", []byte("logo")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "assets", "logo.png")); err != nil {
		t.Errorf("relative path should land under root: %v", err)
	}
	data, err := fs.ReadFile("assets/logo.png")
	if err != nil || string(data) != "logo" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
}
