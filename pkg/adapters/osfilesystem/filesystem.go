// Package osfilesystem provides a filesystem implementation using the os package.
package osfilesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/orionbanner/pkg/ports"
)

// FileSystem implements ports.FileSystem using the os package.
// Relative paths are resolved against root when it is set.
type FileSystem struct {
	root string
}

// New creates a FileSystem rooted at the working directory.
func New() *FileSystem {
	return &FileSystem{}
}

// NewRooted creates a FileSystem that resolves relative paths against root.
func NewRooted(root string) *FileSystem {
	return &FileSystem{root: root}
}

func (fs *FileSystem) resolve(path string) string {
	if fs.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(fs.root, path)
}

// ReadFile reads the entire contents of a file.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(fs.resolve(path))
}

// WriteFile writes data through a temporary file in the same directory and
// renames it into place, so readers never see a partial banner.
func (fs *FileSystem) WriteFile(path string, data []byte) error {
	path = fs.resolve(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// MkdirAll creates a directory and all parent directories.
func (fs *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(fs.resolve(path), 0755)
}

// Exists checks if a file or directory exists.
func (fs *FileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(fs.resolve(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Ensure FileSystem implements ports.FileSystem
var _ ports.FileSystem = (*FileSystem)(nil)
