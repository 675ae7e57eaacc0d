// Package userdir resolves user profiles from a YAML file.
//
// File format:
//
//	users:
//	  uid-123:
//	    name: Cine Orion
//	    logo_url: https://res.cloudinary.com/orion/image/upload/logos/uid-123.png
package userdir

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/orionbanner/pkg/ports"
)

// Profile is one user entry.
type Profile struct {
	Name    string `yaml:"name"`
	LogoURL string `yaml:"logo_url"`
}

type file struct {
	Users map[string]Profile `yaml:"users"`
}

// Directory implements ports.UserDirectory over an in-memory map.
type Directory struct {
	users map[string]Profile
}

// New creates a Directory from profiles.
func New(users map[string]Profile) *Directory {
	if users == nil {
		users = map[string]Profile{}
	}
	return &Directory{users: users}
}

// Load reads a directory file. An empty path yields an empty directory.
func Load(fs ports.FileSystem, path string) (*Directory, error) {
	if path == "" {
		return New(nil), nil
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	return New(f.Users), nil
}

// LogoURL returns the user's logo URL, or "" for unknown users.
func (d *Directory) LogoURL(ctx context.Context, userID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(d.users[userID].LogoURL), nil
}

// Len returns the number of known users.
func (d *Directory) Len() int {
	return len(d.users)
}

// Ensure Directory implements ports.UserDirectory
var _ ports.UserDirectory = (*Directory)(nil)
