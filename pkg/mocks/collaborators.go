package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/user/orionbanner/pkg/ports"
)

// UserDirectory is a mock implementation of ports.UserDirectory.
type UserDirectory struct {
	Logos map[string]string
	Err   error
}

func (m *UserDirectory) LogoURL(ctx context.Context, userID string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Logos[userID], nil
}

var _ ports.UserDirectory = (*UserDirectory)(nil)

// BackdropCall records one BackdropProvider.Backdrops call.
type BackdropCall struct {
	ID        int64
	MediaType string
}

// BackdropProvider is a mock implementation of ports.BackdropProvider.
type BackdropProvider struct {
	mu    sync.Mutex
	URLs  []string
	Err   error
	Calls []BackdropCall
}

func (m *BackdropProvider) Backdrops(ctx context.Context, id int64, mediaType string) ([]string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, BackdropCall{ID: id, MediaType: mediaType})
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.URLs, nil
}

var _ ports.BackdropProvider = (*BackdropProvider)(nil)

// ErrInvalidToken is returned by TokenVerifier for unknown tokens.
var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier maps tokens to user ids.
type TokenVerifier struct {
	Tokens map[string]string
}

func (m *TokenVerifier) Verify(ctx context.Context, token string) (string, error) {
	if uid, ok := m.Tokens[token]; ok {
		return uid, nil
	}
	return "", ErrInvalidToken
}

var _ ports.TokenVerifier = (*TokenVerifier)(nil)
