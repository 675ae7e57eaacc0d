package ports

import "context"

// UserDirectory resolves profile data for authenticated users.
type UserDirectory interface {
	// LogoURL returns the user's logo URL, or "" when the user has none.
	LogoURL(ctx context.Context, userID string) (string, error)
}

// BackdropProvider looks up backdrop artwork for a title.
type BackdropProvider interface {
	// Backdrops returns candidate image URLs, best first.
	// mediaType is "movie" or "tv".
	Backdrops(ctx context.Context, id int64, mediaType string) ([]string, error)
}

// TokenVerifier validates bearer tokens issued by the identity provider.
type TokenVerifier interface {
	// Verify returns the user id carried by a valid token.
	Verify(ctx context.Context, token string) (string, error)
}
