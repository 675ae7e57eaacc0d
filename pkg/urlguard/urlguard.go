// Package urlguard decides which remote URLs the service may fetch.
package urlguard

import (
	"net/url"
	"strings"
)

// DefaultHosts are the image hosts accepted when no allow-list is configured:
// the static thumbnail CDN, the TMDB image CDN and the TMDB main domain.
var DefaultHosts = []string{
	"res.cloudinary.com",
	"image.tmdb.org",
	"themoviedb.org",
}

// Validator checks URLs against a host allow-list.
// It is safe for concurrent use; the allow-list is fixed at construction.
type Validator struct {
	hosts []string
}

// New creates a Validator. Hosts are matched case-insensitively, either
// exactly or as a parent domain.
func New(hosts ...string) *Validator {
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.Trim(strings.ToLower(strings.TrimSpace(h)), ".")
		if h != "" {
			normalized = append(normalized, h)
		}
	}
	return &Validator{hosts: normalized}
}

// Hosts returns a copy of the allow-list.
func (v *Validator) Hosts() []string {
	out := make([]string, len(v.hosts))
	copy(out, v.hosts)
	return out
}

// IsAllowed reports whether rawURL may be fetched. Rules, in order: non-empty,
// not a local path, absolute http(s) URL with a host, host on the allow-list.
func (v *Validator) IsAllowed(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	if strings.HasPrefix(strings.ToLower(rawURL), "file://") || strings.HasPrefix(rawURL, "/") {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Opaque != "" || u.User != nil {
		return false
	}
	// Require "scheme://" literally; url.Parse accepts "https:host".
	if !strings.HasPrefix(strings.ToLower(rawURL), u.Scheme+"://") {
		return false
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return false
	}
	for _, allowed := range v.hosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
