package urlguard

import "testing"

func TestValidator_IsAllowed(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"tmdb image cdn", "https://image.tmdb.org/t/p/w500/x.jpg", true},
		{"tmdb main domain", "https://www.themoviedb.org/t/p/original/a.png", true},
		{"tmdb apex", "https://themoviedb.org/a.png", true},
		{"cloudinary", "https://res.cloudinary.com/demo/image/upload/roxo.png", true},
		{"http allowed host", "http://image.tmdb.org/t/p/w500/x.jpg", true},
		{"uppercase host", "https://IMAGE.TMDB.ORG/t/p/w500/x.jpg", true},
		{"empty", "", false},
		{"file scheme", "file:///etc/passwd", false},
		{"local path", "/etc/passwd", false},
		{"ftp scheme", "ftp://image.tmdb.org/x.jpg", false},
		{"no scheme", "image.tmdb.org/t/p/w500/x.jpg", false},
		{"opaque", "https:image.tmdb.org", false},
		{"other host", "https://evil.example.com/x.jpg", false},
		{"suffix trick", "https://notimage.tmdb.org.evil.com/x.jpg", false},
		{"lookalike", "https://eviltmdb.org/x.jpg", false},
		{"lookalike apex", "https://fakethemoviedb.org/x.jpg", false},
		{"userinfo", "https://image.tmdb.org@evil.com/x.jpg", false},
		{"garbage", "ht!tp://%%%", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.IsAllowed(tt.url); got != tt.want {
				t.Errorf("IsAllowed(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestValidator_CustomHosts(t *testing.T) {
	v := New("assets.fanart.tv", " Example.COM. ")

	if !v.IsAllowed("https://assets.fanart.tv/fanart/movies/1/bg.jpg") {
		t.Error("expected fanart host to be allowed")
	}
	if !v.IsAllowed("https://cdn.example.com/a.png") {
		t.Error("expected subdomain of normalized host to be allowed")
	}
	if v.IsAllowed("https://image.tmdb.org/t/p/w500/x.jpg") {
		t.Error("default hosts must not apply when a custom list is given")
	}
	if got := v.Hosts(); len(got) != 2 || got[1] != "example.com" {
		t.Errorf("Hosts() = %v", got)
	}
}

func TestValidator_EveryAllowedHostAcceptsHTTPS(t *testing.T) {
	v := New()
	for _, host := range DefaultHosts {
		url := "https://" + host + "/some/image.png"
		if !v.IsAllowed(url) {
			t.Errorf("expected %q to be allowed", url)
		}
		sub := "https://cdn." + host + "/some/image.png"
		if !v.IsAllowed(sub) {
			t.Errorf("expected subdomain %q to be allowed", sub)
		}
	}
}
