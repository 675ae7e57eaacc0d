package main

import (
	"fmt"
	"net/http"

	"github.com/user/orionbanner/pkg/adapters/backdropchain"
	"github.com/user/orionbanner/pkg/adapters/fanart"
	"github.com/user/orionbanner/pkg/adapters/filesink"
	"github.com/user/orionbanner/pkg/adapters/ggrenderer"
	"github.com/user/orionbanner/pkg/adapters/httpfetcher"
	"github.com/user/orionbanner/pkg/adapters/nullsink"
	"github.com/user/orionbanner/pkg/adapters/osfilesystem"
	"github.com/user/orionbanner/pkg/adapters/tmdb"
	"github.com/user/orionbanner/pkg/adapters/userdir"
	"github.com/user/orionbanner/pkg/cache"
	"github.com/user/orionbanner/pkg/catalog"
	"github.com/user/orionbanner/pkg/config"
	"github.com/user/orionbanner/pkg/metrics"
	"github.com/user/orionbanner/pkg/orchestrator"
	"github.com/user/orionbanner/pkg/ports"
	"github.com/user/orionbanner/pkg/stages/background"
	"github.com/user/orionbanner/pkg/stages/composite"
	"github.com/user/orionbanner/pkg/stages/layout"
	"github.com/user/orionbanner/pkg/stages/logo"
	"github.com/user/orionbanner/pkg/stages/overlay"
	"github.com/user/orionbanner/pkg/stages/poster"
	"github.com/user/orionbanner/pkg/stages/validate"
	"github.com/user/orionbanner/pkg/svg"
)

// components are the long-lived objects shared by serve and render.
type components struct {
	fs         *osfilesystem.FileSystem
	compositor *orchestrator.Compositor
	themes     *catalog.Catalog
	images     *cache.TTL[string, ports.ImageBuffer]
	queries    *cache.TTL[string, []string]
}

// build wires the pipeline from cfg. m may be nil.
func build(cfg config.Config, log ports.Logger, m *metrics.Metrics) (*components, error) {
	fs := osfilesystem.New()
	guard := cfg.Guard()

	themes, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("colour catalog: %w", err)
	}

	regular, bold, err := loadFonts(fs, cfg.Assets)
	if err != nil {
		return nil, err
	}
	renderer, err := ggrenderer.New(ggrenderer.WithFonts(regular, bold))
	if err != nil {
		return nil, err
	}

	builder, err := svg.NewBuilder()
	if err != nil {
		return nil, err
	}

	images := cache.New[string, ports.ImageBuffer](cfg.Cache.ImageTTL, cache.WithHighWater(cfg.Cache.HighWater))
	queries := cache.New[string, []string](cfg.Cache.QueryTTL, cache.WithHighWater(cfg.Cache.HighWater))

	client := &http.Client{}
	fetcher := httpfetcher.New(client, guard, renderer, images, m, log, httpfetcher.Config{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
		MaxBytes:  cfg.Fetch.MaxBytes,
		MaxPixels: cfg.Fetch.MaxPixels,
	})

	var providers []ports.BackdropProvider
	if cfg.TMDB.APIKey != "" {
		providers = append(providers, tmdb.New(&http.Client{Timeout: cfg.Fetch.Timeout}, cfg.TMDB.APIKey, cfg.TMDB.BaseURL, queries, log))
	}
	if cfg.Fanart.APIKey != "" {
		providers = append(providers, fanart.New(&http.Client{Timeout: cfg.Fetch.Timeout}, cfg.Fanart.APIKey, cfg.Fanart.BaseURL, queries, log))
	}
	var backdrops ports.BackdropProvider
	if chain := backdropchain.New(providers...); chain.Len() > 0 {
		backdrops = chain
	} else {
		log.Warn("No metadata provider configured; exclusive banners use explicit backdrops only")
	}

	users, err := userdir.Load(fs, cfg.UsersFile)
	if err != nil {
		return nil, fmt.Errorf("users file: %w", err)
	}

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs)
	} else {
		sink = nullsink.New()
	}

	stages := orchestrator.Stages{
		Validate:   validate.NewStage(guard, themes, log),
		Layout:     layout.NewStage(),
		Background: background.NewStage(fetcher, renderer, guard, backdrops, themes, log),
		Poster:     poster.NewStage(fetcher, renderer, log),
		Overlay:    overlay.NewStage(builder, sink, log),
		Logo:       logo.NewStage(users, guard, fetcher, renderer, fs, cfg.Assets.DefaultLogo, log),
		Composite:  composite.NewStage(renderer, sink, log),
	}

	return &components{
		fs:         fs,
		compositor: orchestrator.New(stages, sink, m, log),
		themes:     themes,
		images:     images,
		queries:    queries,
	}, nil
}

// loadFonts reads the optional font overrides. Missing paths keep the
// embedded Go fonts.
func loadFonts(fs ports.FileSystem, assets config.AssetsConfig) (regular, bold []byte, err error) {
	if assets.FontRegular != "" {
		if regular, err = fs.ReadFile(assets.FontRegular); err != nil {
			return nil, nil, fmt.Errorf("read regular font: %w", err)
		}
	}
	if assets.FontBold != "" {
		if bold, err = fs.ReadFile(assets.FontBold); err != nil {
			return nil, nil, fmt.Errorf("read bold font: %w", err)
		}
	}
	return regular, bold, nil
}
