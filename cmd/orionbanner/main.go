// Package main provides the CLI entry point for orionbanner.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/user/orionbanner/pkg/adapters/jwtauth"
	"github.com/user/orionbanner/pkg/adapters/logger"
	"github.com/user/orionbanner/pkg/config"
	"github.com/user/orionbanner/pkg/metrics"
	"github.com/user/orionbanner/pkg/ports"
	"github.com/user/orionbanner/pkg/server"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "orionbanner",
		Usage:   l10n.T("Generate promotional banners for movies and series"),
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"ORION_CONFIG"}, Usage: l10n.T("YAML configuration file")},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output")},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Write intermediate artifacts to the debug directory")},
			&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output")},
		},
		Commands: []*cli.Command{
			serveCommand(),
			renderCommand(),
			tokenCommand(),
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Println(l10n.F("orionbanner version %s", version))
					return nil
				},
			},
		},
	}
}

// loadConfig merges defaults, the config file, the environment and global
// flags, in that order.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.LookupEnv)

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(c *cli.Context, cfg config.Config) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(cfg.Level())
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: l10n.T("Run the HTTP API"),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: l10n.T("Listen address (overrides server.addr)")},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.IsSet("addr") {
				cfg.Server.Addr = c.String("addr")
			}
			log := newLogger(c, cfg)

			verifier, err := jwtauth.New([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer)
			if err != nil {
				return fmt.Errorf("auth: %w", err)
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := metrics.New(reg)

			comps, err := build(cfg, log, m)
			if err != nil {
				return err
			}
			proxies, err := cfg.TrustedProxies()
			if err != nil {
				return err
			}

			srv := server.New(server.Deps{
				Compositor: comps.compositor,
				Themes:     comps.themes,
				Verifier:   verifier,
				Caches:     []server.Clearer{comps.images, comps.queries},
				Metrics:    m,
				Gatherer:   reg,
				Logger:     log,
			}, server.Options{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				MaxBodyBytes:    cfg.Server.MaxBodyBytes,
				RateRequests:    cfg.Server.RateLimit.Requests,
				RateWindow:      cfg.Server.RateLimit.Window,
				TrustedProxies:  proxies,
			})

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Warn(l10n.T("Interrupted, shutting down..."))
			}
			return srv.Shutdown(context.Background())
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: l10n.T("Compose one banner from a JSON request file"),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "request", Aliases: []string{"r"}, Required: true, Usage: l10n.T("Request JSON, same fields as POST /api/gerar-banner")},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output PNG path (default: banner_<title>.png)")},
			&cli.StringFlag{Name: "user", Usage: l10n.T("User id used for the logo lookup")},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			log := newLogger(c, cfg)

			comps, err := build(cfg, log, nil)
			if err != nil {
				return err
			}

			data, err := comps.fs.ReadFile(c.String("request"))
			if err != nil {
				return fmt.Errorf("read request: %w", err)
			}
			req, err := server.DecodeRequest(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("parse request: %w", err)
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := comps.compositor.Compose(ctx, req, c.String("user"))
			if err != nil {
				return err
			}

			output := c.String("output")
			if output == "" {
				output = result.Filename
			}
			if err := comps.fs.WriteFile(output, result.PNG); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			log.Info(l10n.F("Output saved to %s", output))
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: l10n.T("Issue a bearer token for local testing"),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Required: true, Usage: l10n.T("User id carried in the sub claim")},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: l10n.T("Token lifetime")},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New(l10n.T("auth.jwt_secret or ORION_JWT_SECRET is required"))
			}
			v, err := jwtauth.New([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer)
			if err != nil {
				return err
			}
			token, err := v.Sign(c.String("user"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
}
