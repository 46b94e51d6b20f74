// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app assembles the LawIA web server from its configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/lawia/lawia-web/internal/activity"
	"github.com/lawia/lawia-web/internal/api"
	"github.com/lawia/lawia-web/internal/api/handlers"
	"github.com/lawia/lawia-web/internal/config"
	"github.com/lawia/lawia-web/internal/logging"
	"github.com/lawia/lawia-web/internal/views"
	"github.com/lawia/lawia-web/internal/watcher"
	"github.com/lawia/lawia-web/pkg/client"
)

// templateDebounce coalesces editor save bursts before re-parsing templates.
const templateDebounce = 200 * time.Millisecond

// App is the main application container.
type App struct {
	mu sync.Mutex

	version   string
	config    *config.Config
	log       logging.Logger
	api       *client.Client
	bus       *activity.MemoryBus
	renderer  *views.Renderer
	templates *watcher.DirWatcher
	server    *api.Server

	done     chan struct{}
	stopOnce sync.Once
}

// Options holds configuration options for the app.
type Options struct {
	ConfigPath string
	Host       string
	Port       int
	APIURL     string
	Debug      bool
	Version    string    // Application version string
	LogOutput  io.Writer // Defaults to stderr
}

// New loads the configuration and builds every component. Nothing listens
// until Run.
func New(opts Options) (*App, error) {
	loader := config.NewLoader()
	cfg, err := loader.LoadWithDefaults(context.Background(), opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Command line wins over file and environment
	if opts.Host != "" {
		cfg.Server.Host = opts.Host
	}
	if opts.Port > 0 {
		cfg.Server.Port = opts.Port
	}
	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
	}
	if opts.Debug {
		cfg.Logging.Level = "debug"
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, err
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	log := logging.New(out, cfg.Logging.Level, cfg.Logging.Format)

	app := &App{
		version: opts.Version,
		config:  cfg,
		log:     log,
		done:    make(chan struct{}),
	}

	app.api = client.New(cfg.API.BaseURL,
		client.WithTimeout(config.ParseDuration(cfg.API.Timeout, 30*time.Second)),
		client.WithReportsPath(cfg.API.ReportsPath),
		client.WithHealthPath(cfg.API.HealthPath),
		client.WithUserAgent("lawia-web/"+opts.Version),
	)

	app.bus = activity.NewMemoryBus(activity.Config{
		MaxEvents: cfg.Activity.MaxEvents,
		MaxAge:    config.ParseDuration(cfg.Activity.MaxAge, 24*time.Hour),
		Logger:    log,
	})

	viewsDir := ""
	if cfg.UI.TemplatesDir != "" {
		viewsDir = resolveDir(opts.ConfigPath, cfg.UI.TemplatesDir)
	}
	app.renderer, err = views.New(views.Options{Dir: viewsDir, Logger: log})
	if err != nil {
		app.bus.Close()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	if viewsDir != "" {
		app.templates, err = watcher.WatchDir(viewsDir, templateDebounce, app.reloadTemplates, log)
		if err != nil {
			// Templates still render, they just need a restart to change
			log.Warn(context.Background(), "template watcher disabled", "dir", viewsDir, "error", err)
		}
	}

	app.server = api.NewServer(api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		TLSCert:         cfg.Server.TLSCert,
		TLSKey:          cfg.Server.TLSKey,
		TLSTailscale:    cfg.Server.TLSTailscale,
		ShutdownTimeout: config.ParseDuration(cfg.Server.ShutdownTimeout, 10*time.Second),
	}, api.Dependencies{
		API:      app.api,
		Views:    app.renderer,
		Bus:      app.bus,
		Logger:   log,
		Language: cfg.UI.Language,
		Settings: handlers.Settings{
			RedirectDelay:     config.ParseDuration(cfg.UI.RedirectDelay, 1500*time.Millisecond),
			MaxUploadBytes:    cfg.UI.MaxUploadBytes,
			HydrateClientList: cfg.UI.Hydrate(),
			Concurrency:       cfg.UI.LookupConcurrency,
		},
	})

	return app, nil
}

// Config returns the effective configuration.
func (app *App) Config() *config.Config {
	return app.config
}

// Server returns the HTTP server.
func (app *App) Server() *api.Server {
	return app.server
}

func (app *App) reloadTemplates(path string) {
	ctx := context.Background()
	if err := app.renderer.Reload(); err != nil {
		app.log.Error(ctx, "template reload failed", "path", path, "error", err)
		return
	}
	app.log.Info(ctx, "templates reloaded", "path", path)
}

// Run serves until a signal arrives, ctx is cancelled, or Stop is called.
func (app *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		app.log.Info(ctx, "starting server",
			"addr", app.server.Addr(),
			"api", app.config.API.BaseURL,
			"version", app.version)
		errCh <- app.server.ListenAndServe(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		app.log.Info(ctx, "received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		app.log.Info(ctx, "context cancelled, shutting down")
	case <-app.done:
		app.log.Info(ctx, "shutdown requested")
	case err := <-errCh:
		if err != nil {
			runErr = fmt.Errorf("server: %w", err)
		}
	}

	if err := app.Shutdown(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown stops the server and releases the watcher and the event bus.
func (app *App) Shutdown(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	var firstErr error
	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			app.log.Error(ctx, "error shutting down server", "error", err)
			firstErr = err
		}
	}
	if app.templates != nil {
		app.templates.Close()
		app.templates = nil
	}
	if app.bus != nil {
		app.bus.Close()
	}

	app.log.Info(ctx, "shutdown complete")
	return firstErr
}

// Stop signals Run to return. Safe to call multiple times.
func (app *App) Stop() {
	app.stopOnce.Do(func() {
		close(app.done)
	})
}

// resolveDir makes dir relative to the config file's directory.
func resolveDir(configPath, dir string) string {
	if filepath.IsAbs(dir) || configPath == "" {
		return dir
	}
	return filepath.Join(filepath.Dir(configPath), dir)
}
