// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// lawia serves the LawIA web interface in front of the LawIA REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawia/lawia-web/internal/app"
	"github.com/lawia/lawia-web/internal/config"
)

var (
	version = "1.0"
)

func main() {
	// Check for subcommands before flag parsing
	if len(os.Args) > 1 && os.Args[1] == "init" {
		if err := runInit(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var (
		configPath  string
		envFile     string
		host        string
		port        int
		apiURL      string
		showVersion bool
		debug       bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file (default: auto-detect)")
	flag.StringVar(&configPath, "c", "", "Path to config file (short)")
	flag.StringVar(&envFile, "env", ".env", "Environment file loaded before the config")
	flag.StringVar(&host, "host", "", "HTTP server host (overrides config)")
	flag.IntVar(&port, "port", 0, "HTTP server port (overrides config)")
	flag.StringVar(&apiURL, "api", "", "LawIA API base URL (overrides config)")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.BoolVar(&showVersion, "v", false, "Show version (short)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if showVersion {
		fmt.Printf("lawia %s\n", version)
		os.Exit(0)
	}

	if err := config.LoadDotEnv(envFile); err != nil {
		log.Fatalf("Error: %v", err)
	}

	// Find config file if not specified. Without one the defaults and
	// LAWIA_* variables apply.
	if configPath == "" {
		found, err := config.NewLoader().FindConfig()
		switch {
		case err == nil:
			configPath = found
		case errors.Is(err, config.ErrNotFound):
			log.Printf("No config file found, using defaults")
		default:
			log.Fatalf("Error: %v", err)
		}
	}
	if configPath != "" {
		log.Printf("Using config: %s", configPath)
	}

	application, err := app.New(app.Options{
		ConfigPath: configPath,
		Host:       host,
		Port:       port,
		APIURL:     apiURL,
		Debug:      debug,
		Version:    version,
	})
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := application.Run(ctx); err != nil {
		log.Fatalf("App error: %v", err)
	}
}
