// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// lawia-ctl is a command-line tool for the LawIA API and a running LawIA
// web server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/pkg/client"
)

var (
	version    = "1.0"
	apiURL     = "http://localhost:3000"
	uiURL      = "http://localhost:8080"
	lang       = i18n.Default
	jsonOutput = false

	// API client instance
	apiClient *client.Client

	stdout io.Writer = os.Stdout
)

func main() {
	if env := os.Getenv("LAWIA_API_URL"); env != "" {
		apiURL = strings.TrimSuffix(env, "/")
	}
	if env := os.Getenv("LAWIA_UI_URL"); env != "" {
		uiURL = strings.TrimSuffix(env, "/")
	}
	if env := os.Getenv("LAWIA_LANG"); i18n.Supported(env) {
		lang = env
	}

	// Parse global flags and filter them out
	var filteredArgs []string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-json":
			jsonOutput = true
		case args[i] == "-api" && i+1 < len(args):
			i++
			apiURL = strings.TrimSuffix(args[i], "/")
		default:
			filteredArgs = append(filteredArgs, args[i])
		}
	}

	apiClient = client.New(apiURL, client.WithUserAgent("lawia-ctl/"+version))

	if len(filteredArgs) < 1 {
		printUsage()
		os.Exit(1)
	}

	if err := run(filteredArgs[0], filteredArgs[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	switch cmd {
	case "status":
		return cmdStatus(args)
	case "init", "clean", "populate":
		return cmdAdmin(cmd, args)
	case "clients":
		return cmdClients(args)
	case "cases":
		return cmdCases(args)
	case "documents":
		return cmdDocuments(args)
	case "download":
		return cmdDownload(args)
	case "models":
		return cmdModels(args)
	case "ask":
		return cmdAsk(args)
	case "reports":
		return cmdReports(args)
	case "activity":
		return cmdActivity(args)
	case "watch":
		return cmdWatch(args)
	case "version", "-v", "--version":
		fmt.Fprintf(stdout, "lawia-ctl %s\n", version)
		return nil
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printUsage() {
	fmt.Println(`lawia-ctl - Inspect and administer LawIA

Usage:
  lawia-ctl [-json] [-api URL] <command> [arguments]

Global Flags:
  -json          Output in JSON format
  -api URL       Base URL of the LawIA API

Environment:
  LAWIA_API_URL  Base URL of the LawIA API (default: http://localhost:3000)
  LAWIA_UI_URL   Base URL of the LawIA web server (default: http://localhost:8080)
  LAWIA_LANG     Message language, pt or en (default: pt)

Commands:
  status                   Show API and database health

  clients [-q term]        List clients
  cases [-q term]          List legal cases
  documents [-q term]      List documents
  download <id> [-o path]  Save a document's file

  models                   List the models available to the assistant
  ask [-model m] [-file f] [question]
                           Ask a question about a document; prompts for
                           anything missing

  reports                  Print the three report datasets

  init                     Create the database tables
  clean [-y]               Drop all data (asks for confirmation)
  populate                 Load sample data

  activity [-n N] [-type pattern] [-ui URL]
                           Show recent changes made through the web server
  watch [-type pattern] [-ui URL]
                           Stream changes made through the web server

  version                  Show version`)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// flagValue returns the value following name in args and the remaining
// arguments.
func flagValue(args []string, names ...string) (string, []string) {
	var value string
	var rest []string
	for i := 0; i < len(args); i++ {
		matched := false
		for _, n := range names {
			if args[i] == n && i+1 < len(args) {
				value = args[i+1]
				i++
				matched = true
				break
			}
		}
		if !matched {
			rest = append(rest, args[i])
		}
	}
	return value, rest
}

// hasFlag reports whether any of names appears in args and returns args
// without it.
func hasFlag(args []string, names ...string) (bool, []string) {
	found := false
	var rest []string
	for _, a := range args {
		matched := false
		for _, n := range names {
			if a == n {
				matched = true
			}
		}
		if matched {
			found = true
			continue
		}
		rest = append(rest, a)
	}
	return found, rest
}
