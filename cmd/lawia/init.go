// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

const configFile = "lawia.hjson"

// initAnswers are the values asked by "lawia init".
type initAnswers struct {
	Port     int
	APIURL   string
	Language string
	JSONLogs bool
}

// runInit handles the "lawia init" command.
func runInit(args []string) error {
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	showHelp := initFlags.Bool("help", false, "Show help for init command")
	initFlags.BoolVar(showHelp, "h", false, "Show help for init command")
	defaults := initFlags.Bool("y", false, "Accept all defaults without prompting")
	initFlags.Parse(args)

	if *showHelp {
		fmt.Println(`Usage: lawia init [options]

Create a new lawia.hjson configuration file in the current directory.

Options:
  -h, -help    Show this help message
  -y           Accept all defaults without prompting

The command will ask about:
  - Server port (defaults to 8080)
  - LawIA API base URL (defaults to http://localhost:3000)
  - Interface language (pt or en)
  - Log format (JSON or plain text)`)
		return nil
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use a different directory", configFile)
	}

	answers := initAnswers{Port: 8080, APIURL: "http://localhost:3000", Language: "pt"}
	if !*defaults {
		if err := askInit(&answers); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return errors.New("aborted")
			}
			return err
		}
	}

	if err := os.WriteFile(configFile, []byte(generateConfig(answers)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Println()
	fmt.Printf("Created %s\n", configFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Review and edit lawia.hjson as needed")
	fmt.Println("  2. Run: ./lawia")
	fmt.Println("  3. Open: http://localhost:" + strconv.Itoa(answers.Port))
	fmt.Println()
	return nil
}

func askInit(a *initAnswers) error {
	var port string
	err := survey.AskOne(&survey.Input{
		Message: "Server port",
		Default: strconv.Itoa(a.Port),
	}, &port, survey.WithValidator(func(v interface{}) error {
		n, err := strconv.Atoi(fmt.Sprint(v))
		if err != nil || n <= 0 || n > 65535 {
			return errors.New("enter a port between 1 and 65535")
		}
		return nil
	}))
	if err != nil {
		return err
	}
	a.Port, _ = strconv.Atoi(port)

	err = survey.AskOne(&survey.Input{
		Message: "LawIA API base URL",
		Default: a.APIURL,
	}, &a.APIURL, survey.WithValidator(func(v interface{}) error {
		u, err := url.Parse(fmt.Sprint(v))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("enter an http(s)://host[:port] URL")
		}
		return nil
	}))
	if err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Select{
		Message: "Interface language",
		Options: []string{"pt", "en"},
		Default: a.Language,
	}, &a.Language); err != nil {
		return err
	}

	return survey.AskOne(&survey.Confirm{
		Message: "Write logs as JSON?",
		Default: a.JSONLogs,
	}, &a.JSONLogs)
}

// escapeHJSONValue escapes a string for safe inclusion in an HJSON double-quoted value.
func escapeHJSONValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

func generateConfig(a initAnswers) string {
	format := "text"
	if a.JSONLogs {
		format = "json"
	}

	var sb strings.Builder
	sb.WriteString(`{
  // =============================================================================
  // LawIA Web Configuration
  // =============================================================================
  //
  // This is an HJSON file (JSON with comments and relaxed syntax).
  // LAWIA_HOST, LAWIA_PORT, LAWIA_API_URL, LAWIA_LANG, LAWIA_LOG_LEVEL and
  // LAWIA_TEMPLATES_DIR override the values below.

  server: {
    // Host to bind to (use "0.0.0.0" to allow remote access)
    host: "127.0.0.1"
    port: `)
	sb.WriteString(strconv.Itoa(a.Port))
	sb.WriteString(`

    // For HTTPS, either set certificate files:
    // tls_cert: "~/.lawia/cert.pem"
    // tls_key: "~/.lawia/key.pem"
    // or fetch certificates from the local Tailscale daemon:
    // tls_tailscale: true
  }

  api: {
    // LawIA REST API
    base_url: "`)
	sb.WriteString(escapeHJSONValue(a.APIURL))
	sb.WriteString(`"
    timeout: "30s"
    // reports_path: "/api/relatorios"
    // health_path: "/api/health_check"
  }

  ui: {
    // "pt" or "en"; visitors can switch with ?lang=
    language: "`)
	sb.WriteString(escapeHJSONValue(a.Language))
	sb.WriteString(`"

    // Pause on the success message before leaving a form
    redirect_delay: "1500ms"

    // Largest document accepted by the upload form
    max_upload_bytes: 33554432

    // Fetch the full record of every client on the list page
    hydrate_client_list: true

    // Serve templates from disk and reload them on change
    // templates_dir: "./views"
  }

  logging: {
    level: "info"
    format: "`)
	sb.WriteString(format)
	sb.WriteString(`"
  }

  activity: {
    // Recent changes kept for the settings page and /ws/activity
    max_events: 500
    max_age: "24h"
  }
}
`)
	return sb.String()
}
