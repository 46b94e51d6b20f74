// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package views renders the HTML pages.
//
// Every page is parsed together with layout.html and the partials into its
// own template set. Sets are built once and swapped as a whole on Reload,
// so a request always renders against a consistent set.
package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/internal/logging"
)

//go:embed templates static
var embedded embed.FS

// Page is the data every template receives.
type Page struct {
	Lang      string
	Title     string
	Nav       string // Active sidebar entry
	Notice    string
	Error     string
	RequestID string
	Data      any

	// RedirectTo makes the page navigate after RedirectDelay.
	RedirectTo    string
	RedirectDelay time.Duration
}

// RefreshContent returns the value of the meta refresh tag.
func (p Page) RefreshContent() string {
	secs := strconv.FormatFloat(p.RedirectDelay.Seconds(), 'f', -1, 64)
	return secs + ";url=" + p.RedirectTo
}

// Options configures a Renderer.
type Options struct {
	// Dir loads templates and static files from disk instead of the
	// embedded copies. It must contain templates/ and static/.
	Dir    string
	Logger logging.Logger
}

// Renderer executes page templates.
type Renderer struct {
	mu    sync.RWMutex
	pages map[string]*template.Template
	fsys  fs.FS
	log   logging.Logger
}

// New parses every page.
func New(opts Options) (*Renderer, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	var fsys fs.FS = embedded
	if opts.Dir != "" {
		fsys = os.DirFS(opts.Dir)
	}
	r := &Renderer{fsys: fsys, log: opts.Logger.With("component", "views")}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-parses every page. On error the previous set stays active.
func (r *Renderer) Reload() error {
	pages, err := parse(r.fsys)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
	return nil
}

// Pages lists the parsed page names.
func (r *Renderer) Pages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.pages))
	for n := range r.pages {
		names = append(names, n)
	}
	return names
}

// Render writes page with status. Output is buffered so a template error
// turns into a 500 instead of a half-written page.
func (r *Renderer) Render(ctx context.Context, w http.ResponseWriter, status int, page string, data Page) {
	r.mu.RLock()
	t, ok := r.pages[page]
	r.mu.RUnlock()
	if !ok {
		r.log.Error(ctx, "unknown page", "page", page)
		http.Error(w, i18n.T(data.Lang, "common.internal_error"), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.log.Error(ctx, "render failed", "page", page, "error", err)
		http.Error(w, i18n.T(data.Lang, "common.internal_error"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Static serves the CSS and JS assets.
func (r *Renderer) Static() http.Handler {
	sub, err := fs.Sub(r.fsys, "static")
	if err != nil {
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(sub))
}

func parse(fsys fs.FS) (map[string]*template.Template, error) {
	layout, err := fs.ReadFile(fsys, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	partials, err := fs.Glob(fsys, "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template)
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if name == "layout" {
			continue
		}
		t, err := template.New("layout").Funcs(Funcs()).Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		if len(partials) > 0 {
			if t, err = t.ParseFS(fsys, partials...); err != nil {
				return nil, fmt.Errorf("parse partials: %w", err)
			}
		}
		if t, err = t.ParseFS(fsys, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		pages[name] = t
	}
	return pages, nil
}
