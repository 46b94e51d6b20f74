// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package handlers implements the LawIA pages. Every request builds its own
// view state from the REST API and renders it; nothing is shared between
// requests except the activity bus.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/lawia/lawia-web/internal/activity"
	"github.com/lawia/lawia-web/internal/api/middleware"
	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/internal/logging"
	"github.com/lawia/lawia-web/internal/views"
	"github.com/lawia/lawia-web/pkg/client"
)

// Settings tune page behavior.
type Settings struct {
	RedirectDelay     time.Duration // Pause before leaving a page after a successful save
	MaxUploadBytes    int64
	HydrateClientList bool
	Concurrency       int // Parallel API requests per page
}

// Handler holds what the pages need.
type Handler struct {
	api      *client.Client
	views    *views.Renderer
	bus      activity.Bus
	log      logging.Logger
	settings Settings
}

// New creates the page handler.
func New(api *client.Client, renderer *views.Renderer, bus activity.Bus, log logging.Logger, settings Settings) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	if settings.Concurrency <= 0 {
		settings.Concurrency = 8
	}
	return &Handler{
		api:      api,
		views:    renderer,
		bus:      bus,
		log:      log.With("component", "handlers"),
		settings: settings,
	}
}

// page starts the template data for r.
func (h *Handler) page(r *http.Request, nav, title string) views.Page {
	return views.Page{
		Lang:          middleware.Lang(r.Context()),
		Nav:           nav,
		Title:         title,
		RequestID:     logging.RequestID(r.Context()),
		RedirectDelay: h.settings.RedirectDelay,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, p views.Page) {
	h.views.Render(r.Context(), w, status, name, p)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "", "")
	p.Title = i18n.T(p.Lang, "common.page_not_found")
	h.render(w, r, http.StatusNotFound, "error", p)
}

// InternalError renders the 500 page. It is the fallback of the recovery
// middleware.
func (h *Handler) InternalError(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "", "")
	p.Title = i18n.T(p.Lang, "common.internal_error")
	h.render(w, r, http.StatusInternalServerError, "error", p)
}

// publish records an activity event. Failures are logged only; the user
// action already succeeded.
func (h *Handler) publish(ctx context.Context, entity, action string, id int, message string) {
	if h.bus == nil {
		return
	}
	err := h.bus.Publish(ctx, activity.Event{
		Type:     activity.TypeOf(entity, action),
		Entity:   entity,
		EntityID: id,
		Message:  message,
	})
	if err != nil {
		h.log.Warn(ctx, "publish activity", "entity", entity, "action", action, "error", err)
	}
}
