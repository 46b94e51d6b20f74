// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/lawia/lawia-web/internal/i18n"
)

type homeData struct {
	API string
	DB  string
}

// Home renders the landing page with the backend health. The API probe and
// the database probe (a status lookup) run concurrently.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "", "")
	p.Title = i18n.T(p.Lang, "nav.home")
	p.Data = h.health(r.Context(), p.Lang)
	h.render(w, r, http.StatusOK, "home", p)
}

func (h *Handler) health(ctx context.Context, lang string) homeData {
	var (
		g    errgroup.Group
		data homeData
	)
	g.Go(func() error {
		status, err := h.api.Health.Check(ctx)
		if err != nil {
			h.log.Warn(ctx, "health check failed", "error", err)
			data.API = i18n.T(lang, "home.error")
			return nil
		}
		data.API = status
		return nil
	})
	g.Go(func() error {
		if _, err := h.api.Lookups.Status(ctx); err != nil {
			h.log.Warn(ctx, "database probe failed", "error", err)
			data.DB = err.Error()
			return nil
		}
		data.DB = i18n.T(lang, "home.ok")
		return nil
	})
	g.Wait()
	return data
}
