// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"net/http"

	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/internal/reports"
)

type chartData struct {
	Title string // Message key
	Empty bool
	Chart reports.Chart
}

// Reports renders one bar chart per dataset. A failed fetch replaces the
// charts with the error.
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := h.page(r, "reports", "")
	p.Title = i18n.T(p.Lang, "reports.title")

	data, err := h.api.Reports.Get(ctx)
	if err != nil {
		h.log.Warn(ctx, "load reports", "error", err)
		p.Error = describeLoad(p.Lang, err, "reports.failed")
		h.render(w, r, http.StatusOK, "reports", p)
		return
	}

	var charts []chartData
	for _, ds := range reports.Build(data, i18n.T(p.Lang, "reports.no_process")) {
		c := chartData{Title: ds.Title, Empty: ds.Empty()}
		if !c.Empty {
			c.Chart = reports.Layout(ds.Rows, reports.DefaultGeometry)
		}
		charts = append(charts, c)
	}
	p.Data = charts
	h.render(w, r, http.StatusOK, "reports", p)
}
