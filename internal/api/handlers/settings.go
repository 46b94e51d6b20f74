// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lawia/lawia-web/internal/activity"
	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/pkg/client"
)

// recentActivity is how many events the settings page lists.
const recentActivity = 20

type actionButton struct {
	Name  string
	Label string
}

type settingsData struct {
	Actions  []actionButton
	Activity []activity.Event
}

// Settings renders the database actions and the recent activity.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "settings", "")
	p.Title = i18n.T(p.Lang, "settings.title")
	p.Data = h.settingsData(p.Lang)
	h.render(w, r, http.StatusOK, "settings", p)
}

// RunAction performs one of the database actions and renders the settings
// page with the outcome.
func (h *Handler) RunAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := h.page(r, "settings", "")
	p.Title = i18n.T(p.Lang, "settings.title")

	name := mux.Vars(r)["action"]
	action, ok := client.ParseAction(name)
	if !ok {
		p.Error = i18n.T(p.Lang, "settings.unknown_action", name)
		p.Data = h.settingsData(p.Lang)
		h.render(w, r, http.StatusNotFound, "settings", p)
		return
	}
	label := actionLabel(p.Lang, action)

	res, err := h.api.Admin.Run(ctx, action)
	if err != nil {
		h.log.Warn(ctx, "admin action failed", "action", name, "error", err)
		p.Error = actionError(p.Lang, label, err)
	} else {
		msg := res.Message
		if msg == "" {
			msg = i18n.T(p.Lang, "settings.done")
		}
		p.Notice = i18n.T(p.Lang, "settings.success", label, msg)
		h.log.Info(ctx, "admin action", "action", name)
		h.publish(ctx, activity.EntityAdmin, name, 0, p.Notice)
	}

	p.Data = h.settingsData(p.Lang)
	h.render(w, r, http.StatusOK, "settings", p)
}

func (h *Handler) settingsData(lang string) settingsData {
	data := settingsData{}
	for _, a := range client.Actions {
		data.Actions = append(data.Actions, actionButton{Name: string(a), Label: actionLabel(lang, a)})
	}
	if h.bus != nil {
		data.Activity = activity.Recent(h.bus, recentActivity)
	}
	return data
}

func actionLabel(lang string, a client.Action) string {
	return i18n.T(lang, "settings."+string(a))
}

func actionError(lang, label string, err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = i18n.T(lang, "common.unknown_error")
		}
		return i18n.T(lang, "settings.failure", label, apiErr.StatusCode, msg)
	}
	var logical *client.LogicalError
	if errors.As(err, &logical) {
		return logical.Message
	}
	return i18n.T(lang, "settings.network", label, err.Error())
}
