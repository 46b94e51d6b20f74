// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lawia/lawia-web/internal/crud"
	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/pkg/client"
)

type assistantData struct {
	Models    []client.Model
	Documents []client.Document
	Model     string
	Document  string
	Question  string
	Answer    string
	Disabled  bool
	Warnings  []string
}

// Assistant renders the question form.
func (h *Handler) Assistant(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "assistant", "")
	p.Title = i18n.T(p.Lang, "assistant.title")

	data := h.assistantChoices(r.Context(), p.Lang)
	p.Data = data
	h.render(w, r, http.StatusOK, "assistant", p)
}

// Ask sends the question to the selected model. The selections and the
// question survive the round trip.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := h.page(r, "assistant", "")
	p.Title = i18n.T(p.Lang, "assistant.title")

	data := h.assistantChoices(ctx, p.Lang)
	if err := r.ParseForm(); err != nil {
		h.log.Warn(ctx, "parse assistant form", "error", err)
		p.Error = i18n.T(p.Lang, "common.error", err.Error())
		p.Data = data
		h.render(w, r, http.StatusBadRequest, "assistant", p)
		return
	}
	if m := r.PostForm.Get("model"); m != "" {
		data.Model = m
	}
	if f := r.PostForm.Get("file_name"); f != "" {
		data.Document = f
	}
	data.Question = r.PostForm.Get("question")

	switch {
	case data.Disabled:
		// The form cannot be used; the warnings explain why.
	case data.Model == "" || data.Document == "" || strings.TrimSpace(data.Question) == "":
		p.Error = i18n.T(p.Lang, "assistant.required")
	default:
		answer, err := h.api.Assistant.Ask(ctx, client.Question{
			FileName: data.Document,
			Question: data.Question,
			Model:    data.Model,
		})
		if err != nil {
			h.log.Warn(ctx, "assistant failed", "model", data.Model, "error", err)
			p.Error = crud.Describe(p.Lang, err, "assistant.failed", "assistant.network")
			break
		}
		data.Answer = answer.Response
		if data.Answer == "" {
			data.Answer = answer.Message
		}
	}

	p.Data = data
	h.render(w, r, http.StatusOK, "assistant", p)
}

// assistantChoices loads models and documents concurrently and picks the
// first of each as the default selection. An empty collection disables the
// form.
func (h *Handler) assistantChoices(ctx context.Context, lang string) assistantData {
	var (
		g        errgroup.Group
		data     assistantData
		modelErr error
		docErr   error
	)
	g.Go(func() error {
		data.Models, modelErr = h.api.Assistant.Models(ctx)
		return nil
	})
	g.Go(func() error {
		data.Documents, docErr = h.api.Documents.List(ctx)
		return nil
	})
	g.Wait()

	if modelErr != nil {
		h.log.Warn(ctx, "load models", "error", modelErr)
		data.Warnings = append(data.Warnings, describeLoad(lang, modelErr, "assistant.models_failed"))
	} else if len(data.Models) == 0 {
		data.Warnings = append(data.Warnings, i18n.T(lang, "assistant.no_models"))
	}
	if docErr != nil {
		h.log.Warn(ctx, "load documents", "error", docErr)
		data.Warnings = append(data.Warnings, describeLoad(lang, docErr, "assistant.documents_failed"))
	} else if len(data.Documents) == 0 {
		data.Warnings = append(data.Warnings, i18n.T(lang, "assistant.no_documents"))
	}

	if len(data.Models) > 0 {
		data.Model = data.Models[0].ID
	}
	if len(data.Documents) > 0 {
		data.Document = data.Documents[0].NomeArquivo
	}
	data.Disabled = len(data.Models) == 0 || len(data.Documents) == 0
	return data
}
