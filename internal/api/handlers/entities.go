// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lawia/lawia-web/internal/activity"
	"github.com/lawia/lawia-web/internal/crud"
	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/pkg/client"
)

// multipartOverhead is the room left for the non-file fields of an upload.
const multipartOverhead = 1 << 20

// Clients returns the client pages.
func (h *Handler) Clients() Resource {
	form := crud.NewClientForm(h.api)
	form.Concurrency = h.settings.Concurrency
	return &resource[client.Customer]{
		h:          h,
		entity:     activity.EntityClient,
		prefix:     "clients",
		nav:        "clients",
		base:       "/clientes",
		listPage:   "clients",
		detailPage: "client_detail",
		load:       h.loadClients,
		get:        h.api.Clients.Get,
		del:        h.api.Clients.Delete,
		id:         crud.ClientID,
		fields:     crud.ClientSearchFields,
		form:       form,
	}
}

// loadClients lists clients. The list endpoint may return summaries; they
// are replaced with full records when hydration is on.
func (h *Handler) loadClients(ctx context.Context, lang string) ([]client.Customer, string, error) {
	list, err := h.api.Clients.List(ctx)
	if err != nil || !h.settings.HydrateClientList {
		return list, "", err
	}
	full, failed := crud.HydrateClients(ctx, h.api.Clients.Get, list, h.settings.Concurrency)
	if failed > 0 {
		h.log.Warn(ctx, "client hydration incomplete", "failed", failed)
		return full, i18n.T(lang, "clients.hydrate_failed", failed), nil
	}
	return full, "", nil
}

// Cases returns the legal case pages.
func (h *Handler) Cases() Resource {
	form := crud.NewCaseForm(h.api)
	form.Concurrency = h.settings.Concurrency
	return &resource[client.Case]{
		h:          h,
		entity:     activity.EntityCase,
		prefix:     "cases",
		nav:        "cases",
		base:       "/casos",
		listPage:   "cases",
		detailPage: "case_detail",
		load: func(ctx context.Context, _ string) ([]client.Case, string, error) {
			items, err := h.api.Cases.List(ctx)
			return items, "", err
		},
		get:    h.api.Cases.Get,
		del:    h.api.Cases.Delete,
		id:     crud.CaseID,
		fields: crud.CaseSearchFields,
		form:   form,
	}
}

// Documents returns the document pages.
func (h *Handler) Documents() Resource {
	form := crud.NewDocumentForm(h.api)
	form.Concurrency = h.settings.Concurrency
	return &resource[client.Document]{
		h:          h,
		entity:     activity.EntityDocument,
		prefix:     "documents",
		nav:        "documents",
		base:       "/documentos",
		listPage:   "documents",
		detailPage: "document_detail",
		load: func(ctx context.Context, _ string) ([]client.Document, string, error) {
			items, err := h.api.Documents.List(ctx)
			return items, "", err
		},
		get:    h.api.Documents.Get,
		del:    h.api.Documents.Delete,
		id:     crud.DocumentID,
		fields: crud.DocumentSearchFields,
		form:   form,
		parse:  h.parseUpload,
	}
}

// parseUpload reads a multipart document form and base64-encodes the file.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request, f *crud.Form[client.Document]) (crud.Submission, string) {
	lang := h.page(r, "", "").Lang
	limit := h.settings.MaxUploadBytes
	tooLarge := i18n.T(lang, "documents.file_too_large", limit)

	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return crud.Submission{Draft: crud.Draft{}}, tooLarge
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return crud.Submission{Draft: crud.Draft{}}, i18n.T(lang, "common.error", err.Error())
		}
		if err := r.ParseForm(); err != nil {
			return crud.Submission{Draft: crud.Draft{}}, i18n.T(lang, "common.error", err.Error())
		}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	sub := crud.Submission{Draft: f.DraftFrom(r.PostForm)}
	if r.MultipartForm == nil {
		return sub, ""
	}

	file, header, err := r.FormFile(crud.FileField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return sub, ""
	case err != nil:
		return sub, i18n.T(lang, "common.error", err.Error())
	}
	defer file.Close()
	if header.Size == 0 && header.Filename == "" {
		return sub, ""
	}

	encoded, err := client.EncodeFile(file, limit)
	if errors.Is(err, client.ErrFileTooLarge) {
		return sub, tooLarge
	}
	if err != nil {
		return sub, i18n.T(lang, "common.error", err.Error())
	}
	return crud.WithUpload(sub, &crud.Upload{Name: header.Filename, Base64: encoded}), ""
}

// DownloadDocument streams the stored file of a document. When the API
// refuses, the detail page is shown with the error and nothing is saved.
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := crud.ParseID(mux.Vars(r)["id"])
	if !ok {
		h.NotFound(w, r)
		return
	}

	dl, err := h.api.Documents.Download(ctx, id)
	if err != nil {
		h.log.Warn(ctx, "download failed", "id", id, "error", err)
		p := h.page(r, "documents", "")
		p.Title = i18n.T(p.Lang, "documents.detail_title")
		p.Error = downloadError(p.Lang, err)

		d := crud.LoadDetail(ctx, strconv.Itoa(id), h.api.Documents.Get)
		p.Data = detailData[client.Document]{Record: d.Record, NotFound: d.NotFound}

		status := http.StatusBadGateway
		if code := client.StatusCode(err); code >= 400 && code < 500 {
			status = code
		}
		h.render(w, r, status, "document_detail", p)
		return
	}
	defer dl.Body.Close()

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	if dl.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(dl.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, dl.Body); err != nil {
		h.log.Warn(ctx, "download interrupted", "id", id, "error", err)
	}
}

func downloadError(lang string, err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = i18n.T(lang, "common.unknown_error")
		}
		return i18n.T(lang, "documents.download_failed", fmt.Sprintf("%d - %s", apiErr.StatusCode, msg))
	}
	return i18n.T(lang, "documents.download_network", err.Error())
}
