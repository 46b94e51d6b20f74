// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lawia/lawia-web/internal/activity"
	"github.com/lawia/lawia-web/internal/crud"
	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/pkg/client"
)

// Resource is the set of pages of one entity: list, detail, create, edit
// and delete.
type Resource interface {
	Base() string
	List(w http.ResponseWriter, r *http.Request)
	Detail(w http.ResponseWriter, r *http.Request)
	New(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Edit(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ConfirmDelete(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// resource implements Resource for records of type T.
type resource[T any] struct {
	h *Handler

	entity     string // Activity entity
	prefix     string // Message key prefix
	nav        string
	base       string
	listPage   string
	detailPage string

	load   func(ctx context.Context, lang string) (items []T, warning string, err error)
	get    func(ctx context.Context, id int) (*T, error)
	del    func(ctx context.Context, id int) error
	id     func(T) int
	fields []crud.FieldFunc[T]
	form   *crud.Form[T]

	// parse reads a posted form. A non-empty message rejects the
	// submission before validation.
	parse func(w http.ResponseWriter, r *http.Request, f *crud.Form[T]) (crud.Submission, string)
}

type listData[T any] struct {
	Query   string
	Items   []T
	Warning string
}

type detailData[T any] struct {
	Record   *T
	NotFound bool
}

type confirmData struct {
	Message string
	Action  string
	Cancel  string
}

func (res *resource[T]) Base() string { return res.base }

func (res *resource[T]) t(lang, key string, args ...any) string {
	return i18n.T(lang, res.prefix+"."+key, args...)
}

// List renders the collection filtered by ?q=.
func (res *resource[T]) List(w http.ResponseWriter, r *http.Request) {
	p := res.h.page(r, res.nav, "")
	p.Title = res.t(p.Lang, "title")

	items, warning, err := res.load(r.Context(), p.Lang)
	if err != nil {
		res.h.log.Warn(r.Context(), "load list", "entity", res.entity, "error", err)
		p.Error = describeLoad(p.Lang, err, res.prefix+".load_failed")
	}

	query := r.URL.Query().Get("q")
	list := crud.NewList(items, res.id)
	p.Data = listData[T]{
		Query:   query,
		Items:   list.Filter(query, res.fields),
		Warning: warning,
	}
	res.h.render(w, r, http.StatusOK, res.listPage, p)
}

// Detail renders one record. An unknown or malformed id is "not found",
// anything else that fails is an error.
func (res *resource[T]) Detail(w http.ResponseWriter, r *http.Request) {
	p := res.h.page(r, res.nav, "")
	p.Title = res.t(p.Lang, "detail_title")

	d := crud.LoadDetail(r.Context(), mux.Vars(r)["id"], res.get)
	status := http.StatusOK
	switch {
	case d.NotFound:
		status = http.StatusNotFound
	case d.Err != nil:
		p.Error = describeLoad(p.Lang, d.Err, res.prefix+".load_failed")
		status = http.StatusBadGateway
	}
	p.Data = detailData[T]{Record: d.Record, NotFound: d.NotFound}
	res.h.render(w, r, status, res.detailPage, p)
}

// New renders an empty create form.
func (res *resource[T]) New(w http.ResponseWriter, r *http.Request) {
	lang := res.h.page(r, "", "").Lang
	v := res.form.Prepare(r.Context(), lang, crud.ModeCreate, 0)
	res.renderForm(w, r, v)
}

// Create handles the create form post.
func (res *resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	res.submit(w, r, crud.ModeCreate, 0)
}

// Edit renders the edit form prefilled from the record.
func (res *resource[T]) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := crud.ParseID(mux.Vars(r)["id"])
	if !ok {
		res.notFound(w, r)
		return
	}
	lang := res.h.page(r, "", "").Lang
	v := res.form.Prepare(r.Context(), lang, crud.ModeEdit, id)
	res.renderForm(w, r, v)
}

// Update handles the edit form post.
func (res *resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := crud.ParseID(mux.Vars(r)["id"])
	if !ok {
		res.notFound(w, r)
		return
	}
	res.submit(w, r, crud.ModeEdit, id)
}

func (res *resource[T]) submit(w http.ResponseWriter, r *http.Request, mode crud.Mode, id int) {
	lang := res.h.page(r, "", "").Lang

	sub, msg := res.parseSubmission(w, r)
	var v *crud.View
	if msg != "" {
		v = res.form.Reject(r.Context(), lang, mode, id, sub.Draft, msg)
	} else {
		v = res.form.Submit(r.Context(), lang, mode, id, sub)
	}

	if v.Done() {
		action := activity.ActionCreated
		if mode == crud.ModeEdit {
			action = activity.ActionUpdated
		}
		res.h.log.Info(r.Context(), "record saved", "entity", res.entity, "action", action, "id", v.ID)
		res.h.publish(r.Context(), res.entity, action, v.ID, v.Success)
	}
	res.renderForm(w, r, v)
}

func (res *resource[T]) parseSubmission(w http.ResponseWriter, r *http.Request) (crud.Submission, string) {
	if res.parse != nil {
		return res.parse(w, r, res.form)
	}
	if err := r.ParseForm(); err != nil {
		return crud.Submission{Draft: crud.Draft{}}, i18n.T(res.h.page(r, "", "").Lang, "common.error", err.Error())
	}
	return crud.Submission{Draft: res.form.DraftFrom(r.PostForm)}, ""
}

func (res *resource[T]) renderForm(w http.ResponseWriter, r *http.Request, v *crud.View) {
	p := res.h.page(r, res.nav, "")
	p.Title = v.Title
	p.Error = v.Error
	p.Notice = v.Success
	if v.Done() {
		p.RedirectTo = v.Redirect
	}
	p.Data = v

	status := http.StatusOK
	if v.NotFound {
		status = http.StatusNotFound
	}
	res.h.render(w, r, status, "form", p)
}

// ConfirmDelete asks before deleting.
func (res *resource[T]) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := crud.ParseID(mux.Vars(r)["id"])
	if !ok {
		res.notFound(w, r)
		return
	}
	p := res.h.page(r, res.nav, "")
	p.Title = i18n.T(p.Lang, "common.delete")
	p.Data = confirmData{
		Message: res.t(p.Lang, "confirm_delete"),
		Action:  fmt.Sprintf("%s/%d/delete", res.base, id),
		Cancel:  fmt.Sprintf("%s/%d", res.base, id),
	}
	res.h.render(w, r, http.StatusOK, "confirm", p)
}

// Delete removes a record and renders the list. The entry leaves the list
// only when the API confirms the delete.
func (res *resource[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := crud.ParseID(mux.Vars(r)["id"])
	if !ok {
		res.notFound(w, r)
		return
	}
	ctx := r.Context()
	p := res.h.page(r, res.nav, "")
	p.Title = res.t(p.Lang, "title")

	items, warning, err := res.load(ctx, p.Lang)
	if err != nil {
		res.h.log.Warn(ctx, "load list", "entity", res.entity, "error", err)
	}
	list := crud.NewList(items, res.id)

	if err := list.Delete(ctx, id, res.del); err != nil {
		res.h.log.Warn(ctx, "delete failed", "entity", res.entity, "id", id, "error", err)
		p.Error = crud.Describe(p.Lang, err, res.prefix+".delete_failed", res.prefix+".delete_network")
	} else {
		p.Notice = res.t(p.Lang, "deleted")
		p.RedirectTo = res.base
		res.h.log.Info(ctx, "record deleted", "entity", res.entity, "id", id)
		res.h.publish(ctx, res.entity, activity.ActionDeleted, id, p.Notice)
	}

	p.Data = listData[T]{Items: list.Items(), Warning: warning}
	res.h.render(w, r, http.StatusOK, res.listPage, p)
}

func (res *resource[T]) notFound(w http.ResponseWriter, r *http.Request) {
	p := res.h.page(r, res.nav, "")
	p.Title = res.t(p.Lang, "detail_title")
	p.Data = detailData[T]{NotFound: true}
	res.h.render(w, r, http.StatusNotFound, res.detailPage, p)
}

// describeLoad formats a failed fetch. API answers keep their status and
// message; transport failures show the underlying error.
func describeLoad(lang string, err error, key string) string {
	var apiErr *client.APIError
	var logical *client.LogicalError
	if errors.As(err, &apiErr) || errors.As(err, &logical) {
		return crud.Describe(lang, err, key, key)
	}
	return i18n.T(lang, key, err.Error())
}

