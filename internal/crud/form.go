// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/pkg/client"
)

// Mode tells a form whether it creates or edits.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Upload is a file attached to a submission, already base64-encoded.
type Upload struct {
	Name   string
	Base64 string
}

// Submission is what the browser posted.
type Submission struct {
	Draft Draft
	File  *Upload
}

// Messages are the message keys a form uses.
type Messages struct {
	Required      string
	Created       string
	Updated       string
	CreateFailed  string
	UpdateFailed  string
	CreateNetwork string
	UpdateNetwork string
	LoadFailed    string
	NotFound      string
	Title         string
	EditTitle     string
}

// Form is the controller behind every create and edit screen. The entity is
// described by its schema, lookups, rules and wire mapping; the controller
// does the rest.
type Form[T any] struct {
	Base     string // List path, e.g. "/clientes"
	Schema   []Field
	Lookups  []Lookup
	Defaults Draft
	Messages Messages

	// Get loads the record being edited.
	Get func(ctx context.Context, id int) (*T, error)

	// ToDraft converts a loaded record to form values.
	ToDraft func(rec T) Draft

	// Check applies entity rules after required fields pass.
	Check func(mode Mode, sub Submission) *ValidationError

	// Create returns the new record's id, zero when unknown.
	Create func(ctx context.Context, sub Submission) (int, error)
	Update func(ctx context.Context, id int, sub Submission) error

	// Concurrency bounds parallel lookups. Zero means unbounded.
	Concurrency int
}

// View is the state of one form screen.
type View struct {
	Mode        Mode
	ID          int
	Action      string
	Cancel      string
	Draft       Draft
	Inputs      []Input
	LookupError string
	Error       string
	Success     string
	Redirect    string
	NotFound    bool
	Title       string

	lookups  map[string][]Option
	disabled map[string]bool
}

// Editing reports whether the view edits an existing record.
func (v *View) Editing() bool {
	return v.Mode == ModeEdit
}

// Done reports whether the submission succeeded.
func (v *View) Done() bool {
	return v.Success != ""
}

// Prepare builds the initial screen. In edit mode the record is loaded
// alongside the lookups and converted to a draft.
func (f *Form[T]) Prepare(ctx context.Context, lang string, mode Mode, id int) *View {
	v := f.newView(mode, id, f.Defaults.Clone())

	var (
		rec    *T
		getErr error
	)
	extra := func(context.Context) {}
	if mode == ModeEdit {
		extra = func(ctx context.Context) { rec, getErr = f.Get(ctx, id) }
	}
	f.loadLookups(ctx, lang, v, extra)

	if mode == ModeEdit {
		switch {
		case errors.Is(getErr, client.ErrNotFound) || (getErr == nil && rec == nil):
			v.NotFound = true
			v.Error = i18n.T(lang, f.Messages.NotFound)
		case getErr != nil:
			v.Error = Describe(lang, getErr, f.Messages.LoadFailed, f.Messages.UpdateNetwork)
		default:
			v.Draft = f.ToDraft(*rec)
		}
	}

	f.bind(lang, v)
	return v
}

// Submit validates and sends a submission. Invalid input never reaches the
// API. On success the draft is reset in create mode, ID holds the new
// record's id when the API reports one, and Redirect names the next page:
// the list after a create, the record after an edit.
func (f *Form[T]) Submit(ctx context.Context, lang string, mode Mode, id int, sub Submission) *View {
	if sub.Draft == nil {
		sub.Draft = Draft{}
	}

	if verr := f.Validate(mode, sub); verr != nil {
		return f.Reject(ctx, lang, mode, id, sub.Draft, verr.Text(lang))
	}

	var (
		err     error
		created int
	)
	if mode == ModeEdit {
		err = f.Update(ctx, id, sub)
	} else {
		created, err = f.Create(ctx, sub)
	}
	if err != nil {
		failed, network := f.Messages.CreateFailed, f.Messages.CreateNetwork
		if mode == ModeEdit {
			failed, network = f.Messages.UpdateFailed, f.Messages.UpdateNetwork
		}
		return f.Reject(ctx, lang, mode, id, sub.Draft, Describe(lang, err, failed, network))
	}

	v := f.newView(mode, id, sub.Draft)
	if mode == ModeEdit {
		v.Success = i18n.T(lang, f.Messages.Updated)
		v.Redirect = fmt.Sprintf("%s/%d", f.Base, id)
	} else {
		v.ID = created
		v.Success = i18n.T(lang, f.Messages.Created)
		v.Redirect = f.Base
		v.Draft = f.Defaults.Clone()
	}
	f.bind(lang, v)
	return v
}

// Reject re-renders the form with the submitted values and an error.
func (f *Form[T]) Reject(ctx context.Context, lang string, mode Mode, id int, d Draft, msg string) *View {
	v := f.newView(mode, id, d)
	f.loadLookups(ctx, lang, v, nil)
	v.Error = msg
	f.bind(lang, v)
	return v
}

// DraftFrom reads the schema fields out of posted form values.
func (f *Form[T]) DraftFrom(values url.Values) Draft {
	d := Draft{}
	for _, fd := range f.Schema {
		if fd.Kind == KindFile {
			continue
		}
		if vs, ok := values[fd.Name]; ok && len(vs) > 0 {
			d[fd.Name] = vs[0]
		}
	}
	for k, v := range f.Defaults {
		if _, ok := d[k]; !ok {
			d[k] = v
		}
	}
	return d
}

// Validate checks required fields, then the entity rules.
func (f *Form[T]) Validate(mode Mode, sub Submission) *ValidationError {
	var missing []string
	for _, fd := range f.Schema {
		if !fd.Required || !fd.Visible(sub.Draft) || fd.Kind == KindFile {
			continue
		}
		if sub.Draft.Get(fd.Name) == "" {
			missing = append(missing, fd.Name)
		}
	}
	if len(missing) > 0 {
		return invalid(f.Messages.Required, missing...)
	}
	if f.Check != nil {
		return f.Check(mode, sub)
	}
	return nil
}

func (f *Form[T]) newView(mode Mode, id int, d Draft) *View {
	v := &View{
		Mode:     mode,
		ID:       id,
		Draft:    d,
		Action:   f.Base + "/new",
		Cancel:   f.Base,
		lookups:  map[string][]Option{},
		disabled: map[string]bool{},
	}
	if mode == ModeEdit {
		v.Action = fmt.Sprintf("%s/edit/%d", f.Base, id)
		v.Cancel = fmt.Sprintf("%s/%d", f.Base, id)
	}
	return v
}

// loadLookups runs every lookup concurrently, plus extra when given, and
// waits for all of them. Failures are collected into one message and
// disable the fields fed by the failed lookup.
func (f *Form[T]) loadLookups(ctx context.Context, lang string, v *View, extra func(context.Context)) {
	var (
		mu       sync.Mutex
		failures = map[string]error{}
		g        errgroup.Group
	)
	if f.Concurrency > 0 {
		g.SetLimit(f.Concurrency)
	}

	for _, lk := range f.Lookups {
		lk := lk
		g.Go(func() error {
			items, err := lk.Load(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[lk.Name] = err
				return nil
			}
			v.lookups[lk.Name] = lookupOptions(items)
			return nil
		})
	}
	if extra != nil {
		g.Go(func() error {
			extra(ctx)
			return nil
		})
	}
	g.Wait()

	if len(failures) == 0 {
		return
	}

	// Report in schema order so the message is stable.
	var lines []string
	for _, fd := range f.Schema {
		if fd.Lookup == "" {
			continue
		}
		err, ok := failures[fd.Lookup]
		if !ok {
			continue
		}
		v.disabled[fd.Name] = true
		lines = append(lines, fmt.Sprintf("%s: %s", i18n.T(lang, fd.Label), err))
	}
	v.LookupError = i18n.T(lang, "form.lookups_failed", strings.Join(lines, "\n"))
}

// bind builds the render inputs from the schema and the view state.
func (f *Form[T]) bind(lang string, v *View) {
	if v.Mode == ModeEdit {
		v.Title = i18n.T(lang, f.Messages.EditTitle)
	} else {
		v.Title = i18n.T(lang, f.Messages.Title)
	}

	v.Inputs = make([]Input, 0, len(f.Schema))
	for _, fd := range f.Schema {
		in := Input{
			Field:    fd,
			Text:     i18n.T(lang, fd.Label),
			Value:    v.Draft[fd.Name],
			Options:  fd.Options,
			Disabled: v.disabled[fd.Name],
			Hidden:   !fd.Visible(v.Draft),
		}
		if fd.Lookup != "" {
			in.Options = v.lookups[fd.Lookup]
		}
		if fd.Kind == KindFile {
			in.Value = ""
		}
		v.Inputs = append(v.Inputs, in)
	}
}

// Multipart reports whether the form posts a file.
func (v *View) Multipart() bool {
	for _, in := range v.Inputs {
		if in.Kind == KindFile {
			return true
		}
	}
	return false
}
