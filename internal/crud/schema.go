// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"strconv"
	"strings"

	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/pkg/client"
)

// Kind is the input type of a form field.
type Kind string

// Field kinds. They map one to one onto HTML input types, plus select,
// textarea and radio.
const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindTel      Kind = "tel"
	KindDate     Kind = "date"
	KindNumber   Kind = "number"
	KindTextarea Kind = "textarea"
	KindSelect   Kind = "select"
	KindRadio    Kind = "radio"
	KindFile     Kind = "file"
	KindHidden   Kind = "hidden"
)

// Draft holds the in-progress values of a form, keyed by field name.
// Every value is a string, the way the browser submits it.
type Draft map[string]string

// Get returns the trimmed value of name.
func (d Draft) Get(name string) string {
	return strings.TrimSpace(d[name])
}

// Clone returns an independent copy.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Option is one choice of a select or radio field.
type Option struct {
	Value string
	Label string // Message key for static options, literal text for lookups
}

// Condition shows a field only while another field holds a given value.
type Condition struct {
	Field  string
	Equals string
}

// Field describes one form input.
type Field struct {
	Name     string
	Label    string // Message key
	Kind     Kind
	Required bool
	Lookup   string     // Name of the Lookup that feeds the options
	Options  []Option   // Static options
	ShowWhen *Condition // nil means always visible
}

// Visible reports whether the field applies to the draft.
func (f Field) Visible(d Draft) bool {
	if f.ShowWhen == nil {
		return true
	}
	return d.Get(f.ShowWhen.Field) == f.ShowWhen.Equals
}

// Lookup loads the options of the fields that name it.
type Lookup struct {
	Name string
	Load func(ctx context.Context) ([]client.LookupItem, error)
}

// Input is a field bound to its current value and options, ready to render.
type Input struct {
	Field
	Text     string // Translated label
	Value    string
	Options  []Option
	Disabled bool
	Hidden   bool
}

// Selected reports whether opt is the current value.
func (in Input) Selected(opt Option) bool {
	return opt.Value == in.Value
}

// Retains reports whether a disabled field still carries a value. Browsers
// do not post disabled controls, so the value travels in a hidden input.
func (in Input) Retains() bool {
	return in.Disabled && in.Value != ""
}

// OptionText returns the display text of opt in lang.
func (in Input) OptionText(lang string, opt Option) string {
	if in.Lookup != "" {
		return opt.Label
	}
	return i18n.T(lang, opt.Label)
}

// lookupOptions converts lookup items to options.
func lookupOptions(items []client.LookupItem) []Option {
	opts := make([]Option, 0, len(items))
	for _, it := range items {
		opts = append(opts, Option{Value: strconv.Itoa(it.ID), Label: it.Label()})
	}
	return opts
}
