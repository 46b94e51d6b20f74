// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package views

import (
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/lawia/lawia-web/internal/i18n"
	"github.com/lawia/lawia-web/pkg/client"
)

// Funcs returns the template helpers. Translation takes the language
// explicitly so templates can be parsed once for every request.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"t": func(lang, key string, args ...any) string {
			return i18n.T(lang, key, args...)
		},
		"langs": i18n.Languages,
		"date":  i18n.Date,
		"deref": client.Deref,
		"num": func(f float64) string {
			return strconv.FormatFloat(f, 'f', 1, 64)
		},
		"half": func(f float64) float64 { return f / 2 },
		"add":  func(a, b int) int { return a + b },
		"clock": func(t time.Time) string {
			return t.Local().Format("02/01/2006 15:04:05")
		},
		"taxID": func(c client.Customer) string {
			if id := c.TaxID(); id != nil {
				return id.Value()
			}
			return ""
		},
		"taxKind": func(c client.Customer) string {
			if id := c.TaxID(); id != nil {
				return "field." + id.Kind()
			}
			return ""
		},
		"taxLabel": func(c client.Customer) string {
			if _, ok := c.TaxID().(client.Organization); ok {
				return "field.cnpj"
			}
			return "field.cpf"
		},
		// dict builds a map for passing several values to a partial.
		"dict": func(values ...any) (map[string]any, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", values[i])
				}
				m[key] = values[i+1]
			}
			return m, nil
		},
	}
}
