// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package i18n holds the UI message catalog.
//
// Messages live in an embedded YAML file keyed by language then by message
// key. Portuguese is the default language and the fallback for keys missing
// in other languages.
package i18n

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Default is the fallback language.
const Default = "pt"

//go:embed messages.yaml
var catalogYAML []byte

var (
	loadOnce sync.Once
	catalog  map[string]map[string]string
	loadErr  error
)

func load() {
	loadOnce.Do(func() {
		catalog, loadErr = parseCatalog(catalogYAML)
	})
}

func parseCatalog(data []byte) (map[string]map[string]string, error) {
	var c map[string]map[string]string
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse message catalog: %w", err)
	}
	if _, ok := c[Default]; !ok {
		return nil, fmt.Errorf("message catalog has no %q section", Default)
	}
	return c, nil
}

// Err reports whether the embedded catalog failed to parse.
func Err() error {
	load()
	return loadErr
}

// T returns the message for key in lang, formatted with args when given.
// Unknown languages and missing keys fall back to Portuguese, then to the
// key itself.
func T(lang, key string, args ...any) string {
	load()
	msg, ok := catalog[lang][key]
	if !ok {
		msg, ok = catalog[Default][key]
	}
	if !ok {
		msg = key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has reports whether key exists in the default catalog.
func Has(key string) bool {
	load()
	_, ok := catalog[Default][key]
	return ok
}

// Supported reports whether lang has a catalog section.
func Supported(lang string) bool {
	load()
	_, ok := catalog[lang]
	return ok
}

// Languages returns the available languages, sorted.
func Languages() []string {
	load()
	langs := make([]string, 0, len(catalog))
	for l := range catalog {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// DetectLanguage picks a supported language from an Accept-Language header,
// returning Default when none matches.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if Supported(base) {
			return base
		}
	}
	return Default
}
