// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package i18n

import "time"

var dateLayouts = map[string]string{
	"pt": "02/01/2006",
	"en": "Jan 2, 2006",
}

// Date renders an API date (YYYY-MM-DD, optionally followed by a time part)
// in the layout of lang. Anything unparsable is returned unchanged.
func Date(lang, s string) string {
	if len(s) < 10 {
		return s
	}
	d, err := time.Parse(time.DateOnly, s[:10])
	if err != nil {
		return s
	}
	layout, ok := dateLayouts[lang]
	if !ok {
		layout = dateLayouts[Default]
	}
	return d.Format(layout)
}
