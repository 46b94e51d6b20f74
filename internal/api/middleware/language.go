// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/lawia/lawia-web/internal/i18n"
)

// LanguageCookie remembers the language chosen with ?lang=.
const LanguageCookie = "lang"

type langKey struct{}

// Lang returns the request language stored by the Language middleware,
// or i18n.Default.
func Lang(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok {
		return lang
	}
	return i18n.Default
}

// WithLang stores lang in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// Language resolves the page language. Precedence: ?lang= (which also sets
// the cookie), the cookie, Accept-Language, then def.
func Language(def string) func(http.Handler) http.Handler {
	if !i18n.Supported(def) {
		def = i18n.Default
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
				lang = q
				http.SetCookie(w, &http.Cookie{
					Name:     LanguageCookie,
					Value:    q,
					Path:     "/",
					MaxAge:   int((365 * 24 * time.Hour).Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			} else if c, err := r.Cookie(LanguageCookie); err == nil && i18n.Supported(c.Value) {
				lang = c.Value
			} else if h := r.Header.Get("Accept-Language"); h != "" {
				lang = i18n.DetectLanguage(h)
			} else {
				lang = def
			}
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
		})
	}
}
