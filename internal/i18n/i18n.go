// Package i18n resolves display keys to English or Arabic text.
package i18n

import (
	"context"

	"golang.org/x/text/language"
)

// Locale is one of the two supported display languages.
type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

// Default is the locale of a fresh load.
const Default = English

// Toggle returns the other locale.
func (l Locale) Toggle() Locale {
	if l == Arabic {
		return English
	}
	return Arabic
}

// Dir is the text direction used for rendering.
func (l Locale) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

// supported is ordered so that index i of a match is locales[i].
var (
	supported = []language.Tag{language.English, language.Arabic}
	locales   = []Locale{English, Arabic}
	matcher   = language.NewMatcher(supported)
)

// Parse maps a language tag ("ar", "ar-EG", "en-US") to a Locale.
// Anything unrecognized yields Default.
func Parse(s string) Locale {
	tag, err := language.Parse(s)
	if err != nil {
		return Default
	}
	if base, _ := tag.Base(); base.String() == "ar" {
		return Arabic
	}
	return Default
}

// FromAcceptLanguage picks the best supported language for an
// Accept-Language header value, honoring quality weights. ok is false when
// the header names no supported language.
func FromAcceptLanguage(header string) (Locale, bool) {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default, false
	}
	_, i, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default, false
	}
	return locales[i], true
}

// Resolve returns the text for key in loc, or key itself when untranslated.
func Resolve(key string, loc Locale) string {
	if table, ok := tables[loc]; ok {
		if v, ok := table[key]; ok {
			return v
		}
	}
	return key
}

// Table returns a copy of the full mapping for loc.
func Table(loc Locale) map[string]string {
	src := tables[loc]
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

type contextKey struct{}

// WithLocale returns a context carrying loc.
func WithLocale(ctx context.Context, loc Locale) context.Context {
	return context.WithValue(ctx, contextKey{}, loc)
}

// FromContext returns the locale stored by WithLocale, or Default.
func FromContext(ctx context.Context) Locale {
	if loc, ok := ctx.Value(contextKey{}).(Locale); ok {
		return loc
	}
	return Default
}

// T resolves key in the locale carried by ctx.
func T(ctx context.Context, key string) string {
	return Resolve(key, FromContext(ctx))
}
