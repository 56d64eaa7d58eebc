// Package i18n holds the Arabic, English and Turkish message catalog used for
// API messages, notifications, emails and the simulated admission replies.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported interface language.
type Lang string

const (
	Arabic  Lang = "ar"
	English Lang = "en"
	Turkish Lang = "tr"
)

// Default is used when nothing better can be negotiated.
const Default = Arabic

var matcher = language.NewMatcher([]language.Tag{
	language.Arabic,
	language.English,
	language.Turkish,
})

// Supported lists the languages in catalog order.
func Supported() []Lang {
	return []Lang{Arabic, English, Turkish}
}

// Parse returns the language for a code such as "tr" or "en-US".
func Parse(code string) (Lang, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	switch Lang(code) {
	case Arabic, English, Turkish:
		return Lang(code), true
	}
	return "", false
}

// Negotiate picks the response language. An explicit query value wins, then the
// Accept-Language header, then fallback.
func Negotiate(query, acceptLanguage string, fallback Lang) Lang {
	if lang, ok := Parse(query); ok {
		return lang
	}

	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, index, confidence := matcher.Match(tags...)
			if confidence >= language.High {
				return Supported()[index]
			}
		}
	}

	if _, ok := Parse(string(fallback)); ok {
		return fallback
	}
	return Default
}

// T translates key into lang, formatting args with fmt.Sprintf. Missing
// translations fall back to English and finally to the key itself.
func T(lang Lang, key string, args ...interface{}) string {
	text, ok := catalog[lang][key]
	if !ok {
		text, ok = catalog[English][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}

// Has reports whether key exists in the English catalog.
func Has(key string) bool {
	_, ok := catalog[English][key]
	return ok
}
