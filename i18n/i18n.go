// Package i18n translates the messages lingokit prints to its user.
//
// Catalogs are gettext .po files under locales/<lang>/LC_MESSAGES and are
// compiled into the binary. Strings without a translation are returned
// unchanged, so calling T before Init is safe.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "lingokit"

// localeVars are consulted in gettext order.
var localeVars = []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"}

var (
	po   *gotext.Locale
	lang = "en"
)

// Init loads the catalog for l, or for the language of the environment
// when l is empty.
func Init(l string) {
	if l == "" {
		l = detectLanguage()
	}
	lang = l
	po = gotext.NewLocaleFSWithPath(l, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// Language returns the language selected by the last Init.
func Language() string { return lang }

// T returns the translation of msgid. msgid is never treated as a format.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	// Locale.Get is a printf wrapper; GetN is not.
	return po.GetN(msgid, msgid, 1)
}

// Tf translates format and then formats it with args.
func Tf(format string, args ...any) string {
	return fmt.Sprintf(T(format), args...)
}

// N returns the singular or plural translation for n.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

func detectLanguage() string {
	for _, name := range localeVars {
		val := os.Getenv(name)
		if name == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		if l := normalizeLocale(val); l != "" {
			return l
		}
	}
	return "en"
}

// normalizeLocale strips the codeset and modifier ("de_DE.UTF-8@euro" is
// "de_DE"). C and POSIX give "".
func normalizeLocale(val string) string {
	val, _, _ = strings.Cut(val, "@")
	val, _, _ = strings.Cut(val, ".")
	val = strings.TrimSpace(val)
	if val == "C" || val == "POSIX" {
		return ""
	}
	return val
}
