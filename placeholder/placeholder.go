// Package placeholder masks interpolation placeholders ({{name}}, {count},
// %s%, $var$, ${var}) with opaque tokens before text is sent to a machine
// translator, and puts the originals back afterwards.
//
// Masked tokens have the form __PLCHn__ where n is the 0-based index of the
// match in the original text.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPattern matches double-brace, single-brace, percent and dollar
// style placeholders.
const DefaultPattern = `\{\{[^}]+\}\}|\{[^}]+\}|%[^%]+%|\$[^$]+\$|\$\{[^}]+\}`

const (
	tokenPrefix = "__PLCH"
	tokenSuffix = "__"
)

var (
	defaultRe = regexp.MustCompile(DefaultPattern)
	tokenRe   = regexp.MustCompile(`__PLCH(\d+)__`)
)

// Placeholder is a single masked occurrence.
type Placeholder struct {
	Token    string
	Original string
}

// Map records the placeholders masked in one text, in match order.
type Map []Placeholder

// Len returns the number of masked placeholders.
func (m Map) Len() int { return len(m) }

// Default returns the compiled default pattern.
func Default() *regexp.Regexp { return defaultRe }

// Compile compiles a user supplied placeholder pattern.
// An empty pattern yields the default one.
func Compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return defaultRe, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid interpolation pattern %q: %w", pattern, err)
	}
	return re, nil
}

// Token returns the mask token for the n-th placeholder.
func Token(n int) string {
	return tokenPrefix + strconv.Itoa(n) + tokenSuffix
}

type match struct {
	start, end int
}

// Extract replaces every match of re in text with a __PLCHn__ token.
// A nil re uses the default pattern.
//
// Text that already contains the token prefix is returned untouched with an
// empty map, otherwise Restore could not tell natural text from tokens.
func Extract(text string, re *regexp.Regexp) (string, Map) {
	if re == nil {
		re = defaultRe
	}
	if text == "" || strings.Contains(text, tokenPrefix) {
		return text, nil
	}

	var matches []match
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[1] == loc[0] {
			continue
		}
		matches = append(matches, match{start: loc[0], end: loc[1]})
	}
	if len(matches) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	m := make(Map, 0, len(matches))
	last := 0
	for i, mt := range matches {
		tok := Token(i)
		b.WriteString(text[last:mt.start])
		b.WriteString(tok)
		m = append(m, Placeholder{Token: tok, Original: text[mt.start:mt.end]})
		last = mt.end
	}
	b.WriteString(text[last:])
	return b.String(), m
}

// Restore replaces every token of m found in masked with its original
// placeholder. Tokens the translator duplicated are all restored; tokens not
// in m, including spellings like __PLCH00__, are left as they are.
func Restore(masked string, m Map) string {
	if len(m) == 0 || !strings.Contains(masked, tokenPrefix) {
		return masked
	}
	return tokenRe.ReplaceAllStringFunc(masked, func(tok string) string {
		n, err := strconv.Atoi(tok[len(tokenPrefix) : len(tok)-len(tokenSuffix)])
		if err != nil || n < 0 || n >= len(m) || m[n].Token != tok {
			return tok
		}
		return m[n].Original
	})
}
