// Package notify delivers the run's mail. Every notifier passes subject and body
// through ASCIISafe before anything leaves the process.
package notify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var punctuation = strings.NewReplacer(
	"—", "-", // em dash
	"–", "-", // en dash
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"…", "...",
	"\u00a0", " ",
)

var nonASCII = runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII }))

// ASCIISafe transliterates common typographic punctuation to ASCII and drops every
// other non-ASCII rune.
func ASCIISafe(s string) string {
	s = punctuation.Replace(s)
	out, _, _ := transform.String(nonASCII, s)
	return out
}
