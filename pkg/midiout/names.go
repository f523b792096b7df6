package midiout

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanName makes a label safe for use in file names: the text is NFC
// normalised so composed and decomposed spellings collapse to the same
// name, characters outside letters, digits and "._-" are removed, and the
// result is capped at 24 runes.
func CleanName(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range norm.NFC.String(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._-", r) {
			b.WriteRune(r)
		}
	}

	cleaned := []rune(b.String())
	if len(cleaned) > 24 {
		cleaned = cleaned[:24]
	}
	return string(cleaned)
}
