package camspec

import (
	"regexp"
	"strings"
	"unicode"
)

var entityRe = regexp.MustCompile(`&[a-zA-Z]+;`)

// CleanText normalizes text scraped from markup. It strips control
// characters, turns leftover entity references such as "&nbsp;" into
// spaces, collapses whitespace runs to a single space and trims the ends.
// CleanText is idempotent and never lengthens its input.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	// Whitespace controls (\t, \n, \r, ...) separate words; the rest are
	// dropped so they cannot glue an entity together afterwards.
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
	s = entityRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeKey derives an identifier-safe key from s: the cleaned text with
// every character outside [A-Za-z0-9_] replaced by an underscore and a
// "key_" prefix when it would start with a digit. Non-empty input never
// yields an empty key.
func SanitizeKey(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range CleanText(s) {
		if r < unicode.MaxASCII && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	key := b.String()
	switch {
	case key == "":
		return "key"
	case key[0] >= '0' && key[0] <= '9':
		return "key_" + key
	}
	return key
}
