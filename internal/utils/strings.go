package utils

import (
	"strings"
	"unicode"
)

// IsBlank reports whether s is empty or contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// DigitsOnly keeps the ASCII digits of raw, dropping everything else:
// "1 998 cm3" -> "19983".
func DigitsOnly(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// CutAtLetter returns the part of s before its first letter, so a unit
// suffix such as "cm3" does not contribute digits: "1998 cm3" -> "1998 ".
func CutAtLetter(s string) string {
	if i := strings.IndexFunc(s, unicode.IsLetter); i >= 0 {
		return s[:i]
	}
	return s
}
