package logbook

import (
	"strings"
	"unicode"
)

// Nationality prefixes that take a hyphen after the prefix. Two-letter
// prefixes come first so "EC" wins over a one-letter match.
var hyphenatedPrefixes = []string{"EC", "ZS", "JA", "PH", "SE", "LV", "PP", "G", "D", "F", "C"}

// FormatRegistration normalizes an aircraft registration mark the way it is
// painted on the airframe: uppercase, with a hyphen after the nationality
// prefix for countries that use one.
func FormatRegistration(reg string) string {
	reg = strings.ToUpper(reg)
	if strings.Contains(reg, "-") {
		return reg
	}

	if strings.HasPrefix(reg, "VH") {
		if len(reg) >= 3 {
			return "VH-" + reg[2:]
		}
		return reg
	}

	// US marks are never hyphenated.
	if len(reg) >= 2 && reg[0] == 'N' && unicode.IsDigit(rune(reg[1])) {
		return reg
	}

	for _, prefix := range hyphenatedPrefixes {
		if strings.HasPrefix(reg, prefix) && len(reg) > len(prefix) {
			return prefix + "-" + reg[len(prefix):]
		}
	}
	return reg
}
