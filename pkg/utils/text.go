// Package utils provides shared utilities for text and logging.
package utils

import "unicode/utf8"

// Truncate returns s capped at maxChars characters (runes, not bytes), so a
// cap never splits a multi-byte sequence. If maxChars is 0 or negative, s is
// returned unchanged.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxChars])
}
