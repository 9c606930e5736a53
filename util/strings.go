package util

import "strings"

// Coalesce returns the first non-zero value, or the zero value if all are zero.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// TrimTrailing strips trailing whitespace (spaces, tabs, newlines) from s.
func TrimTrailing(s string) string {
	return strings.TrimRight(s, " \t\r\n")
}
