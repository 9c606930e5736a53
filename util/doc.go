// Package util provides small generic helpers shared across invokit
// packages: pointer helpers for tri-state option flags, first-non-zero
// selection, and trailing-whitespace trimming.
package util
