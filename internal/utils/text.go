// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"strconv"
	"strings"
)

// ParseInt64 converts a string to an int64, returning the provided
// default when the string is empty or not a valid integer.
func ParseInt64(s string, def int64) int64 {
	if s == "" {
		return def
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return def
}

// TrimWords shortens a text to at most n whitespace-separated words,
// appending an ellipsis when something was cut.
//
// Example:
//
//	TrimWords("one two three", 2) // "one two..."
//	TrimWords("short", 10)        // "short"
func TrimWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) <= n {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:n], " ") + "..."
}
