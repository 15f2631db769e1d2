// Package utils provides shared text, math, and logging helpers.
package utils

// Truncate caps s at maxLen bytes, appending "..." when it was cut. Result
// previews and query output both use this; a non-positive maxLen disables
// the cap.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
