package utils

import "strings"

// NormalizeWord canonicalizes a filter-list entry the same way the content
// filter lower-cases message text.
func NormalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
