package utils

import (
	"strings"
)

// NormalizeID uppercases and trims a public ID the way users type them
// (user IDs are stored uppercase, observation IDs are digits so unaffected).
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// NormalizeIDs normalizes a list and drops empties, preserving order
func NormalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = NormalizeID(id)
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
