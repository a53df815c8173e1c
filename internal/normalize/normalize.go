// Package normalize holds small input-normalization helpers shared by the
// service layer.
package normalize

import "strings"

// Interests trims each entry, drops empties, and removes duplicates while
// preserving the first occurrence's position. Comparison is case-sensitive:
// "Sci-Fi" and "sci-fi" are distinct interests.
func Interests(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}

	return out
}

// SplitInterests parses a comma-separated interests string as submitted by
// the profile form, then normalizes the result.
func SplitInterests(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return Interests(strings.Split(raw, ","))
}

// Email lowercases and trims an email address for case-insensitive matching.
// The stored display email keeps its original casing; this form is used only
// for lookups and uniqueness.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
