// Package strings holds list-normalising helpers for configuration values.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each element and drops empty entries and repeats.
// Order is preserved and comparison is case-sensitive.
//
// Example:
//
//	DedupeAndTrim([]string{"  https://a.example ", "https://b.example", "https://a.example", ""})
//	// Returns: []string{"https://a.example", "https://b.example"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// SplitList splits a comma-separated value and normalises it with
// DedupeAndTrim. A blank input yields nil.
func SplitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(v, ","))
}
