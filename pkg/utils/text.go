package utils

import "strings"

// NormalizeKey lowercases and trims s for case-insensitive comparisons.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeList trims each element and drops empty ones. The input is not modified.
func NormalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			out = append(out, t)
		}
	}
	return out
}
