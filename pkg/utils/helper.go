package utils

import (
	"strconv"
	"strings"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// NormalizeSeatCodes trims, upper-cases and deduplicates seat codes,
// preserving the original order. Empty entries are dropped.
func NormalizeSeatCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	normalized := make([]string, 0, len(codes))

	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		normalized = append(normalized, code)
	}

	return normalized
}
