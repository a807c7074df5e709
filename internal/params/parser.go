package params

import (
	"fmt"
	"strings"
)

// ParseKeyValuePairs converts a slice of "key=value" strings into a map.
// Only the first '=' splits, so values may contain '='.
//
// Example:
//
//	vars, err := ParseKeyValuePairs([]string{"author=ops", "query=a=b"})
//	// Returns: map[string]string{"author": "ops", "query": "a=b"}
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("variable %q is not in key=value format (example: --var author=ops)", pair)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("variable has empty key: %q", pair)
		}

		result[key] = value
	}

	return result, nil
}

// Merge layers maps left to right; a key in a later map replaces the same
// key from an earlier one. The result is never nil.
func Merge(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
