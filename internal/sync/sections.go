package sync

import "unicode/utf8"

// Maximum stored lengths for normalized fields. Oversized input is truncated,
// not rejected, before comparison or storage.
const (
	maxTitleLen       = 50
	maxDescriptionLen = 200
)

// truncate clips s to at most n runes. Clipping by runes keeps the result
// valid UTF-8; a byte slice could split a multi-byte character and the
// database would reject the string.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// sectionArray returns the named section as a slice of objects. Missing keys,
// non-array values, and non-object elements all degrade to absence.
func sectionArray(sections map[string]any, key string) []map[string]any {
	list, ok := sections[key].([]any)
	if !ok {
		return nil
	}

	entries := make([]map[string]any, 0, len(list))
	for _, raw := range list {
		if obj, ok := raw.(map[string]any); ok {
			entries = append(entries, obj)
		}
	}
	return entries
}

// stringField returns the named field as a string, or "" when absent or not a
// string. The sections document carries no schema, so every read tolerates
// missing and mistyped keys.
func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// optional returns nil for the empty string, otherwise a pointer to s.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
