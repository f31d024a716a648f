package sync

import (
	"sort"
	"strings"
)

// categoryLabels maps known sections-document category keys to display labels.
// Unrecognized keys fall back to a title-cased rendering of the key.
var categoryLabels = map[string]string{
	"languages":              "Languages",
	"developerTools":         "Developer Tools",
	"technologiesFrameworks": "Technologies & Frameworks",
}

// skillCategory is one resolved category of skill names, in input order.
type skillCategory struct {
	Label string
	Names []string
}

// resolveSkills resolves the skills section into a flat list of categories,
// handling both supported shapes:
//
//   - map shape: {"languages": "Python, Go", "developerTools": "Git"}
//   - list shape: [{"category": "Languages", "items": ["Python", "Go"]}]
//
// Any other shape resolves to nil, which the caller treats as an empty set.
func resolveSkills(value any) []skillCategory {
	switch v := value.(type) {
	case map[string]any:
		return resolveSkillMap(v)
	case []any:
		return resolveSkillList(v)
	default:
		return nil
	}
}

func resolveSkillMap(m map[string]any) []skillCategory {
	// Sorted keys keep processing order deterministic; JSON objects carry no
	// ordering of their own.
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var categories []skillCategory
	for _, key := range keys {
		csv, ok := m[key].(string)
		if !ok || csv == "" {
			continue
		}

		var names []string
		for _, name := range strings.Split(csv, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			continue
		}

		categories = append(categories, skillCategory{
			Label: categoryLabel(key),
			Names: names,
		})
	}
	return categories
}

func resolveSkillList(list []any) []skillCategory {
	var categories []skillCategory
	for _, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		label := stringField(obj, "category")
		if label == "" {
			label = "Other"
		}

		var names []string
		if items, ok := obj["items"].([]any); ok {
			for _, item := range items {
				name, ok := item.(string)
				if !ok {
					continue
				}
				if name = strings.TrimSpace(name); name != "" {
					names = append(names, name)
				}
			}
		}

		categories = append(categories, skillCategory{Label: label, Names: names})
	}
	return categories
}

// categoryLabel converts a category key to its display label. Known keys use
// the fixed table; anything else gets underscores replaced and words
// title-cased.
func categoryLabel(key string) string {
	if label, ok := categoryLabels[key]; ok {
		return label
	}

	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
