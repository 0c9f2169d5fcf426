package classifier

import "strings"

// NormalizeText trims surrounding whitespace and collapses inner runs to one space
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeTextArray normalizes every line and drops the ones left empty
func NormalizeTextArray(texts []string) []string {
	result := make([]string, 0, len(texts))
	for _, text := range texts {
		normalized := NormalizeText(text)
		if normalized != "" {
			result = append(result, normalized)
		}
	}
	return result
}

// NormalizeOrDefault normalizes text and substitutes def when nothing is left.
func NormalizeOrDefault(text, def string) string {
	if normalized := NormalizeText(text); normalized != "" {
		return normalized
	}
	return def
}
