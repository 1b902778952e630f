// Package diagnosis turns chat messages into diagnosis suggestions using the
// reference dataset: an exact-text label lookup first, then a symptom overlap
// score over the session's accumulated symptoms.
package diagnosis

import "strings"

// ExtractSymptoms splits free text into lowercase symptom tokens.
// Periods are removed, the text is split on commas and blank tokens are dropped.
func ExtractSymptoms(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), ".", "")
	if text == "" {
		return []string{}
	}

	parts := strings.Split(text, ",")
	symptoms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			symptoms = append(symptoms, p)
		}
	}
	return symptoms
}
