package diagnosis

import (
	"strings"

	"github.com/giygas/symptoms-api/dataset/entities"
)

// LabelMatcher resolves canned phrases straight to a disease name
type LabelMatcher struct {
	byText         map[string]int
	labelToDisease map[int]string
}

// NewLabelMatcher indexes the label table by lowercase text.
// When a text appears more than once the first row wins. Rows with blank
// text are never indexed.
func NewLabelMatcher(labels []entities.LabelEntry, labelToDisease map[int]string) *LabelMatcher {
	byText := make(map[string]int, len(labels))
	for _, l := range labels {
		key := l.TextLower
		if key == "" && l.Text != "" {
			key = strings.ToLower(l.Text)
		}
		if key == "" {
			continue
		}
		if _, exists := byText[key]; !exists {
			byText[key] = l.Label
		}
	}

	return &LabelMatcher{byText: byText, labelToDisease: labelToDisease}
}

// Match returns the disease for text when the whole text equals a known
// phrase, ignoring case. An unmapped label or an empty disease name is a miss.
func (m *LabelMatcher) Match(text string) (string, bool) {
	label, ok := m.byText[strings.ToLower(text)]
	if !ok {
		return "", false
	}

	disease, ok := m.labelToDisease[label]
	if !ok || disease == "" {
		return "", false
	}
	return disease, true
}
