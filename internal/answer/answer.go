// Package answer turns free-form model output into structured multiple-choice answers.
package answer

import "strings"

// ParsedAnswer is one answer extracted from a model response.
// QuestionLabel is empty for the unlabeled single-question conventions.
// Letters holds uppercase choices A-G in first-occurrence order; it is nil when the
// answer body is free-form text (for example a code block) rather than a letter choice.
type ParsedAnswer struct {
	QuestionLabel string   `json:"question_label,omitempty" yaml:"question_label,omitempty"`
	Letters       []string `json:"letters,omitempty" yaml:"letters,omitempty"`
	Body          string   `json:"body,omitempty" yaml:"body,omitempty"`
}

// HasLetters reports whether the answer names at least one choice.
func (a ParsedAnswer) HasLetters() bool {
	return len(a.Letters) > 0
}

// Value is the text shown for the answer: its letters, or its body when it has none.
func (a ParsedAnswer) Value() string {
	if a.HasLetters() {
		return strings.Join(a.Letters, ", ")
	}
	return a.Body
}

func (a ParsedAnswer) String() string {
	if a.QuestionLabel == "" {
		return a.Value()
	}
	return a.QuestionLabel + ": " + a.Value()
}
