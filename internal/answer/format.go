package answer

import (
	"fmt"
	"strings"
)

// Format renders parsed answers for display or the clipboard.
// A single unlabeled answer is shown bare; otherwise every answer is prefixed with
// "Question N", where N is its label or, for unlabeled bodies, its 1-based position.
func Format(answers []ParsedAnswer) string {
	switch {
	case len(answers) == 0:
		return ""
	case len(answers) == 1 && answers[0].QuestionLabel == "":
		return answers[0].Value()
	}

	blocks := make([]string, 0, len(answers))
	for i, a := range answers {
		label := a.QuestionLabel
		if label == "" {
			label = fmt.Sprint(i + 1)
		}
		value := a.Value()
		if strings.Contains(value, "\n") {
			blocks = append(blocks, fmt.Sprintf("Question %s:\n%s", label, value))
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Question %s: %s", label, value))
	}
	return strings.Join(blocks, "\n")
}
