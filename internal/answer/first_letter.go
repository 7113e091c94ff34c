package answer

import "strings"

// ExtractFirstLetter is the low-latency variant used to click the first answer
// straight away. It trades accuracy for speed:
//   - the first A-D letter right after any colon ("2:B 3:A" -> "B"). Colons followed
//     by something else are skipped, so "1:E 2:B" gives question 2's "B",
//   - else the whole trimmed text when it is a single A-D letter,
//   - else the first A-D letter anywhere in the uppercased text.
//
// It returns "" when none applies.
func ExtractFirstLetter(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] != ':' {
			continue
		}
		j := i + 1
		for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '*') {
			j++
		}
		if j < len(text) {
			if c := upper(text[j]); c >= 'A' && c <= 'D' {
				return string(c)
			}
		}
	}

	trimmed := strings.ToUpper(strings.TrimSpace(text))
	if IsChoiceLetter(trimmed, 'D') {
		return trimmed
	}

	for i := 0; i < len(trimmed); i++ {
		if c := trimmed[i]; c >= 'A' && c <= 'D' {
			return string(c)
		}
	}
	return ""
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
