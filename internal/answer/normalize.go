package answer

import (
	"regexp"
	"strings"
)

// statusSuffixes are trailing markers models append to a chosen option.
// They are compared against the uppercased literal.
var statusSuffixes = []string{
	"(CORRECT)",
	"(ĐÚNG)",
	"(SELECTED)",
	"- CORRECT",
	"- ĐÚNG",
	"✅",
	"✔",
	"✓",
}

var (
	letterListPattern   = regexp.MustCompile(`^[A-G](?:[\s,;&/]+[A-G])*$`)
	leadingLetterChoice = regexp.MustCompile(`^([A-G])\s*[.):]`)
	anyChoiceLetter     = regexp.MustCompile(`[A-G]`)
)

// NormalizeLiteral trims a literal answer, drops markdown emphasis and status
// suffixes, and uppercases it so that letters can be read off directly.
func NormalizeLiteral(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("**", "", "__", "").Replace(s)
	s = strings.ToUpper(s)
	for {
		trimmed := strings.TrimSpace(s)
		for _, suffix := range statusSuffixes {
			trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, suffix))
		}
		trimmed = strings.TrimRight(trimmed, ".*_ \t")
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

// LettersFromBody reads the choice letters a final-answer body denotes.
// "C", "A, C", "B. 42" and "**D**" all yield letters; anything else yields nil.
func LettersFromBody(body string) []string {
	literal := NormalizeLiteral(body)
	if literal == "" {
		return nil
	}
	if letterListPattern.MatchString(literal) {
		return UniqueLetters(anyChoiceLetter.FindAllString(literal, -1))
	}
	if m := leadingLetterChoice.FindStringSubmatch(literal); m != nil {
		return []string{m[1]}
	}
	return nil
}

// UniqueLetters uppercases and de-duplicates letters, keeping first-occurrence order.
func UniqueLetters(letters []string) []string {
	seen := make(map[string]struct{}, len(letters))
	out := make([]string, 0, len(letters))
	for _, l := range letters {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// IsChoiceLetter reports whether s is exactly one uppercase letter between 'A' and last.
func IsChoiceLetter(s string, last byte) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= last
}

func normalizeNewlines(s string) string {
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)
}
