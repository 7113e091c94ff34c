package answer

import (
	"regexp"
	"strings"
)

// Strategy is one tier of the parser. Extract returns nil when the tier finds nothing,
// which hands the text to the next tier.
type Strategy interface {
	Name() string
	Extract(text string) []ParsedAnswer
}

var labeledPattern = regexp.MustCompile(`(\d+):([A-Ga-g](?:\s*,\s*[A-Ga-g])*)\b`)

// LabeledStrategy reads the multi-question convention "2:B 3:A,C,D".
type LabeledStrategy struct{}

func (LabeledStrategy) Name() string { return "labeled" }

func (LabeledStrategy) Extract(text string) []ParsedAnswer {
	matches := labeledPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	answers := make([]ParsedAnswer, 0, len(matches))
	for _, m := range matches {
		answers = append(answers, ParsedAnswer{
			QuestionLabel: m[1],
			Letters:       UniqueLetters(strings.Split(m[2], ",")),
		})
	}
	return answers
}

// MarkerStrategy captures the body that follows each final-answer marker.
// A body continues over following lines until another marker, a question heading,
// or a blank line outside an open code fence.
type MarkerStrategy struct {
	marker  *regexp.Regexp
	heading *regexp.Regexp
}

func NewMarkerStrategy(marker string, heading *regexp.Regexp) MarkerStrategy {
	return MarkerStrategy{
		marker:  regexp.MustCompile(`(?i)` + regexp.QuoteMeta(marker)),
		heading: heading,
	}
}

func (MarkerStrategy) Name() string { return "final-answer-marker" }

func (s MarkerStrategy) Extract(text string) []ParsedAnswer {
	lines := strings.Split(normalizeNewlines(text), "\n")

	var answers []ParsedAnswer
	for i := 0; i < len(lines); {
		rest, ok := s.afterMarker(lines[i])
		if !ok {
			i++
			continue
		}
		i++

		var body []string
		if strings.TrimSpace(rest) != "" {
			body = append(body, rest)
		}
		for ; i < len(lines); i++ {
			line := lines[i]
			// Inside an open code fence every line belongs to the body.
			if hasOpenFence(body) {
				body = append(body, line)
				continue
			}
			if s.marker.MatchString(line) {
				break
			}
			if s.heading != nil && s.heading.MatchString(line) {
				break
			}
			if strings.TrimSpace(line) == "" {
				if len(body) == 0 {
					continue
				}
				break
			}
			body = append(body, line)
		}

		joined := strings.Trim(strings.Join(body, "\n"), " \t\n")
		if joined == "" {
			continue
		}
		answers = append(answers, ParsedAnswer{
			Letters: LettersFromBody(joined),
			Body:    joined,
		})
	}
	return answers
}

func (s MarkerStrategy) afterMarker(line string) (string, bool) {
	loc := s.marker.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	// "**FINAL_ANSWER:** B" leaves the closing emphasis right after the marker.
	rest := strings.TrimLeft(line[loc[1]:], "*_")
	return strings.TrimLeft(rest, " \t"), true
}

func hasOpenFence(body []string) bool {
	fences := 0
	for _, line := range body {
		fences += strings.Count(line, "```")
	}
	return fences%2 == 1
}

// KeywordStrategy looks for a single A-D letter next to an answer keyword.
// The first pattern that matches anywhere wins, and its first occurrence is used.
type KeywordStrategy struct {
	patterns []*regexp.Regexp
}

func NewKeywordStrategy(patterns []*regexp.Regexp) KeywordStrategy {
	return KeywordStrategy{patterns: patterns}
}

func (KeywordStrategy) Name() string { return "keyword" }

func (s KeywordStrategy) Extract(text string) []ParsedAnswer {
	for _, re := range s.patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		letter := strings.ToUpper(m[1])
		return []ParsedAnswer{{Letters: []string{letter}}}
	}
	return nil
}

// TrailingLetterStrategy accepts a bare letter ("B", "C.", "D)") on one of the last lines.
type TrailingLetterStrategy struct {
	lines int
}

func NewTrailingLetterStrategy(lines int) TrailingLetterStrategy {
	return TrailingLetterStrategy{lines: lines}
}

func (TrailingLetterStrategy) Name() string { return "trailing-letter" }

func (s TrailingLetterStrategy) Extract(text string) []ParsedAnswer {
	lines := strings.Split(strings.TrimSpace(normalizeNewlines(text)), "\n")
	start := len(lines) - s.lines
	if start < 0 {
		start = 0
	}
	for i := len(lines) - 1; i >= start; i-- {
		line := strings.TrimSpace(lines[i])
		if letter, ok := bareLetter(line); ok {
			return []ParsedAnswer{{Letters: []string{letter}}}
		}
	}
	return nil
}

func bareLetter(line string) (string, bool) {
	if line == "" || line[0] < 'A' || line[0] > 'D' {
		return "", false
	}
	if len(line) == 1 {
		return line, true
	}
	switch line[1] {
	case '.', ')', ':':
		return line[:1], true
	}
	return "", false
}
