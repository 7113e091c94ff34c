package locate

import "strings"

// Matcher is one tier of the resolver. text is the trimmed, uppercased
// observation text and letter a single uppercase choice letter.
type Matcher interface {
	Name() string
	Match(text, letter string) bool
}

// PrefixMatcher accepts "B", "B.", "B)", "B:" and "B " at the start of a token.
type PrefixMatcher struct{}

func (PrefixMatcher) Name() string { return "exact-prefix" }

func (PrefixMatcher) Match(text, letter string) bool {
	if text == letter {
		return true
	}
	for _, delim := range []string{".", ")", ":", " "} {
		if strings.HasPrefix(text, letter+delim) {
			return true
		}
	}
	return false
}

// KeywordMatcher accepts answer phrasing such as "CHỌN B", or the letter followed
// by a bracket-style delimiter ("B]").
type KeywordMatcher struct {
	phrases []string
}

func NewKeywordMatcher(phrases []string) KeywordMatcher {
	return KeywordMatcher{phrases: phrases}
}

func (KeywordMatcher) Name() string { return "keyword" }

func (m KeywordMatcher) Match(text, letter string) bool {
	for _, p := range m.phrases {
		if strings.Contains(text, p+" "+letter) {
			return true
		}
	}
	if len(text) > len(letter) && strings.HasPrefix(text, letter) {
		switch text[len(letter)] {
		case '.', ')', ':', ']':
			return true
		}
	}
	return false
}

// GlyphMatcher accepts a radio or bullet glyph directly before the letter ("○ B", "●B").
type GlyphMatcher struct {
	glyphs []string
}

func NewGlyphMatcher(glyphs []string) GlyphMatcher {
	return GlyphMatcher{glyphs: glyphs}
}

func (GlyphMatcher) Name() string { return "glyph" }

func (m GlyphMatcher) Match(text, letter string) bool {
	for _, g := range m.glyphs {
		rest := text
		for {
			i := strings.Index(rest, g)
			if i < 0 {
				break
			}
			rest = rest[i+len(g):]
			if strings.HasPrefix(strings.TrimLeft(rest, " \t"), letter) {
				return true
			}
		}
	}
	return false
}
