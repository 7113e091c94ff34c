// Package locate turns an answer letter into a clickable screen point using OCR token geometry.
package locate

import "strings"

// DefaultGlyphs are the bullet and radio-button glyphs that precede an option letter.
var DefaultGlyphs = []string{"○", "●", "◯", "◉", "□", "■", "☐", "☑", "◻", "◼", "⚪", "⚫"}

// DefaultKeywordPhrases precede a letter in "select/answer" phrasing.
var DefaultKeywordPhrases = []string{"ĐÁP ÁN", "CHỌN", "ANSWER"}

// Tables are the locale-specific lookup tables the matchers read.
type Tables struct {
	Glyphs         []string
	KeywordPhrases []string
}

// DefaultTables returns the built-in glyph and phrase tables.
func DefaultTables() Tables {
	return Tables{
		Glyphs:         append([]string(nil), DefaultGlyphs...),
		KeywordPhrases: append([]string(nil), DefaultKeywordPhrases...),
	}
}

// withDefaults fills empty tables and uppercases phrases so they compare
// against the uppercased observation text.
func (t Tables) withDefaults() Tables {
	out := DefaultTables()
	if len(t.Glyphs) > 0 {
		out.Glyphs = append([]string(nil), t.Glyphs...)
	}
	if len(t.KeywordPhrases) > 0 {
		out.KeywordPhrases = make([]string, 0, len(t.KeywordPhrases))
		for _, p := range t.KeywordPhrases {
			if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
				out.KeywordPhrases = append(out.KeywordPhrases, p)
			}
		}
	}
	return out
}
