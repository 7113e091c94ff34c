package answer

import (
	"fmt"
	"regexp"
)

const (
	// DefaultFinalAnswerMarker is the token the model is prompted to emit before its answer.
	DefaultFinalAnswerMarker = "FINAL_ANSWER:"

	// DefaultTrailingLines is how many trailing lines the bare-letter fallback inspects.
	DefaultTrailingLines = 5
)

// DefaultQuestionHeading matches a line that opens a new question:
// "Question 2", "**Câu 3**", "Bài 4:".
const DefaultQuestionHeading = `^\s*(?:\*\*|__)?\s*(?i:question|câu(?:\s+hỏi)?|bài)\s*\d+`

// DefaultKeywordPatterns are the keyword-adjacent fallbacks, tried in order.
// Keywords are case-insensitive; the captured letter must be an uppercase A-D.
var DefaultKeywordPatterns = []string{
	`(?i:đáp\s*án)(?:\s+(?i:đúng))?(?:\s+(?i:là))?\s*[:：]?\s*\**\s*([A-D])\b`,
	`(?i:answer)(?:\s+(?i:is))?\s*[:：]?\s*\**\s*([A-D])\b`,
	`(?i:chọn)(?:\s+(?i:đáp\s*án|phương\s*án))?\s*[:：]?\s*\**\s*([A-D])\b`,
	`(?i:choose|select)\s*[:：]?\s*\**\s*([A-D])\b`,
	`(?i:kết\s*luận|conclusion)\s*[:：]?\s*\**\s*([A-D])\b`,
	`(?:=>|⇒|→|(?i:suy\s*ra|therefore|thus|hence))\s*[:：,]?\s*\**\s*([A-D])\b`,
	`\*\*\s*([A-D])\s*[.)]?\s*\*\*`,
}

// Phrasebook holds the locale-specific lookup tables the parser tiers read.
// New phrasings belong here rather than in the strategies themselves.
type Phrasebook struct {
	FinalAnswerMarker string
	QuestionHeading   *regexp.Regexp
	KeywordPatterns   []*regexp.Regexp
	TrailingLines     int
}

// DefaultPhrasebook returns the built-in Vietnamese/English tables.
func DefaultPhrasebook() Phrasebook {
	pb, err := NewPhrasebook("", "", nil, 0)
	if err != nil {
		panic(fmt.Sprintf("answer: invalid built-in phrasebook: %v", err))
	}
	return pb
}

// NewPhrasebook compiles a phrasebook. Empty arguments fall back to the defaults.
// Every keyword pattern must contain exactly one capture group for the letter.
func NewPhrasebook(marker, questionHeading string, keywordPatterns []string, trailingLines int) (Phrasebook, error) {
	if marker == "" {
		marker = DefaultFinalAnswerMarker
	}
	if questionHeading == "" {
		questionHeading = DefaultQuestionHeading
	}
	if len(keywordPatterns) == 0 {
		keywordPatterns = DefaultKeywordPatterns
	}
	if trailingLines <= 0 {
		trailingLines = DefaultTrailingLines
	}

	heading, err := regexp.Compile(questionHeading)
	if err != nil {
		return Phrasebook{}, fmt.Errorf("regexp.Compile(%q) > %w", questionHeading, err)
	}

	compiled := make([]*regexp.Regexp, 0, len(keywordPatterns))
	for _, p := range keywordPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return Phrasebook{}, fmt.Errorf("regexp.Compile(%q) > %w", p, err)
		}
		if re.NumSubexp() != 1 {
			return Phrasebook{}, fmt.Errorf("keyword pattern %q must have exactly one capture group, got %d", p, re.NumSubexp())
		}
		compiled = append(compiled, re)
	}

	return Phrasebook{
		FinalAnswerMarker: marker,
		QuestionHeading:   heading,
		KeywordPatterns:   compiled,
		TrailingLines:     trailingLines,
	}, nil
}
