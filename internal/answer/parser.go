package answer

import "log/slog"

// Parser runs its strategies in order and returns the result of the first one that finds anything.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	strategies []Strategy
}

// NewParser builds the standard four-tier parser from a phrasebook.
func NewParser(pb Phrasebook) *Parser {
	return NewParserWithStrategies(
		LabeledStrategy{},
		NewMarkerStrategy(pb.FinalAnswerMarker, pb.QuestionHeading),
		NewKeywordStrategy(pb.KeywordPatterns),
		NewTrailingLetterStrategy(pb.TrailingLines),
	)
}

// NewParserWithStrategies builds a parser from an explicit tier list.
func NewParserWithStrategies(strategies ...Strategy) *Parser {
	return &Parser{strategies: append([]Strategy(nil), strategies...)}
}

// Parse extracts the answers from a raw model response. An empty result means no
// answer could be extracted; callers should show the raw text instead of guessing.
func (p *Parser) Parse(raw string) []ParsedAnswer {
	for _, s := range p.strategies {
		if answers := s.Extract(raw); len(answers) > 0 {
			slog.Default().Debug("answer parsed", "tier", s.Name(), "count", len(answers))
			return answers
		}
	}
	return nil
}

var defaultParser = NewParser(DefaultPhrasebook())

// Parse runs the default parser.
func Parse(raw string) []ParsedAnswer {
	return defaultParser.Parse(raw)
}
