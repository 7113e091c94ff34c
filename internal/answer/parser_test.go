package answer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []ParsedAnswer
	}{
		{
			name: "multi-question labeled answers",
			raw:  "2:B 3:A,C,D 4:E",
			want: []ParsedAnswer{
				{QuestionLabel: "2", Letters: []string{"B"}},
				{QuestionLabel: "3", Letters: []string{"A", "C", "D"}},
				{QuestionLabel: "4", Letters: []string{"E"}},
			},
		},
		{
			name: "labeled answers are case-insensitive and de-duplicated",
			raw:  "FINAL_ANSWER: 1:b, 2:a, c, a",
			want: []ParsedAnswer{
				{QuestionLabel: "1", Letters: []string{"B"}},
				{QuestionLabel: "2", Letters: []string{"A", "C"}},
			},
		},
		{
			name: "labeled answers take priority over the marker",
			raw:  "Explanation first.\nFINAL_ANSWER:\n1:A\n2:G",
			want: []ParsedAnswer{
				{QuestionLabel: "1", Letters: []string{"A"}},
				{QuestionLabel: "2", Letters: []string{"G"}},
			},
		},
		{
			name: "single final answer marker",
			raw:  "FINAL_ANSWER: C",
			want: []ParsedAnswer{
				{Letters: []string{"C"}, Body: "C"},
			},
		},
		{
			name: "marker is case-insensitive and may be bolded",
			raw:  "Reasoning...\n**final_answer:** **B**",
			want: []ParsedAnswer{
				{Letters: []string{"B"}, Body: "**B**"},
			},
		},
		{
			name: "code fence after marker keeps the whole block",
			raw:  "Vì định lý Pythagoras ta có FINAL_ANSWER: \n```\nx = 5\n```",
			want: []ParsedAnswer{
				{Body: "```\nx = 5\n```"},
			},
		},
		{
			name: "blank line inside an open code fence is preserved",
			raw:  "FINAL_ANSWER:\n```python\ndef f():\n\n    return 1\n```\n\nTrailing prose.",
			want: []ParsedAnswer{
				{Body: "```python\ndef f():\n\n    return 1\n```"},
			},
		},
		{
			name: "question heading inside an open code fence stays in the body",
			raw:  "FINAL_ANSWER:\n```\nQuestion 2 = 5\nFINAL_ANSWER: x\n```\nQuestion 3",
			want: []ParsedAnswer{
				{Body: "```\nQuestion 2 = 5\nFINAL_ANSWER: x\n```"},
			},
		},
		{
			name: "blank line ends a plain body",
			raw:  "FINAL_ANSWER: The area is 12\nsquare units\n\nHope this helps!",
			want: []ParsedAnswer{
				{Body: "The area is 12\nsquare units"},
			},
		},
		{
			name: "several markers each close the previous body",
			raw:  "Question 1\nFINAL_ANSWER: x = 3\nFINAL_ANSWER: y = 4\nQuestion 2 discussion\nFINAL_ANSWER: B",
			want: []ParsedAnswer{
				{Body: "x = 3"},
				{Body: "y = 4"},
				{Letters: []string{"B"}, Body: "B"},
			},
		},
		{
			name: "question heading stops the body",
			raw:  "FINAL_ANSWER: 42\n**Câu 2**: Tính diện tích",
			want: []ParsedAnswer{
				{Body: "42"},
			},
		},
		{
			name: "blank lines right after the marker are skipped",
			raw:  "FINAL_ANSWER:\n\nVậy đáp án là B.",
			want: []ParsedAnswer{
				{Body: "Vậy đáp án là B."},
			},
		},
		{
			name: "empty marker body falls through to the next tier",
			raw:  "Thus C\nFINAL_ANSWER:",
			want: []ParsedAnswer{
				{Letters: []string{"C"}},
			},
		},
		{
			name: "keyword fallback in Vietnamese",
			raw:  "Bài giải dài... Vậy đáp án là B.",
			want: []ParsedAnswer{
				{Letters: []string{"B"}},
			},
		},
		{
			name: "keyword fallback in English",
			raw:  "After checking every option, the answer is D.",
			want: []ParsedAnswer{
				{Letters: []string{"D"}},
			},
		},
		{
			name: "keyword fallback uses the first occurrence",
			raw:  "The answer is B, although some argue the answer is D.",
			want: []ParsedAnswer{
				{Letters: []string{"B"}},
			},
		},
		{
			name: "Vietnamese keyword fallback uses the first occurrence",
			raw:  "Đáp án là A. Nếu đề sai thì đáp án là C.",
			want: []ParsedAnswer{
				{Letters: []string{"A"}},
			},
		},
		{
			name: "bolded standalone letter",
			raw:  "The correct option is clearly **C**.",
			want: []ParsedAnswer{
				{Letters: []string{"C"}},
			},
		},
		{
			name: "trailing bare letter",
			raw:  "Let me think about it.\nThe second option fits best.\n\nB",
			want: []ParsedAnswer{
				{Letters: []string{"B"}},
			},
		},
		{
			name: "trailing letter with delimiter",
			raw:  "Some reasoning here.\nA) is wrong because of units.\nmore text\nok",
			want: []ParsedAnswer{
				{Letters: []string{"A"}},
			},
		},
		{
			name: "no discernible structure",
			raw:  "no discernible structure at all",
			want: nil,
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	raw := "2:B 3:A,C,D 4:E"
	assert.Equal(t, Parse(raw), Parse(raw))
}

func TestTrailingLetterStrategy_OnlyInspectsLastLines(t *testing.T) {
	raw := "B\nline 1\nline 2\nline 3\nline 4\nline 5"

	assert.Nil(t, NewTrailingLetterStrategy(5).Extract(raw))
	assert.Equal(t, []ParsedAnswer{{Letters: []string{"B"}}}, NewTrailingLetterStrategy(6).Extract(raw))
}

func TestNewParserWithStrategies(t *testing.T) {
	pb, err := NewPhrasebook("RESULT=", "", []string{`(?i:svar)\s*([A-D])\b`}, 2)
	require.NoError(t, err)

	parser := NewParserWithStrategies(
		NewMarkerStrategy(pb.FinalAnswerMarker, pb.QuestionHeading),
		NewKeywordStrategy(pb.KeywordPatterns),
	)

	assert.Equal(t, []ParsedAnswer{{Letters: []string{"D"}, Body: "D"}}, parser.Parse("result= D"))
	assert.Equal(t, []ParsedAnswer{{Letters: []string{"A"}}}, parser.Parse("Mitt svar A"))
	assert.Nil(t, parser.Parse("FINAL_ANSWER: C"))
}

func TestNewPhrasebook(t *testing.T) {
	tests := []struct {
		name            string
		marker          string
		heading         string
		patterns        []string
		trailingLines   int
		wantErr         bool
		wantMarker      string
		wantPatterns    int
		wantTrailing    int
		wantHeadingLine string
	}{
		{
			name:            "defaults",
			wantMarker:      DefaultFinalAnswerMarker,
			wantPatterns:    len(DefaultKeywordPatterns),
			wantTrailing:    DefaultTrailingLines,
			wantHeadingLine: "**Question 3** What is x?",
		},
		{
			name:            "overrides",
			marker:          "ANSWER>>",
			heading:         `^Problem \d+`,
			patterns:        []string{`pick ([A-D])`},
			trailingLines:   3,
			wantMarker:      "ANSWER>>",
			wantPatterns:    1,
			wantTrailing:    3,
			wantHeadingLine: "Problem 7",
		},
		{
			name:     "pattern without capture group",
			patterns: []string{`answer [A-D]`},
			wantErr:  true,
		},
		{
			name:    "invalid heading",
			heading: `(`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPhrasebook(tt.marker, tt.heading, tt.patterns, tt.trailingLines)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMarker, got.FinalAnswerMarker)
			assert.Len(t, got.KeywordPatterns, tt.wantPatterns)
			assert.Equal(t, tt.wantTrailing, got.TrailingLines)
			assert.True(t, got.QuestionHeading.MatchString(tt.wantHeadingLine))
		})
	}
}

func TestDefaultKeywordPatterns_LetterIsUppercaseOnly(t *testing.T) {
	for _, p := range DefaultKeywordPatterns {
		re := regexp.MustCompile(p)
		assert.False(t, re.MatchString("the answer is a function of x"), p)
	}
}
