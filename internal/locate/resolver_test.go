package locate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuanhai0913/Vision-Key/internal/geometry"
	"github.com/xuanhai0913/Vision-Key/internal/ocr"
)

func observation(text string, x, y float64) ocr.TextObservation {
	return ocr.TextObservation{
		Text:        text,
		BoundingBox: geometry.Rect{X: x, Y: y, Width: 0.1, Height: 0.05},
	}
}

func TestResolver_Find(t *testing.T) {
	tests := []struct {
		name         string
		letter       string
		observations []ocr.TextObservation
		wantText     string
		wantFound    bool
	}{
		{
			name:   "exact letter",
			letter: "B",
			observations: []ocr.TextObservation{
				observation("A", 0.1, 0.8),
				observation("B", 0.1, 0.7),
			},
			wantText:  "B",
			wantFound: true,
		},
		{
			name:   "letter with period and option text",
			letter: "C",
			observations: []ocr.TextObservation{
				observation("A. Huế", 0.1, 0.8),
				observation("  c. Đà Nẵng ", 0.1, 0.6),
			},
			wantText:  "  c. Đà Nẵng ",
			wantFound: true,
		},
		{
			name:   "exact prefix beats an earlier keyword match",
			letter: "D",
			observations: []ocr.TextObservation{
				observation("Hãy chọn D nếu đúng", 0.1, 0.9),
				observation("D) 42", 0.1, 0.3),
			},
			wantText:  "D) 42",
			wantFound: true,
		},
		{
			name:   "keyword phrase",
			letter: "A",
			observations: []ocr.TextObservation{
				observation("Question 1", 0.1, 0.9),
				observation("Đáp án A", 0.1, 0.5),
			},
			wantText:  "Đáp án A",
			wantFound: true,
		},
		{
			name:   "bracket delimiter",
			letter: "B",
			observations: []ocr.TextObservation{
				observation("[A] first", 0.1, 0.9),
				observation("B] second", 0.1, 0.5),
			},
			wantText:  "B] second",
			wantFound: true,
		},
		{
			name:   "radio glyph",
			letter: "C",
			observations: []ocr.TextObservation{
				observation("○ A Paris", 0.1, 0.9),
				observation("◯ C Rome", 0.1, 0.5),
			},
			wantText:  "◯ C Rome",
			wantFound: true,
		},
		{
			name:   "filled glyph without space",
			letter: "A",
			observations: []ocr.TextObservation{
				observation("xx ●A", 0.1, 0.9),
			},
			wantText:  "xx ●A",
			wantFound: true,
		},
		{
			name:   "lowercase target letter",
			letter: "b",
			observations: []ocr.TextObservation{
				observation("B.", 0.1, 0.5),
			},
			wantText:  "B.",
			wantFound: true,
		},
		{
			name:   "letter inside a word does not match",
			letter: "B",
			observations: []ocr.TextObservation{
				observation("About", 0.1, 0.5),
				observation("CAB", 0.1, 0.4),
			},
			wantFound: false,
		},
		{
			name:         "empty observation list",
			letter:       "A",
			observations: nil,
			wantFound:    false,
		},
		{
			name:   "invalid letter",
			letter: "AB",
			observations: []ocr.TextObservation{
				observation("AB", 0.1, 0.5),
			},
			wantFound: false,
		},
	}

	r := NewResolver(Tables{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := r.Find(tt.letter, tt.observations)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantText, got.Text)
			}
		})
	}
}

func TestFindAnswerCoordinate(t *testing.T) {
	observations := []ocr.TextObservation{
		observation("Câu 1: Thủ đô của Việt Nam?", 0.1, 0.8),
		{Text: "B. Hà Nội", BoundingBox: geometry.Rect{X: 0.4, Y: 0.5, Width: 0.1, Height: 0.05}},
	}
	imageSize := geometry.Size{Width: 1000, Height: 800}
	captureRect := geometry.Rect{X: 100, Y: 50, Width: 1000, Height: 800}

	got, found := FindAnswerCoordinate("B", observations, imageSize, captureRect)
	require.True(t, found)
	assert.InDelta(t, 550, got.X, 1e-9)
	assert.InDelta(t, 430, got.Y, 1e-9)

	again, foundAgain := FindAnswerCoordinate("B", observations, imageSize, captureRect)
	assert.True(t, foundAgain)
	assert.Equal(t, got, again)
}

func TestFindAnswerCoordinate_NotFound(t *testing.T) {
	observations := []ocr.TextObservation{
		observation("A. Huế", 0.1, 0.8),
		observation("B. Hà Nội", 0.1, 0.7),
	}

	got, found := FindAnswerCoordinate("D", observations, geometry.Size{Width: 1000, Height: 800}, geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 800})
	assert.False(t, found)
	assert.Equal(t, geometry.Point{}, got)
}

func TestNewResolver_CustomTables(t *testing.T) {
	r := NewResolver(Tables{
		Glyphs:         []string{"▶"},
		KeywordPhrases: []string{"antwort"},
	})

	_, found := r.Find("C", []ocr.TextObservation{observation("Die Antwort C", 0.1, 0.5)})
	assert.True(t, found)

	_, found = r.Find("C", []ocr.TextObservation{observation("▶ C", 0.1, 0.5)})
	assert.True(t, found)

	_, found = r.Find("C", []ocr.TextObservation{observation("○ C", 0.1, 0.5)})
	assert.False(t, found)
}

func TestToScreenPoint(t *testing.T) {
	tests := []struct {
		name        string
		box         geometry.Rect
		imageSize   geometry.Size
		captureRect geometry.Rect
		want        geometry.Point
	}{
		{
			name:        "top-left corner token",
			box:         geometry.Rect{X: 0, Y: 0.9, Width: 0.2, Height: 0.1},
			imageSize:   geometry.Size{Width: 500, Height: 400},
			captureRect: geometry.Rect{X: 10, Y: 20, Width: 500, Height: 400},
			want:        geometry.Point{X: 60, Y: 40},
		},
		{
			name:        "degenerate box maps to its origin",
			box:         geometry.Rect{X: 0.5, Y: 0.5},
			imageSize:   geometry.Size{Width: 200, Height: 100},
			captureRect: geometry.Rect{},
			want:        geometry.Point{X: 100, Y: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToScreenPoint(tt.box, tt.imageSize, tt.captureRect)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}
