package locate

import (
	"log/slog"
	"strings"

	"github.com/xuanhai0913/Vision-Key/internal/geometry"
	"github.com/xuanhai0913/Vision-Key/internal/ocr"
)

// Resolver finds the observation that represents an answer letter.
// Each tier scans the full observation list before the next tier is tried.
// A Resolver is immutable and safe for concurrent use.
type Resolver struct {
	matchers []Matcher
}

// NewResolver builds the standard three-tier resolver. Empty tables fall back to the defaults.
func NewResolver(tables Tables) *Resolver {
	t := tables.withDefaults()
	return NewResolverWithMatchers(
		PrefixMatcher{},
		NewKeywordMatcher(t.KeywordPhrases),
		NewGlyphMatcher(t.Glyphs),
	)
}

func NewResolverWithMatchers(matchers ...Matcher) *Resolver {
	return &Resolver{matchers: append([]Matcher(nil), matchers...)}
}

// Find returns the first observation matching letter under the highest tier that matches any.
func (r *Resolver) Find(letter string, observations []ocr.TextObservation) (ocr.TextObservation, bool) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'G' {
		return ocr.TextObservation{}, false
	}

	texts := make([]string, len(observations))
	for i, o := range observations {
		texts[i] = strings.ToUpper(strings.TrimSpace(o.Text))
	}

	for _, m := range r.matchers {
		for i, text := range texts {
			if text == "" || !m.Match(text, letter) {
				continue
			}
			slog.Default().Debug("answer located", "letter", letter, "tier", m.Name(), "text", observations[i].Text)
			return observations[i], true
		}
	}
	return ocr.TextObservation{}, false
}

// FindAnswerCoordinate resolves letter to an absolute screen point. imageSize is the
// captured image's pixel size and captureRect the screen rectangle it was taken from;
// both must already be in the same scale (see capture.Geometry.Normalized).
func (r *Resolver) FindAnswerCoordinate(letter string, observations []ocr.TextObservation, imageSize geometry.Size, captureRect geometry.Rect) (geometry.Point, bool) {
	o, ok := r.Find(letter, observations)
	if !ok {
		return geometry.Point{}, false
	}
	return ToScreenPoint(o.BoundingBox, imageSize, captureRect), true
}

// ToScreenPoint converts the centre of a normalized, bottom-left origin box into
// an absolute, top-left origin screen point.
func ToScreenPoint(box geometry.Rect, imageSize geometry.Size, captureRect geometry.Rect) geometry.Point {
	normalizedX := box.MidX()
	normalizedY := 1 - box.MidY()
	return geometry.Point{
		X: captureRect.X + normalizedX*imageSize.Width,
		Y: captureRect.Y + normalizedY*imageSize.Height,
	}
}

var defaultResolver = NewResolver(Tables{})

// FindAnswerCoordinate runs the default resolver.
func FindAnswerCoordinate(letter string, observations []ocr.TextObservation, imageSize geometry.Size, captureRect geometry.Rect) (geometry.Point, bool) {
	return defaultResolver.FindAnswerCoordinate(letter, observations, imageSize, captureRect)
}
