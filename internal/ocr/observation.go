// Package ocr recognizes text tokens and their positions in a captured image.
package ocr

import (
	"context"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/xuanhai0913/Vision-Key/internal/geometry"
)

//go:generate mockgen -source=observation.go -destination=../mocks/ocr/mock_recognizer.go -package=mock_ocr

// Recognizer runs text recognition over an encoded PNG or JPEG image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, languages []string) ([]TextObservation, error)
}

// TextObservation is one recognized token. BoundingBox is normalized to [0,1]
// with a bottom-left origin, independent of the image resolution.
type TextObservation struct {
	Text        string        `json:"text" yaml:"text"`
	BoundingBox geometry.Rect `json:"bounding_box" yaml:"bounding_box"`
}

// FromPixelBox converts a top-left origin pixel rectangle into a normalized,
// bottom-left origin bounding box. A degenerate image size yields an empty rect.
func FromPixelBox(box image.Rectangle, imageSize geometry.Size) geometry.Rect {
	if imageSize.Empty() {
		return geometry.Rect{}
	}
	box = box.Canon()
	return geometry.Rect{
		X:      float64(box.Min.X) / imageSize.Width,
		Y:      1 - float64(box.Max.Y)/imageSize.Height,
		Width:  float64(box.Dx()) / imageSize.Width,
		Height: float64(box.Dy()) / imageSize.Height,
	}
}

// JoinText rebuilds reading-order text from observations: lines top to bottom,
// tokens left to right. Tokens whose vertical centres are within half a token
// height of the line's first token share that line.
func JoinText(observations []TextObservation) string {
	if len(observations) == 0 {
		return ""
	}

	sorted := make([]TextObservation, len(observations))
	copy(sorted, observations)
	// Higher MidY is closer to the top in a bottom-left origin.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BoundingBox.MidY() > sorted[j].BoundingBox.MidY()
	})

	var lines [][]TextObservation
	for _, o := range sorted {
		if n := len(lines); n > 0 && sameLine(lines[n-1][0], o) {
			lines[n-1] = append(lines[n-1], o)
			continue
		}
		lines = append(lines, []TextObservation{o})
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].BoundingBox.X < line[j].BoundingBox.X
		})
		words := make([]string, 0, len(line))
		for _, o := range line {
			if t := strings.TrimSpace(o.Text); t != "" {
				words = append(words, t)
			}
		}
		if len(words) > 0 {
			out = append(out, strings.Join(words, " "))
		}
	}
	return strings.Join(out, "\n")
}

func sameLine(anchor, o TextObservation) bool {
	tolerance := math.Max(anchor.BoundingBox.Height, o.BoundingBox.Height) / 2
	return math.Abs(anchor.BoundingBox.MidY()-o.BoundingBox.MidY()) <= tolerance
}
