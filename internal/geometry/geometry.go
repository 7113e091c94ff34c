// Package geometry holds the small value types shared by capture, OCR and the coordinate resolver.
package geometry

import (
	"fmt"
	"math"
)

// Size is a width/height pair, in pixels or points depending on the owner.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Rect is an axis-aligned rectangle given by its origin and size.
// The meaning of the origin (top-left or bottom-left) is defined by whoever produces the value.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func (r Rect) MidX() float64 {
	return r.X + r.Width/2
}

func (r Rect) MidY() float64 {
	return r.Y + r.Height/2
}

func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", r.X, r.Y, r.Width, r.Height)
}

// Point is an absolute position with a top-left origin.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Rounded returns the point snapped to the nearest integer pixel, as input simulation expects.
func (p Point) Rounded() (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}
