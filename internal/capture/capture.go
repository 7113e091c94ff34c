// Package capture takes screenshots together with the geometry needed to map
// image pixels back to absolute screen coordinates.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuanhai0913/Vision-Key/internal/geometry"
)

//go:generate mockgen -source=capture.go -destination=../mocks/capture/mock_capturer.go -package=mock_capture

var (
	ErrNoDisplay   = errors.New("no active display")
	ErrEmptyRegion = errors.New("capture region does not intersect the display")
)

// Capturer takes one screenshot of region. The zero Region captures the whole display.
type Capturer interface {
	Capture(ctx context.Context, region Region) (Shot, error)
}

// Geometry records how one captured image maps onto the screen. It is only
// valid for the shot it was recorded with.
type Geometry struct {
	ImageSize  geometry.Size `json:"image_size" yaml:"image_size"`
	ScreenRect geometry.Rect `json:"screen_rect" yaml:"screen_rect"`
}

// Scale returns image pixels per screen unit on each axis; 2 on a typical Retina display.
func (g Geometry) Scale() (float64, float64) {
	if g.ScreenRect.Empty() {
		return 1, 1
	}
	return g.ImageSize.Width / g.ScreenRect.Width, g.ImageSize.Height / g.ScreenRect.Height
}

// Normalized returns the geometry with the image expressed in screen units, so that
// normalized OCR positions scale straight into the screen rectangle.
func (g Geometry) Normalized() Geometry {
	if g.ScreenRect.Empty() {
		return g
	}
	return Geometry{
		ImageSize:  g.ScreenRect.Size(),
		ScreenRect: g.ScreenRect,
	}
}

// Shot is one captured, PNG-encoded image.
type Shot struct {
	Image    []byte
	Geometry Geometry
	TakenAt  time.Time
}

// Region is a screen rectangle in integer screen units. It implements pflag.Value
// and parses "x,y,width,height".
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Region) IsZero() bool {
	return r == Region{}
}

func (r *Region) String() string {
	if r == nil || r.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

func (r *Region) Set(value string) error {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return fmt.Errorf("region %q must be x,y,width,height", value)
	}
	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("strconv.Atoi(%s) > %w", p, err)
		}
		values[i] = v
	}
	if values[2] <= 0 || values[3] <= 0 {
		return fmt.Errorf("region %q must have a positive width and height", value)
	}
	*r = Region{X: values[0], Y: values[1], Width: values[2], Height: values[3]}
	return nil
}

func (r *Region) Type() string {
	return "region"
}
