package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"time"

	"github.com/kbinani/screenshot"

	"github.com/xuanhai0913/Vision-Key/internal/geometry"
)

type display interface {
	NumActiveDisplays() int
	GetDisplayBounds(index int) image.Rectangle
	CaptureRect(rect image.Rectangle) (*image.RGBA, error)
}

type systemDisplay struct{}

func (systemDisplay) NumActiveDisplays() int {
	return screenshot.NumActiveDisplays()
}

func (systemDisplay) GetDisplayBounds(index int) image.Rectangle {
	return screenshot.GetDisplayBounds(index)
}

func (systemDisplay) CaptureRect(rect image.Rectangle) (*image.RGBA, error) {
	return screenshot.CaptureRect(rect)
}

// ScreenCapturer captures one display of the local machine.
type ScreenCapturer struct {
	display      display
	displayIndex int
	now          func() time.Time
}

func NewScreenCapturer(displayIndex int) *ScreenCapturer {
	return &ScreenCapturer{
		display:      systemDisplay{},
		displayIndex: displayIndex,
		now:          time.Now,
	}
}

// Capture grabs region, clamped to the display bounds. Region coordinates are
// absolute screen coordinates.
func (c *ScreenCapturer) Capture(ctx context.Context, region Region) (Shot, error) {
	if err := ctx.Err(); err != nil {
		return Shot{}, err
	}

	n := c.display.NumActiveDisplays()
	if n == 0 {
		return Shot{}, ErrNoDisplay
	}
	if c.displayIndex < 0 || c.displayIndex >= n {
		return Shot{}, fmt.Errorf("display %d is out of range, %d active: %w", c.displayIndex, n, ErrNoDisplay)
	}

	bounds := c.display.GetDisplayBounds(c.displayIndex)
	rect := bounds
	if !region.IsZero() {
		rect = image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height).Intersect(bounds)
		if rect.Empty() {
			return Shot{}, fmt.Errorf("region %s, display %v: %w", region.String(), bounds, ErrEmptyRegion)
		}
	}

	img, err := c.display.CaptureRect(rect)
	if err != nil {
		return Shot{}, fmt.Errorf("screenshot.CaptureRect(%v) > %w", rect, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Shot{}, fmt.Errorf("png.Encode() > %w", err)
	}

	imgBounds := img.Bounds()
	shot := Shot{
		Image: buf.Bytes(),
		Geometry: Geometry{
			ImageSize: geometry.Size{Width: float64(imgBounds.Dx()), Height: float64(imgBounds.Dy())},
			ScreenRect: geometry.Rect{
				X:      float64(rect.Min.X),
				Y:      float64(rect.Min.Y),
				Width:  float64(rect.Dx()),
				Height: float64(rect.Dy()),
			},
		},
		TakenAt: c.now(),
	}
	slog.Default().Debug("screen captured", "display", c.displayIndex, "rect", shot.Geometry.ScreenRect, "image", shot.Geometry.ImageSize)
	return shot, nil
}
