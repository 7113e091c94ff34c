package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"time"

	"github.com/xuanhai0913/Vision-Key/internal/geometry"
)

// FileCapturer replays a saved screenshot as if it had been captured at the
// screen origin. It is used for offline runs and tests.
type FileCapturer struct {
	path string
}

func NewFileCapturer(path string) *FileCapturer {
	return &FileCapturer{path: path}
}

// Capture decodes the file and crops it to region when one is given.
func (c *FileCapturer) Capture(ctx context.Context, region Region) (Shot, error) {
	if err := ctx.Err(); err != nil {
		return Shot{}, err
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return Shot{}, fmt.Errorf("os.ReadFile(%s) > %w", c.path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Shot{}, fmt.Errorf("image.Decode(%s) > %w", c.path, err)
	}

	bounds := img.Bounds()
	rect := bounds
	if !region.IsZero() {
		rect = image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height).Intersect(bounds)
		if rect.Empty() {
			return Shot{}, fmt.Errorf("region %s, image %v: %w", region.String(), bounds, ErrEmptyRegion)
		}
	}

	var cropped image.Image = img
	if rect != bounds {
		sub, ok := img.(interface {
			SubImage(r image.Rectangle) image.Image
		})
		if !ok {
			return Shot{}, fmt.Errorf("image %s cannot be cropped", c.path)
		}
		cropped = sub.SubImage(rect)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return Shot{}, fmt.Errorf("png.Encode() > %w", err)
	}

	return Shot{
		Image: buf.Bytes(),
		Geometry: Geometry{
			ImageSize: geometry.Size{Width: float64(rect.Dx()), Height: float64(rect.Dy())},
			ScreenRect: geometry.Rect{
				X:      float64(rect.Min.X),
				Y:      float64(rect.Min.Y),
				Width:  float64(rect.Dx()),
				Height: float64(rect.Dy()),
			},
		},
		TakenAt: time.Now(),
	}, nil
}
