// Package input simulates mouse clicks and clipboard writes.
package input

import (
	"context"

	"github.com/xuanhai0913/Vision-Key/internal/geometry"
)

//go:generate mockgen -source=input.go -destination=../mocks/input/mock_clicker.go -package=mock_input

type Clicker interface {
	// Click presses and releases the left mouse button at an absolute screen point.
	Click(ctx context.Context, point geometry.Point) error
	Copy(text string) error
}
