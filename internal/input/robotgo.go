package input

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/xuanhai0913/Vision-Key/internal/geometry"
)

// DefaultSettleDelay lets the pointer arrive before the button goes down.
const DefaultSettleDelay = 50 * time.Millisecond

// RobotClicker drives the real mouse and clipboard.
type RobotClicker struct {
	settleDelay time.Duration
}

func NewRobotClicker(settleDelay time.Duration) *RobotClicker {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &RobotClicker{settleDelay: settleDelay}
}

func (c *RobotClicker) Click(ctx context.Context, point geometry.Point) error {
	x, y := point.Rounded()
	robotgo.Move(x, y)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.settleDelay):
	}

	if err := robotgo.Toggle("left"); err != nil {
		return fmt.Errorf("robotgo.Toggle(left, down) > %w", err)
	}
	if err := robotgo.Toggle("left", "up"); err != nil {
		return fmt.Errorf("robotgo.Toggle(left, up) > %w", err)
	}
	slog.Default().Debug("clicked", "x", x, "y", y)
	return nil
}

func (c *RobotClicker) Copy(text string) error {
	if err := robotgo.WriteAll(text); err != nil {
		return fmt.Errorf("robotgo.WriteAll() > %w", err)
	}
	return nil
}
