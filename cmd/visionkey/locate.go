package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xuanhai0913/Vision-Key/internal/capture"
	"github.com/xuanhai0913/Vision-Key/internal/geometry"
	"github.com/xuanhai0913/Vision-Key/internal/locate"
)

func newLocateCommand() *cobra.Command {
	var (
		observationsFile string
		imageSize        string
		rect             capture.Region
	)

	command := &cobra.Command{
		Use:   "locate <letter>",
		Short: "Find the screen point of an answer letter in saved OCR observations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			observations, err := readObservations(observationsFile)
			if err != nil {
				return err
			}

			size, err := parseSize(imageSize)
			if err != nil {
				return err
			}
			captureRect := geometry.Rect{
				X:      float64(rect.X),
				Y:      float64(rect.Y),
				Width:  float64(rect.Width),
				Height: float64(rect.Height),
			}
			if rect.IsZero() {
				captureRect = geometry.Rect{Width: size.Width, Height: size.Height}
			}
			// The same normalization the live pipeline applies to Retina captures.
			geom := capture.Geometry{ImageSize: size, ScreenRect: captureRect}.Normalized()

			out := cmd.OutOrStdout()
			point, ok := locate.NewResolver(cfg.Locator.Tables()).FindAnswerCoordinate(args[0], observations, geom.ImageSize, geom.ScreenRect)
			if !ok {
				warningColor.Fprintf(out, "answer %s not found in %d observations\n", strings.ToUpper(args[0]), len(observations))
				return nil
			}
			x, y := point.Rounded()
			letterColor.Fprintf(out, "%d,%d\n", x, y)
			return nil
		},
	}

	command.Flags().StringVar(&observationsFile, "observations", "", "YAML file with OCR observations")
	command.Flags().StringVar(&imageSize, "image", "", "captured image size as WIDTHxHEIGHT")
	command.Flags().Var(&rect, "rect", "screen rectangle the image was captured from as x,y,width,height (default: origin, image size)")
	_ = command.MarkFlagRequired("observations")
	_ = command.MarkFlagRequired("image")

	return command
}

func parseSize(value string) (geometry.Size, error) {
	width, height, ok := strings.Cut(strings.ToLower(value), "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("size %q must be WIDTHxHEIGHT", value)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(width), 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("strconv.ParseFloat(%s) > %w", width, err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(height), 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("strconv.ParseFloat(%s) > %w", height, err)
	}
	size := geometry.Size{Width: w, Height: h}
	if size.Empty() {
		return geometry.Size{}, fmt.Errorf("size %q must be positive", value)
	}
	return size, nil
}
