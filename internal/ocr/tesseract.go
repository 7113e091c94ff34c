package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/xuanhai0913/Vision-Key/internal/geometry"
)

// DefaultLanguages are the Tesseract language packs used when none are configured.
var DefaultLanguages = []string{"vie", "eng"}

const (
	LevelLine = "line"
	LevelWord = "word"
)

// TesseractRecognizer recognizes tokens with the local Tesseract engine.
// Line-level tokens keep option labels together with their text ("B. Hà Nội").
type TesseractRecognizer struct {
	tessdataPrefix string
	pageSegMode    gosseract.PageSegMode
	level          gosseract.PageIteratorLevel
}

// NewTesseractRecognizer creates a recognizer. An empty tessdataPrefix keeps the
// engine's default lookup, pageSegMode 0 keeps PSM_AUTO and an empty level means LevelLine.
func NewTesseractRecognizer(tessdataPrefix string, pageSegMode int, level string) *TesseractRecognizer {
	mode := gosseract.PSM_AUTO
	if pageSegMode > 0 {
		mode = gosseract.PageSegMode(pageSegMode)
	}
	iteratorLevel := gosseract.RIL_TEXTLINE
	if level == LevelWord {
		iteratorLevel = gosseract.RIL_WORD
	}
	return &TesseractRecognizer{
		tessdataPrefix: tessdataPrefix,
		pageSegMode:    mode,
		level:          iteratorLevel,
	}
}

func (r *TesseractRecognizer) Recognize(ctx context.Context, img []byte, languages []string) ([]TextObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("image.DecodeConfig() > %w", err)
	}
	size := geometry.Size{Width: float64(cfg.Width), Height: float64(cfg.Height)}

	client := gosseract.NewClient()
	defer client.Close()

	if r.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(r.tessdataPrefix); err != nil {
			return nil, fmt.Errorf("client.SetTessdataPrefix(%s) > %w", r.tessdataPrefix, err)
		}
	}
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	if err := client.SetLanguage(languages...); err != nil {
		return nil, fmt.Errorf("client.SetLanguage(%v) > %w", languages, err)
	}
	if err := client.SetPageSegMode(r.pageSegMode); err != nil {
		return nil, fmt.Errorf("client.SetPageSegMode(%d) > %w", r.pageSegMode, err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return nil, fmt.Errorf("client.SetImageFromBytes() > %w", err)
	}

	boxes, err := client.GetBoundingBoxes(r.level)
	if err != nil {
		return nil, fmt.Errorf("client.GetBoundingBoxes() > %w", err)
	}

	observations := make([]TextObservation, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		observations = append(observations, TextObservation{
			Text:        text,
			BoundingBox: FromPixelBox(b.Box, size),
		})
	}
	slog.Default().Debug("ocr finished", "languages", languages, "observations", len(observations), "image", size)
	return observations, nil
}
