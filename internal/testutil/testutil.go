// Package testutil provides shared test helpers for config files, captured images and OCR fixtures.
package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xuanhai0913/Vision-Key/internal/geometry"
	"github.com/xuanhai0913/Vision-Key/internal/ocr"
)

// SetupTestConfig creates a minimal config file using the YAML history backend under tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	historyDir := filepath.Join(tmpDir, "history")
	require.NoError(t, os.MkdirAll(historyDir, 0755))

	configContent := fmt.Sprintf(`provider: openai
ocr:
  languages:
    - eng
history:
  backend: yaml
  directory: %s
`, historyDir)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey creates a config file with fake provider API keys for tests
// that build inference clients.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte("openai:\n  api_key: fake-key-for-testing\n  model: gpt-4o-mini\ngemini:\n  api_key: fake-gemini-key\n")...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// PNG returns an encoded width x height image filled with a light gray.
func PNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.Gray{Y: 0xee})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// WritePNG writes PNG(width, height) to path and returns path.
func WritePNG(t *testing.T, path string, width, height int) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, PNG(t, width, height), 0644))
	return path
}

// Observation builds a normalized observation from a top-left origin box, which is
// how fixtures are easiest to read.
func Observation(text string, x, top, width, height float64) ocr.TextObservation {
	return ocr.TextObservation{
		Text: text,
		BoundingBox: geometry.Rect{
			X:      x,
			Y:      1 - top - height,
			Width:  width,
			Height: height,
		},
	}
}

// QuizObservations is a four-option question laid out one option per line.
func QuizObservations() []ocr.TextObservation {
	return []ocr.TextObservation{
		Observation("Câu 1: Thủ đô của Việt Nam là gì?", 0.05, 0.05, 0.8, 0.08),
		Observation("A. Huế", 0.1, 0.25, 0.3, 0.1),
		Observation("B. Hà Nội", 0.1, 0.4, 0.3, 0.1),
		Observation("C. Đà Nẵng", 0.1, 0.55, 0.3, 0.1),
		Observation("D. Cần Thơ", 0.1, 0.7, 0.3, 0.1),
	}
}

// WriteObservations stores observations as YAML, the format the locate command reads.
func WriteObservations(t *testing.T, path string, observations []ocr.TextObservation) string {
	t.Helper()
	content, err := yaml.Marshal(observations)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}
