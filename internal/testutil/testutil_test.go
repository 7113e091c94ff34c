package testutil

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xuanhai0913/Vision-Key/internal/config"
	"github.com/xuanhai0913/Vision-Key/internal/ocr"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)
	assert.Equal(t, filepath.Join(tmpDir, "config.yml"), got)

	info, err := os.Stat(filepath.Join(tmpDir, "history"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
	assert.Equal(t, config.HistoryBackendYAML, cfg.History.Backend)
	assert.Equal(t, filepath.Join(tmpDir, "history"), cfg.History.Directory)
}

func TestSetupTestConfigWithAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	got := SetupTestConfigWithAPIKey(t, t.TempDir())

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "fake-key-for-testing", cfg.OpenAI.APIKey)
	assert.Equal(t, "fake-gemini-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestPNG(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(PNG(t, 12, 7)))
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 7, img.Bounds().Dy())
}

func TestObservation(t *testing.T) {
	got := Observation("B. 4", 0.1, 0.4, 0.3, 0.1)
	assert.InDelta(t, 0.25, got.BoundingBox.MidX(), 1e-9)
	// The box centre is 0.45 from the top, so 0.55 from the bottom.
	assert.InDelta(t, 0.55, got.BoundingBox.MidY(), 1e-9)
}

func TestWriteObservations(t *testing.T) {
	path := WriteObservations(t, filepath.Join(t.TempDir(), "obs.yml"), QuizObservations())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []ocr.TextObservation
	require.NoError(t, yaml.Unmarshal(content, &got))
	assert.Equal(t, QuizObservations(), got)
}
