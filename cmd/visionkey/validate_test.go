package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuanhai0913/Vision-Key/internal/config"
	"github.com/xuanhai0913/Vision-Key/internal/testutil"
)

func TestValidateCommand(t *testing.T) {
	t.Run("with API keys", func(t *testing.T) {
		tmpDir := t.TempDir()
		setConfigFile(t, testutil.SetupTestConfigWithAPIKey(t, tmpDir))

		got, err := runCommand(t, "validate")
		require.NoError(t, err)
		assert.Contains(t, got, "=== Configuration ===")
		assert.Contains(t, got, "primary  openai   ✓ API key set")
		assert.Contains(t, got, "OCR languages: eng (line level)")
		assert.Contains(t, got, "history: yaml in "+filepath.Join(tmpDir, "history"))
	})

	t.Run("without API keys", func(t *testing.T) {
		setConfigFile(t, testutil.SetupTestConfig(t, t.TempDir()))

		got, err := runCommand(t, "validate")
		assert.ErrorContains(t, err, "no API key for any of openai")
		assert.Contains(t, got, "primary  openai   ✗ no API key")
	})

	t.Run("API key from the environment", func(t *testing.T) {
		setConfigFile(t, testutil.SetupTestConfig(t, t.TempDir()))
		disableColor(t)
		t.Setenv("OPENAI_API_KEY", "sk-from-env")

		var out bytes.Buffer
		root := newRootCommand()
		root.SetOut(&out)
		root.SetArgs([]string{"validate"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "✓ API key set")
	})

	t.Run("broken config", func(t *testing.T) {
		setConfigFile(t, setupBrokenConfigFile(t))

		_, err := runCommand(t, "validate")
		assert.Error(t, err)
	})

	t.Run("invalid keyword pattern", func(t *testing.T) {
		cfgPath := testutil.SetupTestConfigWithAPIKey(t, t.TempDir())
		appendConfig(t, cfgPath, "parser:\n  keyword_patterns:\n    - \"(unclosed\"\n")
		setConfigFile(t, cfgPath)

		_, err := runCommand(t, "validate")
		assert.Error(t, err)
	})
}

func TestDisplayConfigSummary(t *testing.T) {
	cfg := &config.Config{
		Provider:          "gemini",
		FallbackProviders: []string{"openai", "gemini"},
		Gemini:            config.GeminiConfig{APIKey: "key"},
		OCR:               config.OCRConfig{Languages: []string{"vie", "eng"}, Level: "word"},
		History:           config.HistoryConfig{Backend: config.HistoryBackendNone},
	}

	var out bytes.Buffer
	displayConfigSummary(&out, cfg)

	assert.Equal(t, "=== Configuration ===\n"+
		"  primary  gemini   ✓ API key set\n"+
		"  fallback openai   ✗ no API key\n"+
		"  OCR languages: vie+eng (word level)\n"+
		"  history: disabled\n", out.String())
	assert.True(t, hasAnyAPIKey(cfg))
}

func TestHistoryDescription(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.HistoryConfig
		want string
	}{
		{name: "yaml", cfg: config.HistoryConfig{Backend: config.HistoryBackendYAML, Directory: "history"}, want: "yaml in history"},
		{name: "mysql", cfg: config.HistoryConfig{Backend: config.HistoryBackendMySQL}, want: "mysql"},
		{name: "none", cfg: config.HistoryConfig{Backend: config.HistoryBackendNone}, want: "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, historyDescription(tt.cfg))
		})
	}
}

func appendConfig(t *testing.T, cfgPath, content string) {
	t.Helper()
	f, err := os.OpenFile(cfgPath, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(content)
	require.NoError(t, err)
}
