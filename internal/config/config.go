package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/xuanhai0913/Vision-Key/internal/answer"
	"github.com/xuanhai0913/Vision-Key/internal/locate"
)

type Config struct {
	Provider          string          `mapstructure:"provider" validate:"oneof=openai gemini"`
	FallbackProviders []string        `mapstructure:"fallback_providers" validate:"dive,oneof=openai gemini"`
	OpenAI            OpenAIConfig    `mapstructure:"openai"`
	Gemini            GeminiConfig    `mapstructure:"gemini"`
	OCR               OCRConfig       `mapstructure:"ocr"`
	Capture           CaptureConfig   `mapstructure:"capture"`
	Parser            ParserConfig    `mapstructure:"parser"`
	Locator           LocatorConfig   `mapstructure:"locator"`
	Assistant         AssistantConfig `mapstructure:"assistant"`
	History           HistoryConfig   `mapstructure:"history"`
	Database          DatabaseConfig  `mapstructure:"database"`
}

type OpenAIConfig struct {
	APIKey           string `mapstructure:"api_key"`
	Model            string `mapstructure:"model" validate:"required"`
	BaseURL          string `mapstructure:"base_url" validate:"omitempty,url"`
	MaxRetryAttempts uint   `mapstructure:"max_retry_attempts" validate:"max=10"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model" validate:"required"`
}

type OCRConfig struct {
	Languages      []string `mapstructure:"languages" validate:"min=1,dive,required"`
	TessdataPrefix string   `mapstructure:"tessdata_prefix" validate:"omitempty,dir"`
	PageSegMode    int      `mapstructure:"page_seg_mode" validate:"min=0,max=13"`
	Level          string   `mapstructure:"level" validate:"oneof=line word"`
}

type CaptureConfig struct {
	Display int `mapstructure:"display" validate:"min=0"`
}

type ParserConfig struct {
	FinalAnswerMarker      string   `mapstructure:"final_answer_marker"`
	KeywordPatterns        []string `mapstructure:"keyword_patterns" validate:"dive,regexp"`
	QuestionHeadingPattern string   `mapstructure:"question_heading_pattern" validate:"omitempty,regexp"`
	TrailingLines          int      `mapstructure:"trailing_lines" validate:"min=0"`
}

// Phrasebook compiles the parser tables, falling back to the built-in ones for empty values.
func (c ParserConfig) Phrasebook() (answer.Phrasebook, error) {
	return answer.NewPhrasebook(c.FinalAnswerMarker, c.QuestionHeadingPattern, c.KeywordPatterns, c.TrailingLines)
}

type LocatorConfig struct {
	Glyphs         []string `mapstructure:"glyphs" validate:"dive,required"`
	KeywordPhrases []string `mapstructure:"keyword_phrases" validate:"dive,required"`
}

func (c LocatorConfig) Tables() locate.Tables {
	return locate.Tables{
		Glyphs:         c.Glyphs,
		KeywordPhrases: c.KeywordPhrases,
	}
}

type AssistantConfig struct {
	OCRForAI   bool `mapstructure:"ocr_for_ai"`
	SendImage  bool `mapstructure:"send_image"`
	AutoClick  bool `mapstructure:"auto_click"`
	CopyAnswer bool `mapstructure:"copy_answer"`
	CacheSize  int  `mapstructure:"cache_size" validate:"min=0"`
	// CacheDirectory persists responses across runs when set.
	CacheDirectory   string `mapstructure:"cache_directory"`
	ClickDelayMillis int    `mapstructure:"click_delay_millis" validate:"min=0"`
	// ClickIntervalMillis separates the clicks of a multi-answer run.
	ClickIntervalMillis int    `mapstructure:"click_interval_millis" validate:"min=0"`
	InstructionFile     string `mapstructure:"instruction_file" validate:"omitempty,file"`
}

// Instruction returns the custom user instruction, or "" when none is configured.
func (c AssistantConfig) Instruction() (string, error) {
	if c.InstructionFile == "" {
		return "", nil
	}
	content, err := os.ReadFile(c.InstructionFile)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", c.InstructionFile, err)
	}
	return strings.TrimSpace(string(content)), nil
}

const (
	HistoryBackendYAML  = "yaml"
	HistoryBackendMySQL = "mysql"
	HistoryBackendNone  = "none"
)

type HistoryConfig struct {
	Backend   string `mapstructure:"backend" validate:"oneof=yaml mysql none"`
	Directory string `mapstructure:"directory" validate:"required_if=Backend yaml"`
	// ExportTemplate replaces the built-in Markdown export template.
	ExportTemplate string `mapstructure:"export_template" validate:"omitempty,file"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/visionkey")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("provider", "openai")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.max_retry_attempts", 3)
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("ocr.languages", []string{"vie", "eng"})
	v.SetDefault("ocr.level", "line")
	v.SetDefault("capture.display", 0)
	v.SetDefault("parser.trailing_lines", answer.DefaultTrailingLines)
	v.SetDefault("assistant.send_image", true)
	v.SetDefault("assistant.cache_size", 32)
	v.SetDefault("assistant.click_delay_millis", 50)
	v.SetDefault("assistant.click_interval_millis", 200)
	v.SetDefault("history.backend", HistoryBackendYAML)
	v.SetDefault("history.directory", filepath.Join("history"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "visionkey")
	v.SetDefault("database.username", "user")

	// Secrets are bound to environment variables only
	for key, env := range map[string]string{
		"openai.api_key":    "OPENAI_API_KEY",
		"openai.model":      "OPENAI_MODEL",
		"gemini.api_key":    "GEMINI_API_KEY",
		"database.password": "DB_PASSWORD",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validator.Struct() > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// APIKey returns the credential for provider, or "" when it is not set.
func (c *Config) APIKey(provider string) string {
	switch provider {
	case "openai":
		return c.OpenAI.APIKey
	case "gemini":
		return c.Gemini.APIKey
	}
	return ""
}

// ProviderChain returns the primary provider followed by the fallbacks, without duplicates.
func (c *Config) ProviderChain() []string {
	seen := map[string]bool{}
	var chain []string
	for _, p := range append([]string{c.Provider}, c.FallbackProviders...) {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		chain = append(chain, p)
	}
	return chain
}
