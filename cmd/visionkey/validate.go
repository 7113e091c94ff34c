package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xuanhai0913/Vision-Key/internal/config"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if _, err := cfg.Parser.Phrasebook(); err != nil {
				return fmt.Errorf("invalid parser configuration: %w", err)
			}
			if _, err := cfg.Assistant.Instruction(); err != nil {
				return err
			}

			displayConfigSummary(cmd.OutOrStdout(), cfg)
			if !hasAnyAPIKey(cfg) {
				return fmt.Errorf("no API key for any of %s", strings.Join(cfg.ProviderChain(), ", "))
			}
			return nil
		},
	}
}

func hasAnyAPIKey(cfg *config.Config) bool {
	for _, provider := range cfg.ProviderChain() {
		if cfg.APIKey(provider) != "" {
			return true
		}
	}
	return false
}

func displayConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "=== Configuration ===")
	for i, provider := range cfg.ProviderChain() {
		role := "fallback"
		if i == 0 {
			role = "primary"
		}
		status := "✓ API key set"
		if cfg.APIKey(provider) == "" {
			status = "✗ no API key"
		}
		fmt.Fprintf(w, "  %-8s %-8s %s\n", role, provider, status)
	}
	fmt.Fprintf(w, "  OCR languages: %s (%s level)\n", strings.Join(cfg.OCR.Languages, "+"), cfg.OCR.Level)
	fmt.Fprintf(w, "  history: %s\n", historyDescription(cfg.History))
}

func historyDescription(cfg config.HistoryConfig) string {
	switch cfg.Backend {
	case config.HistoryBackendYAML:
		return fmt.Sprintf("yaml in %s", cfg.Directory)
	case config.HistoryBackendMySQL:
		return "mysql"
	}
	return "disabled"
}
