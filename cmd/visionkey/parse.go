package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xuanhai0913/Vision-Key/internal/answer"
)

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a saved model response and print its answers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			phrasebook, err := cfg.Parser.Phrasebook()
			if err != nil {
				return fmt.Errorf("invalid parser configuration: %w", err)
			}

			raw, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printAnswers(out, answer.NewParser(phrasebook).Parse(raw))
			if letter := answer.ExtractFirstLetter(raw); letter != "" {
				faintColor.Fprintf(out, "first letter: %s\n", letter)
			}
			return nil
		},
	}
}

// readInput reads the file named by args[0], or stdin when there is no argument or it is "-".
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("io.ReadAll() > %w", err)
		}
		return string(content), nil
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", args[0], err)
	}
	return string(content), nil
}
