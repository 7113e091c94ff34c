package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xuanhai0913/Vision-Key/internal/answer"
	"github.com/xuanhai0913/Vision-Key/internal/assistant"
	"github.com/xuanhai0913/Vision-Key/internal/capture"
	"github.com/xuanhai0913/Vision-Key/internal/config"
	"github.com/xuanhai0913/Vision-Key/internal/inference"
	"github.com/xuanhai0913/Vision-Key/internal/input"
	"github.com/xuanhai0913/Vision-Key/internal/locate"
	"github.com/xuanhai0913/Vision-Key/internal/ocr"
)

type solveFlags struct {
	region     capture.Region
	provider   inference.Provider
	imageFile  string
	ocrForAI   bool
	noImage    bool
	click      bool
	clickFirst bool
	copy       bool
}

func newSolveCommand() *cobra.Command {
	var flags solveFlags

	command := &cobra.Command{
		Use:   "solve",
		Short: "Capture the screen, ask the model and optionally click the answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts := solveOptions(cmd.Flags(), cfg.Assistant, flags)

			ctx := cmd.Context()
			client, err := newInferenceClient(ctx, cfg, flags.provider)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			repo, closeRepo, err := newHistoryRepository(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			phrasebook, err := cfg.Parser.Phrasebook()
			if err != nil {
				return fmt.Errorf("invalid parser configuration: %w", err)
			}
			instruction, err := cfg.Assistant.Instruction()
			if err != nil {
				return err
			}

			var capturer capture.Capturer = capture.NewScreenCapturer(cfg.Capture.Display)
			if flags.imageFile != "" {
				capturer = capture.NewFileCapturer(flags.imageFile)
			}

			a, err := assistant.New(assistant.Dependencies{
				Capturer:      capturer,
				Recognizer:    ocr.NewTesseractRecognizer(cfg.OCR.TessdataPrefix, cfg.OCR.PageSegMode, cfg.OCR.Level),
				Client:        client,
				Parser:        answer.NewParser(phrasebook),
				Resolver:      locate.NewResolver(cfg.Locator.Tables()),
				Clicker:       input.NewRobotClicker(time.Duration(cfg.Assistant.ClickDelayMillis) * time.Millisecond),
				History:       repo,
				Languages:     cfg.OCR.Languages,
				Instruction:   instruction,
				ClickInterval: time.Duration(cfg.Assistant.ClickIntervalMillis) * time.Millisecond,
			})
			if err != nil {
				return err
			}

			result, err := a.Run(ctx, opts)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	bindSolveFlags(command.Flags(), &flags)

	return command
}

func bindSolveFlags(fs *pflag.FlagSet, flags *solveFlags) {
	fs.Var(&flags.region, "region", "screen region to capture as x,y,width,height (default: whole display)")
	fs.Var(&flags.provider, "provider", "model provider to try first (openai or gemini)")
	fs.StringVar(&flags.imageFile, "image-file", "", "solve a saved screenshot instead of capturing the screen")
	fs.BoolVar(&flags.ocrForAI, "ocr-for-ai", false, "send recognized text to the model")
	fs.BoolVar(&flags.noImage, "no-image", false, "do not send the screenshot to the model")
	fs.BoolVar(&flags.click, "click", false, "click every answer that can be located")
	fs.BoolVar(&flags.clickFirst, "click-first", false, "click only the first answer, as soon as it is known")
	fs.BoolVar(&flags.copy, "copy", false, "copy the answers to the clipboard")
}

// solveOptions starts from the configured behavior and applies the flags the user set.
func solveOptions(fs *pflag.FlagSet, cfg config.AssistantConfig, flags solveFlags) assistant.Options {
	opts := assistant.Options{
		Region:     flags.region,
		OCRForAI:   cfg.OCRForAI,
		SendImage:  cfg.SendImage,
		AutoClick:  cfg.AutoClick,
		CopyAnswer: cfg.CopyAnswer,
	}
	changed := fs.Changed
	if changed("ocr-for-ai") {
		opts.OCRForAI = flags.ocrForAI
	}
	if changed("no-image") {
		opts.SendImage = !flags.noImage
	}
	if changed("click") {
		opts.AutoClick = flags.click
	}
	if changed("click-first") {
		opts.ClickFirst = flags.clickFirst
	}
	if changed("copy") {
		opts.CopyAnswer = flags.copy
	}
	// With no image the model can only work from recognized text.
	if !opts.SendImage {
		opts.OCRForAI = true
	}
	return opts
}
