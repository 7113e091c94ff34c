package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xuanhai0913/Vision-Key/internal/config"
	"github.com/xuanhai0913/Vision-Key/internal/database"
	"github.com/xuanhai0913/Vision-Key/internal/history"
	"github.com/xuanhai0913/Vision-Key/schemas"
)

func newHistoryCommand() *cobra.Command {
	historyCommand := &cobra.Command{
		Use:   "history",
		Short: "Review solved captures",
	}
	historyCommand.AddCommand(
		newHistoryListCommand(),
		newHistoryShowCommand(),
		newHistoryExportCommand(),
		newHistoryMigrateCommand(),
	)
	return historyCommand
}

func newHistoryListCommand() *cobra.Command {
	var limit int
	command := &cobra.Command{
		Use:   "list",
		Short: "List recent entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, closeRepo, err := newHistoryRepository(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			entries, err := repo.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("repo.List() > %w", err)
			}
			printHistoryList(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	command.Flags().IntVar(&limit, "limit", 20, "maximum number of entries, 0 for all")
	return command
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry with its full response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, closeRepo, err := newHistoryRepository(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			entry, err := repo.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("repo.Get() > %w", err)
			}
			printHistoryEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}
}

func newHistoryExportCommand() *cobra.Command {
	var (
		output       string
		limit        int
		templatePath string
	)
	command := &cobra.Command{
		Use:   "export",
		Short: "Export entries as Markdown, or PDF when the output ends with .pdf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, closeRepo, err := newHistoryRepository(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			entries, err := repo.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("repo.List() > %w", err)
			}
			if templatePath == "" {
				templatePath = cfg.History.ExportTemplate
			}
			tmpl, err := history.ParseExportTemplate(templatePath)
			if err != nil {
				return err
			}
			path, err := history.Export(tmpl, entries, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries to %s\n", len(entries), path)
			return nil
		},
	}
	command.Flags().StringVar(&output, "out", "history.md", "output file (.md or .pdf)")
	command.Flags().IntVar(&limit, "limit", 0, "maximum number of entries, 0 for all")
	command.Flags().StringVar(&templatePath, "template", "", "Markdown template (default: history.export_template or the built-in one)")
	return command
}

func newHistoryMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the MySQL history tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.History.Backend != config.HistoryBackendMySQL {
				return fmt.Errorf("history.backend is %q; migrations only apply to %q", cfg.History.Backend, config.HistoryBackendMySQL)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			versions, err := database.Migrate(cmd.Context(), db, schemas.Migrations)
			if err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			if len(versions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "history tables are up to date")
				return nil
			}
			for _, version := range versions {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", version)
			}
			return nil
		},
	}
}
