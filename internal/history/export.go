package history

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/xuanhai0913/Vision-Key/internal/answer"
	"github.com/xuanhai0913/Vision-Key/internal/pdf"
)

//go:embed templates/history.md.go.tmpl
var fallbackExportTemplate string

const exportTemplateName = "history.md.go.tmpl"

type exportData struct {
	Entries []Entry
}

// ParseExportTemplate parses the Markdown template at templatePath, or the built-in one
// when templatePath is empty or cannot be parsed.
func ParseExportTemplate(templatePath string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"value": func(a answer.ParsedAnswer) string {
			// Multiline bodies such as code blocks are kept on one list item.
			return strings.ReplaceAll(a.Value(), "\n", " ")
		},
	}

	if templatePath != "" {
		tmpl, err := template.New(filepath.Base(templatePath)).Funcs(funcMap).ParseFiles(templatePath)
		if err == nil {
			return tmpl, nil
		}
		slog.Default().Warn("failed to parse an export template, using the built-in one",
			slog.String("templatePath", templatePath),
			slog.Any("error", err),
		)
	}

	tmpl, err := template.New(exportTemplateName).Funcs(funcMap).Parse(fallbackExportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

// ExportMarkdown renders entries as Markdown into w.
func ExportMarkdown(w io.Writer, tmpl *template.Template, entries []Entry) error {
	if err := tmpl.Execute(w, exportData{Entries: entries}); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

// Export writes entries to outputPath. A ".pdf" path is rendered from a Markdown file
// written next to it; any other extension gets Markdown. It returns the written path.
func Export(tmpl *template.Template, entries []Entry, outputPath string) (string, error) {
	isPDF := strings.EqualFold(filepath.Ext(outputPath), ".pdf")
	markdownPath := outputPath
	if isPDF {
		markdownPath = strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".md"
	}

	if dir := filepath.Dir(markdownPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}
	file, err := os.Create(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.Create(%s) > %w", markdownPath, err)
	}
	if err := ExportMarkdown(file, tmpl, entries); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("file.Close() > %w", err)
	}
	if !isPDF {
		return markdownPath, nil
	}

	pdfPath, err := pdf.ConvertMarkdownToPDF(markdownPath)
	if err != nil {
		return "", fmt.Errorf("pdf.ConvertMarkdownToPDF(%s) > %w", markdownPath, err)
	}
	return pdfPath, nil
}
