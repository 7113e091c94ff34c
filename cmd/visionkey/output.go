package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/xuanhai0913/Vision-Key/internal/answer"
	"github.com/xuanhai0913/Vision-Key/internal/assistant"
	"github.com/xuanhai0913/Vision-Key/internal/history"
)

var (
	labelColor   = color.New(color.Bold)
	letterColor  = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow)
	faintColor   = color.New(color.Faint)
)

func printAnswers(w io.Writer, answers []answer.ParsedAnswer) {
	if len(answers) == 0 {
		warningColor.Fprintln(w, "No answer detected.")
		return
	}
	for i, a := range answers {
		label := a.QuestionLabel
		if label == "" && len(answers) > 1 {
			label = fmt.Sprint(i + 1)
		}
		if label != "" {
			labelColor.Fprintf(w, "Question %s: ", label)
		}
		if a.HasLetters() {
			letterColor.Fprintln(w, strings.Join(a.Letters, ", "))
			continue
		}
		if strings.Contains(a.Body, "\n") {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, a.Body)
	}
}

func printResult(w io.Writer, result assistant.Result) {
	printAnswers(w, result.Answers)
	if len(result.Answers) == 0 {
		fmt.Fprintln(w, strings.TrimSpace(result.Raw()))
	}

	for _, click := range result.Clicks {
		switch {
		case click.Clicked:
			faintColor.Fprintf(w, "clicked %s at %s\n", click.Letter, click.Point)
		case !click.Found:
			warningColor.Fprintf(w, "answer %s detected but could not click: not found on screen\n", click.Letter)
		default:
			warningColor.Fprintf(w, "answer %s detected but could not click\n", click.Letter)
		}
	}
	if result.Copied != "" {
		faintColor.Fprintln(w, "copied to clipboard")
	}
	for _, warning := range result.Warnings {
		warningColor.Fprintf(w, "warning: %s\n", warning)
	}
	if result.HistoryID != "" {
		faintColor.Fprintf(w, "%s via %s (%s)\n", result.HistoryID, result.Response.Provider, result.Response.Model)
	}
}

func printHistoryList(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history yet.")
		return
	}
	for _, entry := range entries {
		summary := strings.ReplaceAll(answer.Format(entry.Answers), "\n", "; ")
		if summary == "" {
			summary = "-"
		}
		fmt.Fprintf(w, "%s  %s  %-7s  ", entry.ID, entry.CreatedAt.Local().Format("2006-01-02 15:04:05"), entry.Provider)
		letterColor.Fprintln(w, summary)
	}
}

func printHistoryEntry(w io.Writer, entry history.Entry) {
	labelColor.Fprintf(w, "ID: ")
	fmt.Fprintln(w, entry.ID)
	labelColor.Fprintf(w, "Time: ")
	fmt.Fprintln(w, entry.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	labelColor.Fprintf(w, "Provider: ")
	fmt.Fprintf(w, "%s %s\n", entry.Provider, entry.Model)
	fmt.Fprintln(w)
	printAnswers(w, entry.Answers)
	fmt.Fprintln(w)
	labelColor.Fprintln(w, "Response:")
	fmt.Fprintln(w, entry.Raw)
}
