// Package assistant runs one capture through the whole pipeline: screenshot, text
// recognition, model call, answer parsing, coordinate resolution, clicks and history.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuanhai0913/Vision-Key/internal/answer"
	"github.com/xuanhai0913/Vision-Key/internal/capture"
	"github.com/xuanhai0913/Vision-Key/internal/geometry"
	"github.com/xuanhai0913/Vision-Key/internal/history"
	"github.com/xuanhai0913/Vision-Key/internal/inference"
	"github.com/xuanhai0913/Vision-Key/internal/input"
	"github.com/xuanhai0913/Vision-Key/internal/locate"
	"github.com/xuanhai0913/Vision-Key/internal/ocr"
)

var (
	ErrNoCapturer = errors.New("assistant needs a capturer")
	ErrNoClient   = errors.New("assistant needs an inference client")
)

// Dependencies are the collaborators of an Assistant. Capturer and Client are required.
// Parser, Resolver and History default to the built-in tables and a discarding repository.
// Recognizer and Clicker may be nil when no run needs text recognition or input.
type Dependencies struct {
	Capturer   capture.Capturer
	Recognizer ocr.Recognizer
	Client     inference.Client
	Parser     *answer.Parser
	Resolver   *locate.Resolver
	Clicker    input.Clicker
	History    history.Repository

	Languages   []string
	Instruction string
	// ClickInterval separates consecutive clicks so the page can react to each one.
	ClickInterval time.Duration
}

type Assistant struct {
	deps Dependencies
}

func New(deps Dependencies) (*Assistant, error) {
	if deps.Capturer == nil {
		return nil, ErrNoCapturer
	}
	if deps.Client == nil {
		return nil, ErrNoClient
	}
	if deps.Parser == nil {
		deps.Parser = answer.NewParser(answer.DefaultPhrasebook())
	}
	if deps.Resolver == nil {
		deps.Resolver = locate.NewResolver(locate.DefaultTables())
	}
	if deps.History == nil {
		deps.History = history.NopRepository{}
	}
	if len(deps.Languages) == 0 {
		deps.Languages = ocr.DefaultLanguages
	}
	return &Assistant{deps: deps}, nil
}

// Options select what one run does.
type Options struct {
	Region capture.Region
	// OCRForAI sends the recognized text to the model.
	OCRForAI bool
	// SendImage sends the screenshot to the model.
	SendImage bool
	// AutoClick clicks every parsed answer letter that can be located.
	AutoClick bool
	// ClickFirst clicks only the first letter of the final answer line. AutoClick takes precedence.
	ClickFirst bool
	CopyAnswer bool
}

func (o Options) needsOCR() bool {
	return o.OCRForAI || o.AutoClick || o.ClickFirst
}

// ClickOutcome reports what happened to one answer letter. Found is false when the
// letter could not be located on the screen; that is an expected outcome, not an error.
type ClickOutcome struct {
	Label   string         `json:"label,omitempty"`
	Letter  string         `json:"letter"`
	Point   geometry.Point `json:"point"`
	Found   bool           `json:"found"`
	Clicked bool           `json:"clicked"`
}

type Result struct {
	Shot         capture.Shot
	Observations []ocr.TextObservation
	Response     inference.SolveResponse
	Answers      []answer.ParsedAnswer
	Clicks       []ClickOutcome
	Copied       string
	HistoryID    string
	// Warnings collects failures that happened after an answer was obtained.
	Warnings []string
}

// Raw is the unparsed model response.
func (r Result) Raw() string {
	return r.Response.Text
}

func (r *Result) warn(msg string, err error) {
	slog.Default().Warn(msg, "error", err)
	r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %v", msg, err))
}

// Run captures opts.Region and solves it. Capture and model errors are returned; later
// failures are logged and recorded in Result.Warnings so that the answer is not lost.
func (a *Assistant) Run(ctx context.Context, opts Options) (Result, error) {
	var result Result
	started := time.Now()

	shot, err := a.deps.Capturer.Capture(ctx, opts.Region)
	if err != nil {
		return result, fmt.Errorf("capturer.Capture(%s) > %w", opts.Region.String(), err)
	}
	result.Shot = shot
	slog.Default().Debug("captured screen",
		"image_size", shot.Geometry.ImageSize.String(),
		"screen_rect", shot.Geometry.ScreenRect.String())

	if opts.needsOCR() {
		observations, err := a.recognize(ctx, shot)
		if err != nil {
			// Without an image there is nothing else to send.
			if opts.OCRForAI && !opts.SendImage {
				return result, err
			}
			result.warn("text recognition failed", err)
		}
		result.Observations = observations
	}

	req := inference.SolveRequest{Instruction: a.deps.Instruction}
	if opts.SendImage {
		req.Image = shot.Image
		req.MIMEType = inference.DefaultImageMIMEType
	}
	if opts.OCRForAI {
		req.OCRText = ocr.JoinText(result.Observations)
	}
	if err := req.Validate(); err != nil {
		return result, err
	}

	resp, err := a.deps.Client.Solve(ctx, req)
	if err != nil {
		return result, fmt.Errorf("client.Solve(%s) > %w", a.deps.Client.Name(), err)
	}
	result.Response = resp
	result.Answers = a.deps.Parser.Parse(resp.Text)
	slog.Default().Info("solved",
		"provider", resp.Provider,
		"model", resp.Model,
		"answers", len(result.Answers),
		"elapsed", time.Since(started))

	// Geometry belongs to this shot only and is never carried over to another run.
	geom := shot.Geometry.Normalized()
	if sx, sy := shot.Geometry.Scale(); sx != 1 || sy != 1 {
		slog.Default().Debug("normalized capture scale", "scaleX", sx, "scaleY", sy, "screenRect", geom.ScreenRect.String())
	}
	switch {
	case opts.AutoClick:
		result.Clicks = a.resolveAll(result.Answers, result.Observations, geom)
	case opts.ClickFirst:
		if outcome, ok := a.resolveFirst(resp.Text, result.Observations, geom); ok {
			result.Clicks = []ClickOutcome{outcome}
		}
	}
	a.click(ctx, &result)

	if opts.CopyAnswer {
		a.copy(&result)
	}
	a.save(ctx, &result)
	return result, nil
}

func (a *Assistant) recognize(ctx context.Context, shot capture.Shot) ([]ocr.TextObservation, error) {
	if a.deps.Recognizer == nil {
		return nil, errors.New("no text recognizer configured")
	}
	observations, err := a.deps.Recognizer.Recognize(ctx, shot.Image, a.deps.Languages)
	if err != nil {
		return nil, fmt.Errorf("recognizer.Recognize() > %w", err)
	}
	slog.Default().Debug("recognized text", "observations", len(observations))
	return observations, nil
}

func (a *Assistant) resolveAll(answers []answer.ParsedAnswer, observations []ocr.TextObservation, geom capture.Geometry) []ClickOutcome {
	var outcomes []ClickOutcome
	for _, ans := range answers {
		for _, letter := range ans.Letters {
			outcome := ClickOutcome{Label: ans.QuestionLabel, Letter: letter}
			outcome.Point, outcome.Found = a.deps.Resolver.FindAnswerCoordinate(letter, observations, geom.ImageSize, geom.ScreenRect)
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes
}

func (a *Assistant) resolveFirst(raw string, observations []ocr.TextObservation, geom capture.Geometry) (ClickOutcome, bool) {
	letter := answer.ExtractFirstLetter(lastLine(raw))
	if letter == "" {
		return ClickOutcome{}, false
	}
	outcome := ClickOutcome{Letter: letter}
	outcome.Point, outcome.Found = a.deps.Resolver.FindAnswerCoordinate(letter, observations, geom.ImageSize, geom.ScreenRect)
	return outcome, true
}

func (a *Assistant) click(ctx context.Context, result *Result) {
	clicked := 0
	for i := range result.Clicks {
		outcome := &result.Clicks[i]
		if !outcome.Found {
			slog.Default().Info("answer detected but could not be located", "label", outcome.Label, "letter", outcome.Letter)
			continue
		}
		if a.deps.Clicker == nil {
			result.warn("cannot click", errors.New("no input device configured"))
			return
		}
		if clicked > 0 && a.deps.ClickInterval > 0 {
			select {
			case <-ctx.Done():
				result.warn("clicking stopped", ctx.Err())
				return
			case <-time.After(a.deps.ClickInterval):
			}
		}
		if err := a.deps.Clicker.Click(ctx, outcome.Point); err != nil {
			result.warn(fmt.Sprintf("click on %s at %s failed", outcome.Letter, outcome.Point), err)
			continue
		}
		outcome.Clicked = true
		clicked++
		slog.Default().Debug("clicked answer", "label", outcome.Label, "letter", outcome.Letter, "point", outcome.Point.String())
	}
}

func (a *Assistant) copy(result *Result) {
	text := answer.Format(result.Answers)
	if text == "" {
		text = strings.TrimSpace(result.Response.Text)
	}
	if a.deps.Clicker == nil {
		result.warn("cannot copy the answer", errors.New("no input device configured"))
		return
	}
	if err := a.deps.Clicker.Copy(text); err != nil {
		result.warn("copying the answer failed", err)
		return
	}
	result.Copied = text
}

func (a *Assistant) save(ctx context.Context, result *Result) {
	entry := history.Entry{
		CreatedAt: result.Shot.TakenAt,
		Provider:  result.Response.Provider,
		Model:     result.Response.Model,
		Raw:       result.Response.Text,
		Answers:   result.Answers,
	}
	if err := a.deps.History.Save(ctx, &entry); err != nil {
		result.warn("saving history failed", err)
		return
	}
	result.HistoryID = entry.ID
}

// lastLine returns the last non-blank line, where the final answer is asked to be.
func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
