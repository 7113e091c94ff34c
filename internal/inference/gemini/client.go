// Package gemini solves captured questions with Google's Gemini models.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/xuanhai0913/Vision-Key/internal/inference"
)

const DefaultModel = "gemini-2.5-flash"

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models generator
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient() > %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		models: cli.Models,
		model:  model,
	}, nil
}

func (c *Client) Name() string {
	return string(inference.ProviderGemini)
}

// Close is a no-op; the genai client holds no resources that need releasing.
func (c *Client) Close() error {
	return nil
}

func (c *Client) Solve(ctx context.Context, req inference.SolveRequest) (inference.SolveResponse, error) {
	if err := req.Validate(); err != nil {
		return inference.SolveResponse{}, err
	}

	contents, config := c.buildRequest(req)
	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return inference.SolveResponse{}, fmt.Errorf("models.GenerateContent(%s) > %w", c.model, err)
	}
	if resp == nil {
		return inference.SolveResponse{}, inference.ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return inference.SolveResponse{}, fmt.Errorf("no text in %d candidates: %w", len(resp.Candidates), inference.ErrEmptyResponse)
	}

	model := resp.ModelVersion
	if model == "" {
		model = c.model
	}
	slog.Default().Debug("gemini response", "model", model, "candidates", len(resp.Candidates))
	return inference.SolveResponse{
		Text:     text,
		Provider: c.Name(),
		Model:    model,
	}, nil
}

func (c *Client) buildRequest(req inference.SolveRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	parts := []*genai.Part{genai.NewPartFromText(inference.BuildUserPrompt(req))}
	if len(req.Image) > 0 {
		mimeType := req.MIMEType
		if mimeType == "" {
			mimeType = inference.DefaultImageMIMEType
		}
		parts = append(parts, genai.NewPartFromBytes(req.Image, mimeType))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(inference.SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
	}
	return contents, config
}
