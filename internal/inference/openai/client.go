package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"resty.dev/v3"

	"github.com/xuanhai0913/Vision-Key/internal/inference"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model, baseURL string, retryAttempts uint) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

func (client *Client) Name() string {
	return string(inference.ProviderOpenAI)
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role          `json:"role"`
	Content []ContentPart `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeImageURL ContentType = "image_url"
)

type ContentPart struct {
	Type     ContentType `json:"type"`
	Text     string      `json:"text,omitempty"`
	ImageURL *ImageURL   `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Solve implements the inference.Client interface
func (client *Client) Solve(ctx context.Context, req inference.SolveRequest) (inference.SolveResponse, error) {
	if err := req.Validate(); err != nil {
		return inference.SolveResponse{}, err
	}

	var result inference.SolveResponse
	err := withRetry(ctx, client.maxRetryAttempts, func() error {
		response, err := client.solve(ctx, req)
		if err != nil {
			return err
		}
		result = response
		return nil
	})
	if err != nil {
		return inference.SolveResponse{}, err
	}
	return result, nil
}

func (client *Client) getRequestBody(req inference.SolveRequest) ChatCompletionRequest {
	userContent := []ContentPart{
		{Type: ContentTypeText, Text: inference.BuildUserPrompt(req)},
	}
	if len(req.Image) > 0 {
		mimeType := req.MIMEType
		if mimeType == "" {
			mimeType = inference.DefaultImageMIMEType
		}
		userContent = append(userContent, ContentPart{
			Type: ContentTypeImageURL,
			ImageURL: &ImageURL{
				URL:    "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(req.Image),
				Detail: "high",
			},
		})
	}

	return ChatCompletionRequest{
		Model: client.model,
		Messages: []Message{
			{Role: RoleSystem, Content: []ContentPart{{Type: ContentTypeText, Text: inference.SystemPrompt}}},
			{Role: RoleUser, Content: userContent},
		},
	}
}

func (client *Client) solve(ctx context.Context, req inference.SolveRequest) (inference.SolveResponse, error) {
	requestBody := client.getRequestBody(req)

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return inference.SolveResponse{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return inference.SolveResponse{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody, ok := response.Result().(*ChatCompletionResponse)
	if !ok || responseBody == nil || len(responseBody.Choices) == 0 {
		return inference.SolveResponse{}, fmt.Errorf("empty response body or choices: %s: %w", response.String(), inference.ErrEmptyResponse)
	}

	content := strings.TrimSpace(responseBody.Choices[0].Message.Content)
	if content == "" {
		return inference.SolveResponse{}, fmt.Errorf("empty response content: %s: %w", response.String(), inference.ErrEmptyResponse)
	}
	slog.Default().Debug("openai response content",
		"model", responseBody.Model,
		"finish_reason", responseBody.Choices[0].FinishReason,
		"usage", responseBody.Usage,
	)

	model := responseBody.Model
	if model == "" {
		model = client.model
	}
	return inference.SolveResponse{
		Text:     content,
		Provider: client.Name(),
		Model:    model,
	}, nil
}
