package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client sends a captured question to a multimodal model and returns its free-form answer.
type Client interface {
	Name() string
	Solve(ctx context.Context, req SolveRequest) (SolveResponse, error)
	Close() error
}

// SolveRequest holds what is sent for one capture. Image may be empty in
// OCR-only mode and OCRText may be empty when only the image is sent.
type SolveRequest struct {
	Image       []byte
	MIMEType    string
	OCRText     string
	Instruction string
}

// SolveResponse is the raw model output together with who produced it.
type SolveResponse struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

const (
	DefaultMaxRetryAttempts = 3
	DefaultImageMIMEType    = "image/png"
)

var (
	ErrEmptyResponse = errors.New("empty model response")
	ErrEmptyRequest  = errors.New("request has neither an image nor OCR text")
	ErrNoProvider    = errors.New("no inference provider configured")
)

// Validate reports whether the request carries anything for the model to look at.
func (r SolveRequest) Validate() error {
	if len(r.Image) == 0 && strings.TrimSpace(r.OCRText) == "" {
		return ErrEmptyRequest
	}
	return nil
}

// Provider names a model backend. It implements pflag.Value.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

var Providers = []Provider{ProviderOpenAI, ProviderGemini}

func (p *Provider) String() string {
	return string(*p)
}

func (p *Provider) Set(value string) error {
	for _, known := range Providers {
		if strings.EqualFold(value, string(known)) {
			*p = known
			return nil
		}
	}
	return fmt.Errorf("unknown provider %q, expected one of %v", value, Providers)
}

func (p *Provider) Type() string {
	return "provider"
}
