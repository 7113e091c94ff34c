package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"github.com/xuanhai0913/Vision-Key/internal/inference"
)

func writeCompletion(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	mockResponse := ChatCompletionResponse{
		ID:      "chatcmpl-123",
		Object:  "chat.completion",
		Created: 1677652288,
		Model:   "gpt-4o-mini-2024-07-18",
		Choices: []Choice{
			{
				Index: 0,
				Message: ChoiceMessage{
					Role:    RoleAssistant,
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: Usage{
			PromptTokens:     100,
			CompletionTokens: 50,
			TotalTokens:      150,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	require.NoError(t, json.NewEncoder(w).Encode(mockResponse))
}

func TestClient_Solve(t *testing.T) {
	tests := []struct {
		name              string
		request           inference.SolveRequest
		mockServerHandler func(t *testing.T, w http.ResponseWriter, r *http.Request)

		wantResponse    inference.SolveResponse
		wantCalls       int32
		wantError       bool
		wantErrorIs     error
		wantErrorString string
	}{
		{
			name: "image and OCR text",
			request: inference.SolveRequest{
				Image:    []byte("png-bytes"),
				MIMEType: "image/png",
				OCRText:  "Câu 1: 2 + 2 = ?\nA. 3\nB. 4",
			},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/chat/completions", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var reqBody ChatCompletionRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
				assert.Equal(t, "gpt-4o-mini", reqBody.Model)
				require.Len(t, reqBody.Messages, 2)
				assert.Equal(t, RoleSystem, reqBody.Messages[0].Role)
				assert.Equal(t, inference.SystemPrompt, reqBody.Messages[0].Content[0].Text)

				user := reqBody.Messages[1]
				assert.Equal(t, RoleUser, user.Role)
				require.Len(t, user.Content, 2)
				assert.Equal(t, ContentTypeText, user.Content[0].Type)
				assert.Contains(t, user.Content[0].Text, "A. 3\nB. 4")
				assert.Equal(t, ContentTypeImageURL, user.Content[1].Type)
				require.NotNil(t, user.Content[1].ImageURL)
				assert.Equal(t, "data:image/png;base64,cG5nLWJ5dGVz", user.Content[1].ImageURL.URL)

				writeCompletion(t, w, "2 + 2 = 4\nFINAL_ANSWER: B")
			},
			wantResponse: inference.SolveResponse{
				Text:     "2 + 2 = 4\nFINAL_ANSWER: B",
				Provider: "openai",
				Model:    "gpt-4o-mini-2024-07-18",
			},
			wantCalls: 1,
		},
		{
			name: "OCR text only sends no image part",
			request: inference.SolveRequest{
				OCRText: "1 + 1 = ?",
			},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				var reqBody ChatCompletionRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
				require.Len(t, reqBody.Messages, 2)
				assert.Len(t, reqBody.Messages[1].Content, 1)

				writeCompletion(t, w, "FINAL_ANSWER: 2")
			},
			wantResponse: inference.SolveResponse{
				Text:     "FINAL_ANSWER: 2",
				Provider: "openai",
				Model:    "gpt-4o-mini-2024-07-18",
			},
			wantCalls: 1,
		},
		{
			name:    "Empty request - no HTTP request",
			request: inference.SolveRequest{},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				t.Error("HTTP request should not be made for an empty request")
			},
			wantError:   true,
			wantErrorIs: inference.ErrEmptyRequest,
		},
		{
			name:    "HTTP 500 error is retried",
			request: inference.SolveRequest{OCRText: "question"},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error": {"message": "Internal server error"}}`))
			},
			wantError:       true,
			wantErrorString: "response error 500",
			wantCalls:       2,
		},
		{
			name:    "HTTP 401 error is not retried",
			request: inference.SolveRequest{OCRText: "question"},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided"}}`))
			},
			wantError:       true,
			wantErrorString: "response error 401",
			wantCalls:       1,
		},
		{
			name:    "Empty content",
			request: inference.SolveRequest{OCRText: "question"},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				writeCompletion(t, w, "   ")
			},
			wantError:   true,
			wantErrorIs: inference.ErrEmptyResponse,
			wantCalls:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				tt.mockServerHandler(t, w, r)
			}))
			defer server.Close()

			client := &Client{
				httpClient: resty.New().
					SetBaseURL(server.URL).
					SetHeader("Content-Type", "application/json"),
				model:            "gpt-4o-mini",
				maxRetryAttempts: 1,
			}
			defer client.Close()

			gotResponse, gotErr := client.Solve(context.Background(), tt.request)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))

			if tt.wantError {
				require.Error(t, gotErr)
				if tt.wantErrorIs != nil {
					assert.True(t, errors.Is(gotErr, tt.wantErrorIs), gotErr.Error())
				}
				if tt.wantErrorString != "" {
					assert.Contains(t, gotErr.Error(), tt.wantErrorString)
				}
				return
			}

			require.NoError(t, gotErr)
			assert.Equal(t, tt.wantResponse, gotResponse)
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "server error", err: errors.New("response error 503: unavailable"), want: true},
		{name: "rate limited", err: errors.New("response error 429: slow down"), want: true},
		{name: "bad request", err: errors.New("response error 400: invalid image"), want: false},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: true},
		{name: "empty response", err: inference.ErrEmptyResponse, want: true},
		{name: "canceled", err: context.Canceled, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("sk-test", "gpt-4o", "https://example.com/v1/", 2)
	defer client.Close()

	assert.Equal(t, "openai", client.Name())
	assert.Equal(t, "gpt-4o", client.model)
}
