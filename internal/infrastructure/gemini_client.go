package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"intern_assistant/internal/entities"

	"google.golang.org/genai"
)

const (
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultGeminiTimeout = 20 * time.Second

	answerInstructions = "Provide a helpful, friendly response. Keep it under 150 words. " +
		"If unsure, suggest contacting the coordinator."
)

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	BaseURL string // tests and proxies only
}

// GeminiClient is the completion provider backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required: %w", entities.ErrNotConfigured)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultGeminiTimeout
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  cfg.Model,
		config: &genai.GenerateContentConfig{
			Temperature:     ptr[float32](0.7),
			MaxOutputTokens: 300,
			TopP:            ptr[float32](0.8),
			TopK:            ptr[float32](40),
		},
	}, nil
}

// Complete asks Gemini to answer userMessage using promptContext. Transport
// failures, API errors and empty candidates all come back as
// *entities.CompletionError.
func (g *GeminiClient) Complete(ctx context.Context, promptContext, userMessage string) (string, error) {
	prompt := promptContext + "\n\nIntern's question: " + userMessage + "\n\n" + answerInstructions

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", &entities.CompletionError{Reason: "generate content", Err: err}
	}

	text := strings.TrimSpace(candidateText(resp))
	if text == "" {
		reason := "no response generated"
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason = "prompt blocked: " + string(resp.PromptFeedback.BlockReason)
		}
		return "", &entities.CompletionError{Reason: reason, Err: errors.New("empty candidate")}
	}
	return text, nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func ptr[T any](v T) *T { return &v }
