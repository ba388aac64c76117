package judge

import (
	"context"
	"net/http"

	"github.com/promptclash/backend/internal/config"
)

const (
	perplexityBaseURL = "https://api.perplexity.ai/chat/completions"
	perplexityModel   = "llama-3.1-sonar-small-128k-online"
)

// PerplexityClient is the Perplexity-backed judge. It returns errors freely;
// totality is provided by the Failsafe wrapper.
type PerplexityClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewPerplexityClient(cfg *config.Config) *PerplexityClient {
	return &PerplexityClient{
		httpClient: &http.Client{
			Timeout: cfg.JudgeTimeout,
		},
		baseURL: perplexityBaseURL,
		apiKey:  cfg.JudgeAPIKey,
		model:   perplexityModel,
	}
}

var _ Provider = (*PerplexityClient)(nil)

func (c *PerplexityClient) GeneratePrompt(ctx context.Context) (string, error) {
	return completeChat(ctx, c.httpClient, c.baseURL, c.apiKey, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: promptGenSystem},
		},
		Temperature: 0.7,
		MaxTokens:   30,
	})
}

func (c *PerplexityClient) GenerateOpponentSolution(ctx context.Context, prompt string) (string, error) {
	return completeChat(ctx, c.httpClient, c.baseURL, c.apiKey, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: opponentGenSystem},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   200,
	})
}

func (c *PerplexityClient) Evaluate(ctx context.Context, prompt, userSolution, opponentSolution string) (*Evaluation, error) {
	content, err := completeChat(ctx, c.httpClient, c.baseURL, c.apiKey, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: evaluateSystem},
			{Role: "user", Content: evaluateUserMessage(prompt, userSolution, opponentSolution)},
		},
		Temperature:    0.4,
		MaxTokens:      800,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}
	return parseEvaluation(content)
}
