package judge

import (
	"context"
	"net/http"

	"github.com/promptclash/backend/internal/config"
)

const (
	openAIBaseURL = "https://api.openai.com/v1/chat/completions"
	openAIModel   = "gpt-4o"
)

// OpenAIClient is the OpenAI-backed judge, selected with JUDGE_BACKEND=openai.
type OpenAIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewOpenAIClient(cfg *config.Config) *OpenAIClient {
	return &OpenAIClient{
		httpClient: &http.Client{
			Timeout: cfg.JudgeTimeout,
		},
		baseURL: openAIBaseURL,
		apiKey:  cfg.JudgeAPIKey,
		model:   openAIModel,
	}
}

var _ Provider = (*OpenAIClient)(nil)

func (c *OpenAIClient) GeneratePrompt(ctx context.Context) (string, error) {
	return completeChat(ctx, c.httpClient, c.baseURL, c.apiKey, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: promptGenSystem},
		},
		Temperature: 0.7,
		MaxTokens:   30,
	})
}

func (c *OpenAIClient) GenerateOpponentSolution(ctx context.Context, prompt string) (string, error) {
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

func (c *OpenAIClient) Evaluate(ctx context.Context, prompt, userSolution, opponentSolution string) (*Evaluation, error) {
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
