package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Chat-completions wire types shared by the remote judge backends. Both
// Perplexity and OpenAI speak the same request shape.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// completeChat posts a chat-completions request and returns the first
// choice's trimmed content.
func completeChat(ctx context.Context, httpClient *http.Client, url, apiKey string, reqBody chatRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat backend responded with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat backend returned no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("chat backend returned empty content")
	}

	return content, nil
}

// parseEvaluation decodes the judge's JSON verdict and normalizes it: totals
// are recomputed from the category scores and the winner is derived from the
// totals if the backend returned an unknown designation.
func parseEvaluation(content string) (*Evaluation, error) {
	var eval Evaluation
	if err := json.Unmarshal([]byte(content), &eval); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation: %w", err)
	}

	eval.UserScore.Total = eval.UserScore.Originality + eval.UserScore.Logic + eval.UserScore.Expression
	eval.AIScore.Total = eval.AIScore.Originality + eval.AIScore.Logic + eval.AIScore.Expression

	if eval.Winner != WinnerUser && eval.Winner != WinnerAI {
		eval.Winner = WinnerAI
		if eval.UserScore.Total >= eval.AIScore.Total {
			eval.Winner = WinnerUser
		}
	}

	return &eval, nil
}

// Shared system prompts for the remote backends.
const (
	promptGenSystem = "Generate ONE creative prompt (maximum 15 words) for a creative challenge. The prompt should be about designing, inventing, or creating something innovative. Only output the prompt."

	opponentGenSystem = "Be creative. Write a brief solution (120-150 words) to the prompt. Be original and practical."

	evaluateSystem = `You are an expert judge evaluating creative solutions to technical challenges.
Rate two solutions (User and AI) on three criteria:

1. Originality (0-100): Novelty, uniqueness, and creative thinking
2. Logic (0-100): Practicality, feasibility, and sound reasoning
3. Expression (0-100): Clarity, engagement, and effective communication

For each category, provide specific, constructive feedback (2-3 sentences).
Calculate the total score for each solution (sum of all three categories).
Determine the winner based on the higher total score.

Return your evaluation in JSON format only with this structure:
{
  "userScore": {
    "originality": number,
    "logic": number,
    "expression": number,
    "originalityFeedback": string,
    "logicFeedback": string,
    "expressionFeedback": string,
    "total": number
  },
  "aiScore": {
    "originality": number,
    "logic": number,
    "expression": number,
    "originalityFeedback": string,
    "logicFeedback": string,
    "expressionFeedback": string,
    "total": number
  },
  "judgeFeedback": string,
  "winner": "user" or "ai"
}`
)

func evaluateUserMessage(prompt, userSolution, opponentSolution string) string {
	return fmt.Sprintf("Prompt: %s\n\nUser Solution: %s\n\nAI Solution: %s", prompt, userSolution, opponentSolution)
}
