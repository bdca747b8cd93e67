package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lysyi3m/newsbrief/app/news"
)

const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Summarizer turns an article description into a one-sentence summary.
// It never fails: on any error it returns a fixed fallback sentence.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	prompt     PromptConfig
}

var _ Summarizer = (*Client)(nil)

func NewClient(httpClient *http.Client, endpoint, apiKey, model string, prompt PromptConfig) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		prompt:     prompt,
	}
}

func (c *Client) Summarize(ctx context.Context, text string) string {
	summary, err := c.complete(ctx, news.StripMarkup(text))
	if err != nil {
		slog.Error("Summary generation failed", "model", c.model, "error", err)
		return c.prompt.Fallback
	}
	return summary
}

func (c *Client) complete(ctx context.Context, text string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("summarization API key is not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: c.prompt.render(text)}},
		MaxTokens: c.prompt.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call completions API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completions API error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from completions API")
	}

	summary := strings.TrimSpace(completion.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("completions API returned an empty summary")
	}

	return summary, nil
}
