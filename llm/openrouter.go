package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"openrouter-chat/utils"
)

// Client talks to the OpenRouter API. Completion requests go through the
// OpenAI-compatible endpoint; the model catalog and credits endpoints are
// OpenRouter-specific and called directly.
//
// Every operation degrades to a safe, renderable fallback instead of
// returning an error, because the front-end has no structured error path.
type Client struct {
	api    *openai.Client
	http   *http.Client
	config *utils.Config
	logger *utils.AppLogger
	models []ModelInfo // catalog fetched once at construction
}

// New creates a client from the resolved configuration. It fails when no
// credential is configured and prefetches the model catalog on success.
func New(config *utils.Config, logger *utils.AppLogger) (*Client, error) {
	if config.APIKey == "" {
		logger.Error("OpenRouter API key not found in environment or defaults")
		return nil, errors.New("OpenRouter API key not found")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	client := &Client{
		api:    openai.NewClientWithConfig(clientConfig),
		http:   &http.Client{},
		config: config,
		logger: logger,
	}

	logger.Info("OpenRouter client initialized (debug=%v, max_tokens=%d, temperature=%.2f)",
		config.Debug, config.MaxTokens, config.Temperature)

	client.models = client.ListModels()

	return client, nil
}

// Models returns the catalog fetched at construction
func (c *Client) Models() []ModelInfo {
	return c.models
}

// ListModels fetches the available models from the provider. On any failure it
// returns the fallback catalog instead of an error, so the result is never
// empty.
func (c *Client) ListModels() []ModelInfo {
	c.logger.Debug("Fetching available models")

	var body modelListResponse
	if err := c.get(context.Background(), "/models", &body); err != nil {
		c.logger.Error("Error fetching models: %v", err)
		return FallbackCatalog()
	}
	if len(body.Data) == 0 {
		c.logger.Error("Error fetching models: empty model list")
		return FallbackCatalog()
	}

	c.logger.Info("Retrieved %d models", len(body.Data))
	return body.Data
}

// SendMessage sends a single-turn chat request. The result carries an error
// string instead of a Go error when the request fails.
func (c *Client) SendMessage(ctx context.Context, message, model string) *SendResult {
	c.logger.Debug("Sending message to %s (max_tokens=%d, temperature=%.2f)",
		model, c.config.MaxTokens, c.config.Temperature)

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: float32(c.config.Temperature),
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error("API request failed: %v", err)
		return &SendResult{Err: err.Error()}
	}

	if len(resp.Choices) == 0 {
		c.logger.Error("API request failed: no choices in response")
		return &SendResult{Err: "no choices in response"}
	}

	c.logger.Info("Received response from API")
	return &SendResult{
		Text:       resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}
}

// GetBalance returns the remaining credit balance formatted as a currency
// string, or a fixed sentinel when the request fails.
func (c *Client) GetBalance(ctx context.Context) string {
	var body creditsResponse
	if err := c.get(ctx, "/credits", &body); err != nil {
		c.logger.Error("Balance request failed: %v", err)
		return BalanceUnavailable
	}

	balance := body.Data.TotalCredits - body.Data.TotalUsage
	return fmt.Sprintf("$%.2f", balance)
}

// get issues an authorized GET against the configured base URL and decodes
// the JSON body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}
