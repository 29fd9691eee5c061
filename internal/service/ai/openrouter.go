package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// OpenRouterConfig configures an OpenAI-style chat-completion endpoint.
type OpenRouterConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	AppTitle    string
	Temperature float32
	MaxTokens   int
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// OpenRouterClient is a chat model that calls OpenRouter (or any endpoint speaking
// the same protocol) with one synchronous request per turn.
type OpenRouterClient struct {
	cfg        OpenRouterConfig
	httpClient *http.Client
}

var _ model.BaseChatModel = (*OpenRouterClient)(nil)

// NewOpenRouterClient creates a client for the configured endpoint.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &OpenRouterClient{cfg: cfg, httpClient: httpClient}
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []completionMessage `json:"messages"`
	Temperature float32             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the messages and returns the first choice. A response without
// choices yields an assistant message with empty content.
func (c *OpenRouterClient) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	temperature, maxTokens, modelName := c.cfg.Temperature, c.cfg.MaxTokens, c.cfg.Model
	options := model.GetCommonOptions(&model.Options{
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		Model:       &modelName,
	}, opts...)

	payload := completionRequest{
		Model:       *options.Model,
		Messages:    make([]completionMessage, 0, len(input)),
		Temperature: *options.Temperature,
		MaxTokens:   *options.MaxTokens,
	}
	for _, msg := range input {
		if msg == nil {
			continue
		}
		payload.Messages = append(payload.Messages, completionMessage{Role: string(msg.Role), Content: msg.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AppTitle != "" {
		req.Header.Set("X-Title", c.cfg.AppTitle)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var decoded completionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(raw), Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(decoded.Choices) == 0 {
		return schema.AssistantMessage("", nil), nil
	}
	return schema.AssistantMessage(decoded.Choices[0].Message.Content, nil), nil
}

// Stream is not offered by this client; replies are delivered whole.
func (c *OpenRouterClient) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, ErrStreamingUnsupported
}
