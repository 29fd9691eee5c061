package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/persona-chat/backend/internal/config"
)

// Turn is one entry of the conversation replayed to the model.
type Turn struct {
	Role    string
	Content string
}

// Service relays a persona conversation to the configured chat model.
type Service struct {
	chatModel model.BaseChatModel
	template  prompt.ChatTemplate
	logger    *zap.Logger
}

// NewService builds the relay for the configured provider. Without credentials the
// relay is still returned and every Complete call fails with ErrNotConfigured.
func NewService(ctx context.Context, cfg config.RelayConfig, logger *zap.Logger) (*Service, error) {
	if !cfg.Enabled() {
		return New(nil, logger), nil
	}

	var chatModel model.BaseChatModel
	switch cfg.Provider {
	case config.ProviderArk:
		arkModel, err := cfg.NewArkChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		chatModel = arkModel
	default:
		chatModel = NewOpenRouterClient(OpenRouterConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			AppTitle:    cfg.AppTitle,
			Temperature: float32(cfg.Temperature),
			MaxTokens:   cfg.MaxTokens,
		})
	}

	return New(chatModel, logger), nil
}

// New wraps an existing chat model. A nil model yields an unconfigured relay.
func New(chatModel model.BaseChatModel, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
	)

	return &Service{
		chatModel: chatModel,
		template:  promptTemplate,
		logger:    logger.Named("ai"),
	}
}

// Enabled reports whether a chat model is available.
func (s *Service) Enabled() bool {
	return s != nil && s.chatModel != nil
}

// Complete sends the system prompt followed by the full history and returns the
// reply text. An answer without content is replaced by FallbackNoReply; transport
// and status failures are returned as *UpstreamError.
func (s *Service) Complete(ctx context.Context, history []Turn, systemPrompt string) (string, error) {
	if !s.Enabled() {
		return "", ErrNotConfigured
	}

	messages, err := s.template.Format(ctx, map[string]any{
		"system":  systemPrompt,
		"history": buildHistoryMessages(history),
	})
	if err != nil {
		return "", fmt.Errorf("failed to format prompt: %w", err)
	}

	reply, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) || errors.Is(err, ErrNotConfigured) {
			return "", err
		}
		return "", &UpstreamError{Err: err}
	}

	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		s.logger.Warn("completion returned no content", zap.Int("turns", len(history)))
		return FallbackNoReply, nil
	}

	s.logger.Debug("completion received", zap.Int("turns", len(history)), zap.Int("length", len(reply.Content)))
	return reply.Content, nil
}

func buildHistoryMessages(turns []Turn) []*schema.Message {
	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case string(schema.User):
			history = append(history, schema.UserMessage(turn.Content))
		case string(schema.Assistant):
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		default:
			history = append(history, &schema.Message{Role: schema.RoleType(turn.Role), Content: turn.Content})
		}
	}
	return history
}
