package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/persona-chat/backend/internal/model/chat"
	"github.com/zhouzirui/persona-chat/backend/internal/model/persona"
	aiService "github.com/zhouzirui/persona-chat/backend/internal/service/ai"
	chatService "github.com/zhouzirui/persona-chat/backend/internal/service/chat"
	"github.com/zhouzirui/persona-chat/backend/pkg/utils"
)

// Relay produces the assistant reply for a conversation.
type Relay interface {
	Complete(ctx context.Context, history []aiService.Turn, systemPrompt string) (string, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc      *chatService.Service
	personaStore persona.Store
	relay        Relay
	logger       *zap.Logger
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, personaStore persona.Store, relay Relay, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc:      chatSvc,
		personaStore: personaStore,
		relay:        relay,
		logger:       logger.Named("chat"),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chat/sessions", func(r chi.Router) {
		r.Post("/", h.handleCreateSession)
		r.Get("/{sessionID}", h.handleGetSession)
		r.Get("/{sessionID}/messages", h.handleListMessages)
		r.Post("/{sessionID}/messages", h.handleSendMessage)
	})
}

type createSessionRequest struct {
	PersonaID *string `json:"personaId"`
	UserID    *string `json:"userId"`
}

type sendMessageRequest struct {
	Content *string `json:"content"`
}

// SendMessageResponse pairs the stored user turn with the stored reply.
type SendMessageResponse struct {
	UserMessage chat.Message `json:"userMessage"`
	AIMessage   chat.Message `json:"aiMessage"`
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload createSessionRequest
	if errs := utils.DecodeJSON(r, &payload); errs != nil {
		utils.RespondValidation(w, errs)
		return
	}

	if payload.PersonaID == nil || strings.TrimSpace(*payload.PersonaID) == "" {
		utils.RespondValidation(w, []utils.FieldError{{Field: "personaId", Message: "personaId is required"}})
		return
	}

	p, ok := h.personaStore.FindByID(*payload.PersonaID)
	if !ok || !p.IsActive {
		utils.RespondError(w, http.StatusNotFound, "Persona not found")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), p.ID, payload.UserID)
	if err != nil {
		h.internalError(w, "Failed to create chat session", err)
		return
	}

	h.logger.Info("session created", zap.String("session_id", session.ID), zap.String("persona_id", p.ID))
	utils.RespondJSON(w, http.StatusOK, session)
}

// handleGetSession 获取会话
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.sessionError(w, "Failed to fetch chat session", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

// handleListMessages 按时间顺序返回会话消息
func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatSvc.ListMessages(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.sessionError(w, "Failed to fetch messages", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

// handleSendMessage 保存用户消息，调用模型并保存回复
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.chatSvc.GetSession(ctx, sessionID)
	if err != nil {
		h.sessionError(w, "Failed to send message", err)
		return
	}

	p, ok := h.personaStore.FindByID(session.PersonaID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Persona not found")
		return
	}

	var payload sendMessageRequest
	if errs := utils.DecodeJSON(r, &payload); errs != nil {
		utils.RespondValidation(w, errs)
		return
	}
	if payload.Content == nil || strings.TrimSpace(*payload.Content) == "" {
		utils.RespondValidation(w, []utils.FieldError{{Field: "content", Message: "content is required"}})
		return
	}

	userMessage, err := h.chatSvc.AppendMessage(ctx, session.ID, chat.RoleUser, *payload.Content)
	if err != nil {
		h.sessionError(w, "Failed to send message", err)
		return
	}

	history, err := h.chatSvc.ListMessages(ctx, session.ID)
	if err != nil {
		h.sessionError(w, "Failed to send message", err)
		return
	}

	log := h.logger.With(zap.String("session_id", session.ID), zap.String("persona_id", p.ID))

	reply, err := h.complete(ctx, history, p)
	if err != nil {
		switch {
		case errors.Is(err, aiService.ErrNotConfigured):
			log.Warn("completion API not configured, storing fallback reply")
		default:
			log.Error("completion failed, storing fallback reply", zap.Error(err))
		}
		reply = aiService.FallbackUnavailable
	}

	aiMessage, err := h.chatSvc.AppendMessage(ctx, session.ID, chat.RoleAssistant, reply)
	if err != nil {
		h.sessionError(w, "Failed to send message", err)
		return
	}

	log.Info("message exchanged", zap.Int("history", len(history)), zap.Int("reply_length", len(reply)))
	utils.RespondJSON(w, http.StatusOK, SendMessageResponse{UserMessage: userMessage, AIMessage: aiMessage})
}

func (h *Handler) complete(ctx context.Context, history []chat.Message, p persona.Persona) (string, error) {
	if h.relay == nil {
		return "", aiService.ErrNotConfigured
	}

	turns := make([]aiService.Turn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, aiService.Turn{Role: string(msg.Role), Content: msg.Content})
	}
	return h.relay.Complete(ctx, turns, aiService.SystemPrompt(p))
}

// sessionError maps chat service failures to responses.
func (h *Handler) sessionError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, chatService.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, "Chat session not found")
		return
	}
	h.internalError(w, message, err)
}

func (h *Handler) internalError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, zap.Error(err))
	utils.RespondError(w, http.StatusInternalServerError, message)
}
