package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/persona-chat/backend/internal/model/persona"
	chatService "github.com/zhouzirui/persona-chat/backend/internal/service/chat"
	"github.com/zhouzirui/persona-chat/backend/pkg/utils"
)

// Handler persona服务的HTTP处理器
type Handler struct {
	personas persona.Store
	chatSvc  *chatService.Service
}

// New 创建persona处理器
func New(personas persona.Store, chatSvc *chatService.Service) *Handler {
	return &Handler{
		personas: personas,
		chatSvc:  chatSvc,
	}
}

// RegisterRoutes 注册persona相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
	r.Get("/personas/{id}", h.handleGetPersona)
	r.Get("/personas/{id}/sessions", h.handleListPersonaSessions)
}

// handleListPersonas 列出所有启用的persona
func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.personas.List())
}

// handleGetPersona 获取单个persona
func (h *Handler) handleGetPersona(w http.ResponseWriter, r *http.Request) {
	p, ok := h.personas.FindByID(chi.URLParam(r, "id"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Persona not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

// handleListPersonaSessions 列出与该persona建立的会话
func (h *Handler) handleListPersonaSessions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.personas.FindByID(id); !ok {
		utils.RespondError(w, http.StatusNotFound, "Persona not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.ListSessionsByPersona(r.Context(), id))
}
