package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatService "github.com/soulnest/soulnest/backend/internal/service/chat"
	"github.com/soulnest/soulnest/backend/pkg/utils"
)

// Handler serves chat and conversation history endpoints.
type Handler struct {
	chatSvc *chatService.Service
	logger  *zap.Logger
}

// New creates the chat handler.
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger,
	}
}

// RegisterRoutes mounts the chat routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/conversations", h.handleListConversations)
	r.Get("/conversations/{conversationID}/messages", h.handleListMessages)
}

type chatRequest struct {
	Message        *string `json:"message" validate:"required"`
	ConversationID *string `json:"conversation_id"`
	UserID         *string `json:"user_id"`
}

func (p chatRequest) toSendRequest() chatService.SendRequest {
	req := chatService.SendRequest{Message: *p.Message}
	if p.ConversationID != nil {
		req.ConversationID = *p.ConversationID
	}
	if p.UserID != nil {
		req.UserID = *p.UserID
	}
	return req
}

// handleChat stores the message pair and returns the reply.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.chatSvc.SendMessage(r.Context(), payload.toSendRequest())
	if err != nil {
		h.logger.Error("chat failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.chatSvc.ListConversations(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.logger.Error("list conversations failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, conversations)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	messages, err := h.chatSvc.ListMessages(r.Context(), conversationID)
	if err != nil {
		h.logger.Error("list messages failed", zap.String("conversation_id", conversationID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}
