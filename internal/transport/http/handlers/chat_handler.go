package handlers

import (
	"net/http"

	"github.com/alankrit98/DevLog/internal/service"
	"github.com/alankrit98/DevLog/internal/transport/http/middleware"
	"github.com/alankrit98/DevLog/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, logger: logger}
}

type sendMessageRequest struct {
	Receiver uuid.UUID `json:"receiver" validate:"required"`
	Content  string    `json:"content" validate:"required"`
}

func (h *ChatHandler) Mutuals(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	partners, err := h.chatService.ListConversationPartners(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "list mutuals", err)
		return
	}
	writeJSON(w, http.StatusOK, partners)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	otherID, ok := pathID(w, r, "userId", "user")
	if !ok {
		return
	}

	msgs, err := h.chatService.GetHistory(r.Context(), userID, otherID)
	if err != nil {
		writeServiceError(w, h.logger, "chat history", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validator.Struct(req); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	msg, err := h.chatService.SendMessage(r.Context(), userID, req.Receiver, req.Content)
	if err != nil {
		writeServiceError(w, h.logger, "send message", err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
