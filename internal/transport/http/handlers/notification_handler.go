package handlers

import (
	"net/http"

	"github.com/alankrit98/DevLog/internal/service"
	"github.com/alankrit98/DevLog/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, logger: logger}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	list, err := h.notificationService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "list notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	n, err := h.notificationService.UnreadCount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "count notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread": n})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	n, err := h.notificationService.MarkAllRead(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "mark notifications read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Notifications marked as read", "updated": n})
}
