package handlers

import (
	"net/http"

	"github.com/alankrit98/DevLog/internal/service"
	"github.com/alankrit98/DevLog/internal/transport/http/middleware"
	"github.com/alankrit98/DevLog/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentHandler struct {
	socialService *service.SocialService
	logger        *zap.Logger
}

func NewCommentHandler(socialService *service.SocialService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{socialService: socialService, logger: logger}
}

type addCommentRequest struct {
	ProjectID uuid.UUID `json:"projectId" validate:"required"`
	Text      string    `json:"text" validate:"required"`
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectId", "project")
	if !ok {
		return
	}

	comments, err := h.socialService.ListComments(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, h.logger, "list comments", err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req addCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validator.Struct(req); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	comment, err := h.socialService.AddComment(r.Context(), userID, req.ProjectID, req.Text)
	if err != nil {
		writeServiceError(w, h.logger, "add comment", err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
