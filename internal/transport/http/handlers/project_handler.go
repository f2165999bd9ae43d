package handlers

import (
	"net/http"

	"github.com/alankrit98/DevLog/internal/service"
	"github.com/alankrit98/DevLog/internal/transport/http/middleware"
	"github.com/alankrit98/DevLog/pkg/validator"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	socialService  *service.SocialService
	logger         *zap.Logger
}

func NewProjectHandler(projectService *service.ProjectService, socialService *service.SocialService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		socialService:  socialService,
		logger:         logger,
	}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, h.logger, "list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "get project", err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.CreateProjectInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if errs := validator.Struct(input); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	project, err := h.projectService.Create(r.Context(), userID, input)
	if err != nil {
		writeServiceError(w, h.logger, "create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	var input service.UpdateProjectInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if errs := validator.Struct(input); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	project, err := h.projectService.Update(r.Context(), userID, id, input)
	if err != nil {
		writeServiceError(w, h.logger, "update project", err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.logger, "delete project", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project removed"})
}

// ToggleLike responds with the project's updated likes.
func (h *ProjectHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	likes, err := h.socialService.ToggleLike(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, h.logger, "toggle like", err)
		return
	}
	writeJSON(w, http.StatusOK, likes)
}
