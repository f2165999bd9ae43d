package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alankrit98/DevLog/internal/service"
	"github.com/alankrit98/DevLog/internal/storage"
	"github.com/alankrit98/DevLog/internal/transport/http/middleware"
	"github.com/alankrit98/DevLog/pkg/validator"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService   *service.UserService
	socialService *service.SocialService
	logger        *zap.Logger
}

func NewUserHandler(userService *service.UserService, socialService *service.SocialService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService:   userService,
		socialService: socialService,
		logger:        logger,
	}
}

type profileView struct {
	*service.ProfileResponse
	FollowedByMe bool `json:"followedByMe"`
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "get profile", err)
		return
	}

	view := profileView{ProfileResponse: profile}
	if viewer, ok := middleware.LookupUserID(r.Context()); ok {
		for _, f := range profile.User.Followers {
			if f == viewer {
				view.FollowedByMe = true
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateProfile accepts JSON or multipart form data; the multipart form may
// carry an avatar file.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var (
		input  service.UpdateProfileInput
		upload *service.AvatarUpload
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, storage.MaxAvatarSize+maxJSONBody)
		if err := r.ParseMultipartForm(storage.MaxAvatarSize); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		input.Bio = formValue(r, "bio")
		input.Skills = formValue(r, "skills")
		input.Avatar = formValue(r, "avatar")

		file, header, err := r.FormFile("avatar")
		switch {
		case err == nil:
			defer file.Close()
			upload = &service.AvatarUpload{Filename: header.Filename, Content: file}
		case !errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid avatar file")
			return
		}
	} else if !decodeJSON(w, r, &input) {
		return
	}

	if errs := validator.Struct(input); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, input, upload)
	if err != nil {
		writeServiceError(w, h.logger, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	if err := h.socialService.Follow(r.Context(), userID, targetID); err != nil {
		writeServiceError(w, h.logger, "follow", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User followed"})
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	if err := h.socialService.Unfollow(r.Context(), userID, targetID); err != nil {
		writeServiceError(w, h.logger, "unfollow", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User unfollowed"})
}

// formValue returns nil when the field was not sent at all.
func formValue(r *http.Request, key string) *string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
