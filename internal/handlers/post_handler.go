package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/feedloom/feedloom/internal/httputil"
	"github.com/feedloom/feedloom/internal/logging"
	"github.com/feedloom/feedloom/internal/middleware"
	"github.com/feedloom/feedloom/internal/models"
	"github.com/feedloom/feedloom/internal/repository"
	"github.com/feedloom/feedloom/internal/service"
)

type PostHandler struct {
	service *service.PostService
	logger  *logging.Logger
}

func NewPostHandler(service *service.PostService, logger *logging.Logger) *PostHandler {
	return &PostHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.Text == "" {
		httputil.WriteError(w, http.StatusBadRequest, "title and text are required")
		return
	}

	post, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.logger.WithContext(r.Context()).Error("failed to create post", logging.Error(err), logging.UserID(userID))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// List returns all posts, newest first, optionally filtered with
// ?userId=.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	var posts []*models.Post
	var err error

	if userID := r.URL.Query().Get("userId"); userID != "" {
		posts, err = h.service.ListByUser(r.Context(), userID)
	} else {
		posts, err = h.service.List(r.Context())
	}
	if err != nil {
		h.logger.WithContext(r.Context()).Error("failed to list posts", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.PostListResponse{
		Status: "success",
		Count:  len(posts),
		Data:   posts,
	})
}

func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	posts, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.WithContext(r.Context()).Error("failed to list user posts", logging.Error(err), logging.UserID(userID))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.PostListResponse{
		Status: "success",
		Count:  len(posts),
		Data:   posts,
	})
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.WithContext(r.Context()).Error("failed to get post", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to get post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.Text == "" {
		httputil.WriteError(w, http.StatusBadRequest, "title and text are required")
		return
	}

	post, err := h.service.Update(r.Context(), userID, r.PathValue("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			httputil.WriteError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrNotOwner):
			httputil.WriteError(w, http.StatusForbidden, "you can only edit your own posts")
		default:
			h.logger.WithContext(r.Context()).Error("failed to update post", logging.Error(err), logging.UserID(userID))
			httputil.WriteError(w, http.StatusInternalServerError, "failed to update post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			httputil.WriteError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrNotOwner):
			httputil.WriteError(w, http.StatusForbidden, "you can only delete your own posts")
		default:
			h.logger.WithContext(r.Context()).Error("failed to delete post", logging.Error(err), logging.UserID(userID))
			httputil.WriteError(w, http.StatusInternalServerError, "failed to delete post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
