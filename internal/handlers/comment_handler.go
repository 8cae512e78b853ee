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

type CommentHandler struct {
	service *service.CommentService
	logger  *logging.Logger
}

func NewCommentHandler(service *service.CommentService, logger *logging.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.PostID == "" || req.Content == "" {
		httputil.WriteError(w, http.StatusBadRequest, "postId and content are required")
		return
	}

	comment, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.WithContext(r.Context()).Error("failed to create comment", logging.Error(err), logging.UserID(userID))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "comment not found")
			return
		}
		h.logger.WithContext(r.Context()).Error("failed to get comment", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to get comment")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("postId")

	comments, err := h.service.ListByPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.WithContext(r.Context()).Error("failed to list comments", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}

	if comments == nil {
		comments = []*models.Comment{}
	}
	httputil.WriteJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Content == "" {
		httputil.WriteError(w, http.StatusBadRequest, "content is required")
		return
	}

	comment, err := h.service.Update(r.Context(), userID, r.PathValue("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCommentNotFound):
			httputil.WriteError(w, http.StatusNotFound, "comment not found")
		case errors.Is(err, service.ErrNotOwner):
			httputil.WriteError(w, http.StatusForbidden, "you can only edit your own comments")
		default:
			h.logger.WithContext(r.Context()).Error("failed to update comment", logging.Error(err), logging.UserID(userID))
			httputil.WriteError(w, http.StatusInternalServerError, "failed to update comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		switch {
		case errors.Is(err, repository.ErrCommentNotFound):
			httputil.WriteError(w, http.StatusNotFound, "comment not found")
		case errors.Is(err, service.ErrNotOwner):
			httputil.WriteError(w, http.StatusForbidden, "you can only delete your own comments")
		default:
			h.logger.WithContext(r.Context()).Error("failed to delete comment", logging.Error(err), logging.UserID(userID))
			httputil.WriteError(w, http.StatusInternalServerError, "failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
