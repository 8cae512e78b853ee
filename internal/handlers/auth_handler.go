package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/feedloom/feedloom/internal/httputil"
	"github.com/feedloom/feedloom/internal/logging"
	"github.com/feedloom/feedloom/internal/models"
	"github.com/feedloom/feedloom/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
	logger  *logging.Logger
}

func NewAuthHandler(service *service.AuthService, logger *logging.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if err == service.ErrDuplicateUser {
			httputil.WriteError(w, http.StatusBadRequest, "email or username already in use")
			return
		}
		h.logger.WithContext(r.Context()).Error("registration failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			// One message for bad email and bad password: do not
			// reveal which accounts exist.
			httputil.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.WithContext(r.Context()).Error("login failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		httputil.WriteError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		if err == service.ErrInvalidToken {
			httputil.WriteError(w, http.StatusBadRequest, "invalid refresh token")
			return
		}
		h.logger.WithContext(r.Context()).Error("logout failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		httputil.WriteError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if err == service.ErrInvalidToken {
			httputil.WriteError(w, http.StatusForbidden, "invalid refresh token")
			return
		}
		h.logger.WithContext(r.Context()).Error("token refresh failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to refresh token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
