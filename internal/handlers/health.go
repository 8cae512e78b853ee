package handlers

import (
	"net/http"

	"github.com/feedloom/feedloom/internal/httputil"
)

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
