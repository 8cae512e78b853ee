package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feedloom/feedloom/internal/handlers"
	"github.com/feedloom/feedloom/internal/middleware"
)

// NewRouter constructs the HTTP routing table. Auth endpoints are
// public; every posts/comments route requires a bearer access token.
func NewRouter(
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	commentHandler *handlers.CommentHandler,
	authMW *middleware.AuthMiddleware,
) http.Handler {
	mux := http.NewServeMux()

	// Authentication endpoints
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /auth/refresh", authHandler.Refresh)

	// Posts
	mux.HandleFunc("GET /posts", authMW.RequireAuth(postHandler.List))
	mux.HandleFunc("GET /posts/{id}", authMW.RequireAuth(postHandler.Get))
	mux.HandleFunc("GET /posts/user/{userId}", authMW.RequireAuth(postHandler.ListByUser))
	mux.HandleFunc("POST /posts", authMW.RequireAuth(postHandler.Create))
	mux.HandleFunc("PUT /posts/{id}", authMW.RequireAuth(postHandler.Update))
	mux.HandleFunc("DELETE /posts/{id}", authMW.RequireAuth(postHandler.Delete))

	// Comments
	mux.HandleFunc("GET /comments/{id}", authMW.RequireAuth(commentHandler.Get))
	mux.HandleFunc("GET /comments/post/{postId}", authMW.RequireAuth(commentHandler.ListByPost))
	mux.HandleFunc("POST /comments", authMW.RequireAuth(commentHandler.Create))
	mux.HandleFunc("PUT /comments/{id}", authMW.RequireAuth(commentHandler.Update))
	mux.HandleFunc("DELETE /comments/{id}", authMW.RequireAuth(commentHandler.Delete))

	// Operational endpoints
	mux.HandleFunc("GET /healthz", handlers.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.RequestID(middleware.CORS(middleware.DefaultCORSConfig())(middleware.Metrics(mux)))
}
