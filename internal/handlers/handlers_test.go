package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/feedloom/feedloom/internal/config"
	"github.com/feedloom/feedloom/internal/handlers"
	"github.com/feedloom/feedloom/internal/logging"
	"github.com/feedloom/feedloom/internal/middleware"
	"github.com/feedloom/feedloom/internal/models"
	"github.com/feedloom/feedloom/internal/repository"
	"github.com/feedloom/feedloom/internal/server"
	"github.com/feedloom/feedloom/internal/service"
)

type testEnv struct {
	router http.Handler
	repo   *repository.InMemoryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := repository.NewInMemoryRepository()
	return &testEnv{router: newTestRouter(t, repo), repo: repo}
}

func newTestRouter(t *testing.T, repo repository.Repository) http.Handler {
	t.Helper()

	authCfg := &config.AuthConfig{
		AccessSecret:    "test-access-secret-long-enough",
		RefreshSecret:   "test-refresh-secret-long-enough",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
	}

	authService, err := service.NewAuthService(repo, authCfg)
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}

	logger := logging.New(slog.LevelError, "text")
	return server.NewRouter(
		handlers.NewAuthHandler(authService, logger),
		handlers.NewPostHandler(service.NewPostService(repo), logger),
		handlers.NewCommentHandler(service.NewCommentService(repo), logger),
		middleware.NewAuthMiddleware(authService),
	)
}

func (e *testEnv) do(t *testing.T, method, path, accessToken string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return out
}

func (e *testEnv) register(t *testing.T, username, email, password string) models.RegisterResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decode[models.RegisterResponse](t, w)
}

func (e *testEnv) login(t *testing.T, email, password string) models.TokenResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{
		Email:    email,
		Password: password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return decode[models.TokenResponse](t, w)
}

// ============================================================================
// Registration Tests
// ============================================================================

func TestRegister(t *testing.T) {
	t.Run("returns identity and token pair", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.register(t, "alice", "alice@example.com", "password123")

		if resp.ID == "" {
			t.Error("Expected user ID in response")
		}
		if resp.Username != "alice" {
			t.Errorf("Expected username alice, got %s", resp.Username)
		}
		if resp.Email != "alice@example.com" {
			t.Errorf("Expected email alice@example.com, got %s", resp.Email)
		}
		if resp.AccessToken == "" || resp.RefreshToken == "" {
			t.Error("Expected both tokens in response")
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "alice", "alice@example.com", "password123")

		w := env.do(t, http.MethodPost, "/auth/register", "", models.RegisterRequest{
			Username: "alice2",
			Email:    "alice@example.com",
			Password: "different",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "alice", "alice@example.com", "password123")

		w := env.do(t, http.MethodPost, "/auth/register", "", models.RegisterRequest{
			Username: "alice",
			Email:    "other@example.com",
			Password: "different",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		env := newTestEnv(t)

		tests := []struct {
			name string
			req  models.RegisterRequest
		}{
			{"missing username", models.RegisterRequest{Email: "a@example.com", Password: "pw"}},
			{"missing email", models.RegisterRequest{Username: "a", Password: "pw"}},
			{"missing password", models.RegisterRequest{Username: "a", Email: "a@example.com"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := env.do(t, http.MethodPost, "/auth/register", "", tt.req)
				if w.Code != http.StatusBadRequest {
					t.Errorf("Expected 400, got %d", w.Code)
				}
			})
		}
	})

	t.Run("password hash never leaves the server", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/auth/register", "", models.RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "password123",
		})

		if bytes.Contains(w.Body.Bytes(), []byte("password")) {
			t.Error("Response body must not contain password material")
		}
	})
}

// ============================================================================
// Login Tests
// ============================================================================

func TestLogin(t *testing.T) {
	t.Run("valid credentials return token pair", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "alice", "alice@example.com", "password123")

		resp := env.login(t, "alice@example.com", "password123")
		if resp.AccessToken == "" || resp.RefreshToken == "" {
			t.Error("Expected both tokens in response")
		}
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "alice", "alice@example.com", "password123")

		wrongPw := env.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{
			Email: "alice@example.com", Password: "wrong",
		})
		unknown := env.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{
			Email: "nobody@example.com", Password: "password123",
		})

		if wrongPw.Code != http.StatusUnauthorized {
			t.Errorf("Wrong password: expected 401, got %d", wrongPw.Code)
		}
		if unknown.Code != http.StatusUnauthorized {
			t.Errorf("Unknown email: expected 401, got %d", unknown.Code)
		}
		if wrongPw.Body.String() != unknown.Body.String() {
			t.Error("Failure responses should not reveal which accounts exist")
		}
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: "a@example.com"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("two logins yield distinct sessions", func(t *testing.T) {
		env := newTestEnv(t)
		reg := env.register(t, "alice", "alice@example.com", "password123")

		first := env.login(t, "alice@example.com", "password123")
		second := env.login(t, "alice@example.com", "password123")

		if first.RefreshToken == second.RefreshToken {
			t.Error("Expected distinct refresh tokens for separate logins")
		}

		user, err := env.repo.GetUserByID(t.Context(), reg.ID)
		if err != nil {
			t.Fatalf("Failed to load user: %v", err)
		}
		// Registration token plus two logins.
		if len(user.RefreshTokens) != 3 {
			t.Errorf("Expected 3 ledger entries, got %d", len(user.RefreshTokens))
		}
	})
}

// ============================================================================
// Refresh Tests
// ============================================================================

func TestRefresh(t *testing.T) {
	t.Run("valid refresh rotates the token", func(t *testing.T) {
		env := newTestEnv(t)
		reg := env.register(t, "alice", "alice@example.com", "password123")

		w := env.do(t, http.MethodPost, "/auth/refresh", "", models.RefreshTokenRequest{
			RefreshToken: reg.RefreshToken,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		resp := decode[models.TokenResponse](t, w)
		if resp.RefreshToken == reg.RefreshToken {
			t.Error("Expected a new refresh token")
		}

		user, _ := env.repo.GetUserByID(t.Context(), reg.ID)
		if user.HasRefreshToken(reg.RefreshToken) {
			t.Error("Consumed token should be removed from the ledger")
		}
		if !user.HasRefreshToken(resp.RefreshToken) {
			t.Error("New token should be in the ledger")
		}
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/auth/refresh", "", models.RefreshTokenRequest{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("garbage token is forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/auth/refresh", "", models.RefreshTokenRequest{
			RefreshToken: "not-a-real-token",
		})
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", w.Code)
		}
	})

	t.Run("reuse revokes every session", func(t *testing.T) {
		env := newTestEnv(t)
		reg := env.register(t, "alice", "alice@example.com", "password123")
		other := env.login(t, "alice@example.com", "password123")

		// First use succeeds.
		w := env.do(t, http.MethodPost, "/auth/refresh", "", models.RefreshTokenRequest{
			RefreshToken: reg.RefreshToken,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("First refresh: expected 200, got %d", w.Code)
		}
		rotated := decode[models.TokenResponse](t, w)

		// Replaying the consumed token is a reuse signal.
		w = env.do(t, http.MethodPost, "/auth/refresh", "", models.RefreshTokenRequest{
			RefreshToken: reg.RefreshToken,
		})
		if w.Code != http.StatusForbidden {
			t.Fatalf("Reuse: expected 403, got %d", w.Code)
		}

		user, _ := env.repo.GetUserByID(t.Context(), reg.ID)
		if len(user.RefreshTokens) != 0 {
			t.Errorf("Expected empty ledger after reuse, got %d entries", len(user.RefreshTokens))
		}

		// Every other session is dead too, including still-unused ones.
		for name, token := range map[string]string{
			"rotated token":       rotated.RefreshToken,
			"other login session": other.RefreshToken,
		} {
			w = env.do(t, http.MethodPost, "/auth/refresh", "", models.RefreshTokenRequest{
				RefreshToken: token,
			})
			if w.Code != http.StatusForbidden {
				t.Errorf("%s: expected 403 after revocation, got %d", name, w.Code)
			}
		}

		// Revocation empties the refresh ledger only; an outstanding
		// access token keeps passing the middleware until it expires.
		w = env.do(t, http.MethodGet, "/posts", reg.AccessToken, nil)
		if w.Code != http.StatusOK {
			t.Errorf("Access token after revocation: expected 200, got %d", w.Code)
		}
	})
}

// ============================================================================
// Logout Tests
// ============================================================================

func TestLogout(t *testing.T) {
	t.Run("removes only the presented session", func(t *testing.T) {
		env := newTestEnv(t)
		reg := env.register(t, "alice", "alice@example.com", "password123")
		other := env.login(t, "alice@example.com", "password123")

		w := env.do(t, http.MethodPost, "/auth/logout", "", models.RefreshTokenRequest{
			RefreshToken: reg.RefreshToken,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		user, _ := env.repo.GetUserByID(t.Context(), reg.ID)
		if user.HasRefreshToken(reg.RefreshToken) {
			t.Error("Logged-out token should be removed from the ledger")
		}
		if !user.HasRefreshToken(other.RefreshToken) {
			t.Error("Other sessions should survive a logout")
		}
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/auth/logout", "", models.RefreshTokenRequest{
			RefreshToken: "never-issued",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/auth/logout", "", models.RefreshTokenRequest{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("storage failure is a server error", func(t *testing.T) {
		repo := &brokenTokenLookupRepo{Repository: repository.NewInMemoryRepository()}
		env := &testEnv{router: newTestRouter(t, repo)}

		w := env.do(t, http.MethodPost, "/auth/logout", "", models.RefreshTokenRequest{
			RefreshToken: "any-token",
		})
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}

// brokenTokenLookupRepo simulates a storage outage on the logout path.
type brokenTokenLookupRepo struct {
	repository.Repository
}

func (r *brokenTokenLookupRepo) GetUserByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return nil, errors.New("storage offline")
}

// ============================================================================
// Post Tests
// ============================================================================

func TestPosts(t *testing.T) {
	t.Run("every route requires a token", func(t *testing.T) {
		env := newTestEnv(t)

		for _, tt := range []struct {
			method string
			path   string
		}{
			{http.MethodPost, "/posts"},
			{http.MethodGet, "/posts"},
			{http.MethodGet, "/posts/some-id"},
		} {
			w := env.do(t, tt.method, tt.path, "", nil)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("%s %s: expected 401, got %d", tt.method, tt.path, w.Code)
			}
		}
	})

	t.Run("create and fetch", func(t *testing.T) {
		env := newTestEnv(t)
		reg := env.register(t, "alice", "alice@example.com", "password123")

		w := env.do(t, http.MethodPost, "/posts", reg.AccessToken, models.CreatePostRequest{
			Title: "Hello", Text: "World",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		post := decode[models.Post](t, w)

		if post.UserID != reg.ID {
			t.Errorf("Expected owner %s, got %s", reg.ID, post.UserID)
		}

		w = env.do(t, http.MethodGet, "/posts/"+post.ID, reg.AccessToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		fetched := decode[models.Post](t, w)
		if fetched.Title != "Hello" || fetched.Text != "World" {
			t.Errorf("Unexpected post content: %+v", fetched)
		}
	})

	t.Run("missing title or text is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		reg := env.register(t, "alice", "alice@example.com", "password123")

		w := env.do(t, http.MethodPost, "/posts", reg.AccessToken, models.CreatePostRequest{Title: "No text"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("list returns newest first", func(t *testing.T) {
		env := newTestEnv(t)
		reg := env.register(t, "alice", "alice@example.com", "password123")

		for _, title := range []string{"first", "second", "third"} {
			w := env.do(t, http.MethodPost, "/posts", reg.AccessToken, models.CreatePostRequest{
				Title: title, Text: "body",
			})
			if w.Code != http.StatusCreated {
				t.Fatalf("Expected 201, got %d", w.Code)
			}
			time.Sleep(2 * time.Millisecond)
		}

		w := env.do(t, http.MethodGet, "/posts", reg.AccessToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		resp := decode[models.PostListResponse](t, w)

		if resp.Count != 3 {
			t.Fatalf("Expected 3 posts, got %d", resp.Count)
		}
		if resp.Data[0].Title != "third" || resp.Data[2].Title != "first" {
			t.Errorf("Posts not in newest-first order: %s, %s, %s",
				resp.Data[0].Title, resp.Data[1].Title, resp.Data[2].Title)
		}
	})

	t.Run("list by user filters by owner", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.register(t, "alice", "alice@example.com", "password123")
		bob := env.register(t, "bob", "bob@example.com", "password123")

		env.do(t, http.MethodPost, "/posts", alice.AccessToken, models.CreatePostRequest{Title: "a", Text: "x"})
		env.do(t, http.MethodPost, "/posts", bob.AccessToken, models.CreatePostRequest{Title: "b", Text: "y"})

		for _, path := range []string{"/posts/user/" + alice.ID, "/posts?userId=" + alice.ID} {
			w := env.do(t, http.MethodGet, path, bob.AccessToken, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("GET %s: expected 200, got %d", path, w.Code)
			}
			resp := decode[models.PostListResponse](t, w)
			if resp.Count != 1 || resp.Data[0].UserID != alice.ID {
				t.Errorf("GET %s: expected only alice's post, got %+v", path, resp)
			}
		}
	})

	t.Run("unknown post is 404", func(t *testing.T) {
		env := newTestEnv(t)
		reg := env.register(t, "alice", "alice@example.com", "password123")

		w := env.do(t, http.MethodGet, "/posts/no-such-post", reg.AccessToken, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("only the owner may update", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.register(t, "alice", "alice@example.com", "password123")
		bob := env.register(t, "bob", "bob@example.com", "password123")

		w := env.do(t, http.MethodPost, "/posts", alice.AccessToken, models.CreatePostRequest{
			Title: "Mine", Text: "Original",
		})
		post := decode[models.Post](t, w)

		w = env.do(t, http.MethodPut, "/posts/"+post.ID, bob.AccessToken, models.UpdatePostRequest{
			Title: "Stolen", Text: "Hijacked",
		})
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for non-owner update, got %d", w.Code)
		}

		w = env.do(t, http.MethodPut, "/posts/"+post.ID, alice.AccessToken, models.UpdatePostRequest{
			Title: "Edited", Text: "Updated",
		})
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for owner update, got %d", w.Code)
		}
	})

	t.Run("only the owner may delete", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.register(t, "alice", "alice@example.com", "password123")
		bob := env.register(t, "bob", "bob@example.com", "password123")

		w := env.do(t, http.MethodPost, "/posts", alice.AccessToken, models.CreatePostRequest{
			Title: "Mine", Text: "Body",
		})
		post := decode[models.Post](t, w)

		w = env.do(t, http.MethodDelete, "/posts/"+post.ID, bob.AccessToken, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for non-owner delete, got %d", w.Code)
		}

		w = env.do(t, http.MethodDelete, "/posts/"+post.ID, alice.AccessToken, nil)
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for owner delete, got %d", w.Code)
		}

		w = env.do(t, http.MethodGet, "/posts/"+post.ID, alice.AccessToken, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 after delete, got %d", w.Code)
		}
	})
}

// ============================================================================
// Comment Tests
// ============================================================================

func TestComments(t *testing.T) {
	setup := func(t *testing.T) (*testEnv, models.RegisterResponse, models.Post) {
		env := newTestEnv(t)
		reg := env.register(t, "alice", "alice@example.com", "password123")
		w := env.do(t, http.MethodPost, "/posts", reg.AccessToken, models.CreatePostRequest{
			Title: "Post", Text: "Body",
		})
		return env, reg, decode[models.Post](t, w)
	}

	t.Run("create attaches to the post", func(t *testing.T) {
		env, reg, post := setup(t)

		w := env.do(t, http.MethodPost, "/comments", reg.AccessToken, models.CreateCommentRequest{
			PostID: post.ID, Content: "Nice post",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		comment := decode[models.Comment](t, w)
		if comment.PostID != post.ID || comment.Commenter != reg.ID {
			t.Errorf("Unexpected comment: %+v", comment)
		}
	})

	t.Run("commenting on a missing post is 404", func(t *testing.T) {
		env, reg, _ := setup(t)

		w := env.do(t, http.MethodPost, "/comments", reg.AccessToken, models.CreateCommentRequest{
			PostID: "no-such-post", Content: "Hello",
		})
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("list by post returns oldest first", func(t *testing.T) {
		env, reg, post := setup(t)

		for _, content := range []string{"first", "second"} {
			env.do(t, http.MethodPost, "/comments", reg.AccessToken, models.CreateCommentRequest{
				PostID: post.ID, Content: content,
			})
			time.Sleep(2 * time.Millisecond)
		}

		w := env.do(t, http.MethodGet, "/comments/post/"+post.ID, reg.AccessToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		comments := decode[[]models.Comment](t, w)
		if len(comments) != 2 || comments[0].Content != "first" {
			t.Errorf("Comments not in oldest-first order: %+v", comments)
		}
	})

	t.Run("only the commenter may update or delete", func(t *testing.T) {
		env, reg, post := setup(t)
		bob := env.register(t, "bob", "bob@example.com", "password123")

		w := env.do(t, http.MethodPost, "/comments", reg.AccessToken, models.CreateCommentRequest{
			PostID: post.ID, Content: "Mine",
		})
		comment := decode[models.Comment](t, w)

		w = env.do(t, http.MethodPut, "/comments/"+comment.ID, bob.AccessToken, models.UpdateCommentRequest{
			Content: "Hijacked",
		})
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for non-owner update, got %d", w.Code)
		}

		w = env.do(t, http.MethodDelete, "/comments/"+comment.ID, bob.AccessToken, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for non-owner delete, got %d", w.Code)
		}

		w = env.do(t, http.MethodPut, "/comments/"+comment.ID, reg.AccessToken, models.UpdateCommentRequest{
			Content: "Edited",
		})
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for owner update, got %d", w.Code)
		}
	})

	t.Run("deleting a post removes its comments", func(t *testing.T) {
		env, reg, post := setup(t)

		w := env.do(t, http.MethodPost, "/comments", reg.AccessToken, models.CreateCommentRequest{
			PostID: post.ID, Content: "Doomed",
		})
		comment := decode[models.Comment](t, w)

		env.do(t, http.MethodDelete, "/posts/"+post.ID, reg.AccessToken, nil)

		w = env.do(t, http.MethodGet, "/comments/"+comment.ID, reg.AccessToken, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for orphaned comment, got %d", w.Code)
		}
	})
}

// ============================================================================
// Full Session Lifecycle
// ============================================================================

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	reg := env.register(t, "alice", "alice@example.com", "password123")

	// Post with the registration access token.
	w := env.do(t, http.MethodPost, "/posts", reg.AccessToken, models.CreatePostRequest{
		Title: "First", Text: "Post",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create post: expected 201, got %d", w.Code)
	}

	// Rotate the session and keep working with the new access token.
	w = env.do(t, http.MethodPost, "/auth/refresh", "", models.RefreshTokenRequest{
		RefreshToken: reg.RefreshToken,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Refresh: expected 200, got %d", w.Code)
	}
	rotated := decode[models.TokenResponse](t, w)

	w = env.do(t, http.MethodPost, "/posts", rotated.AccessToken, models.CreatePostRequest{
		Title: "Second", Text: "Post",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create post after refresh: expected 201, got %d", w.Code)
	}

	// The pre-rotation access token is not tied to the ledger and
	// stays valid until its own expiry.
	w = env.do(t, http.MethodPost, "/posts", reg.AccessToken, models.CreatePostRequest{
		Title: "Third", Text: "Post",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create post with pre-rotation access token: expected 201, got %d", w.Code)
	}

	// Log out, then confirm the session token no longer refreshes.
	w = env.do(t, http.MethodPost, "/auth/logout", "", models.RefreshTokenRequest{
		RefreshToken: rotated.RefreshToken,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Logout: expected 200, got %d", w.Code)
	}
}
