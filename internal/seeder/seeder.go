package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/feedloom/feedloom/internal/models"
)

// Seeder populates a running server with fake users, posts and
// comments over the public HTTP API, exercising the same code paths
// real clients do.
type Seeder struct {
	baseURL string
	client  *http.Client
}

type seededUser struct {
	id          string
	accessToken string
}

func New(baseURL string) *Seeder {
	return &Seeder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Run registers userCount users, then creates postsPerUser posts for
// each and commentsPerPost comments on every post, picking a random
// registered user as the commenter.
func (s *Seeder) Run(ctx context.Context, userCount, postsPerUser, commentsPerPost int) error {
	users := make([]seededUser, 0, userCount)
	for i := 0; i < userCount; i++ {
		user, err := s.registerUser(ctx)
		if err != nil {
			return fmt.Errorf("failed to register user %d: %w", i+1, err)
		}
		users = append(users, user)
	}
	fmt.Printf("Registered %d users\n", len(users))

	var postIDs []string
	for _, user := range users {
		for i := 0; i < postsPerUser; i++ {
			postID, err := s.createPost(ctx, user)
			if err != nil {
				return fmt.Errorf("failed to create post: %w", err)
			}
			postIDs = append(postIDs, postID)
		}
	}
	fmt.Printf("Created %d posts\n", len(postIDs))

	commentCount := 0
	for _, postID := range postIDs {
		for i := 0; i < commentsPerPost; i++ {
			commenter := users[rand.Intn(len(users))]
			if err := s.createComment(ctx, commenter, postID); err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			commentCount++
		}
	}
	fmt.Printf("Created %d comments\n", commentCount)

	return nil
}

func (s *Seeder) registerUser(ctx context.Context) (seededUser, error) {
	req := models.RegisterRequest{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Password: gofakeit.Password(true, true, true, true, false, 16),
	}

	var resp models.RegisterResponse
	if err := s.post(ctx, "/auth/register", "", req, http.StatusCreated, &resp); err != nil {
		return seededUser{}, err
	}

	return seededUser{id: resp.ID, accessToken: resp.AccessToken}, nil
}

func (s *Seeder) createPost(ctx context.Context, user seededUser) (string, error) {
	req := models.CreatePostRequest{
		Title: gofakeit.Sentence(6),
		Text:  gofakeit.Paragraph(2, 4, 10, " "),
	}

	var post models.Post
	if err := s.post(ctx, "/posts", user.accessToken, req, http.StatusCreated, &post); err != nil {
		return "", err
	}
	return post.ID, nil
}

func (s *Seeder) createComment(ctx context.Context, user seededUser, postID string) error {
	req := models.CreateCommentRequest{
		PostID:  postID,
		Content: gofakeit.Sentence(12),
	}
	return s.post(ctx, "/comments", user.accessToken, req, http.StatusCreated, nil)
}

func (s *Seeder) post(ctx context.Context, path, accessToken string, body any, wantStatus int, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, apiErr.Error)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
