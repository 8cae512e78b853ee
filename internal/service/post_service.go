package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/feedloom/feedloom/internal/models"
	"github.com/feedloom/feedloom/internal/repository"
)

// ErrNotOwner is returned when a caller tries to modify content that
// belongs to a different user.
var ErrNotOwner = errors.New("not the owner")

type PostService struct {
	repo repository.Repository
}

func NewPostService(repo repository.Repository) *PostService {
	return &PostService{repo: repo}
}

func (s *PostService) Create(ctx context.Context, userID string, req *models.CreatePostRequest) (*models.Post, error) {
	postID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &models.Post{
		ID:        postID.String(),
		Title:     req.Title,
		Text:      req.Text,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	return s.repo.ListPosts(ctx, "")
}

// ListByUser returns one user's posts, newest first. An unknown user
// yields an empty list, not an error.
func (s *PostService) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.repo.ListPosts(ctx, userID)
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.repo.GetPostByID(ctx, id)
}

// Update overwrites the post's title and text. Only the owner may
// update; everyone else gets ErrNotOwner regardless of the payload.
func (s *PostService) Update(ctx context.Context, userID, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.UserID != userID {
		return nil, ErrNotOwner
	}

	post.Title = req.Title
	post.Text = req.Text
	post.UpdatedAt = time.Now()

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		return ErrNotOwner
	}

	return s.repo.DeletePost(ctx, id)
}
