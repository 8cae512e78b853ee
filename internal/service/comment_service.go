package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/feedloom/feedloom/internal/models"
	"github.com/feedloom/feedloom/internal/repository"
)

type CommentService struct {
	repo repository.Repository
}

func NewCommentService(repo repository.Repository) *CommentService {
	return &CommentService{repo: repo}
}

// Create attaches a comment to an existing post. Commenting on a
// missing post is repository.ErrPostNotFound, not a silent orphan.
func (s *CommentService) Create(ctx context.Context, userID string, req *models.CreateCommentRequest) (*models.Comment, error) {
	if _, err := s.repo.GetPostByID(ctx, req.PostID); err != nil {
		return nil, err
	}

	commentID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	comment := &models.Comment{
		ID:        commentID.String(),
		PostID:    req.PostID,
		Content:   req.Content,
		Commenter: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Get(ctx context.Context, id string) (*models.Comment, error) {
	return s.repo.GetCommentByID(ctx, id)
}

// ListByPost returns a post's comments oldest first. The post must
// exist.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := s.repo.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.repo.ListCommentsByPost(ctx, postID)
}

func (s *CommentService) Update(ctx context.Context, userID, id string, req *models.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.repo.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if comment.Commenter != userID {
		return nil, ErrNotOwner
	}

	comment.Content = req.Content
	comment.UpdatedAt = time.Now()

	if err := s.repo.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, userID, id string) error {
	comment, err := s.repo.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}

	if comment.Commenter != userID {
		return ErrNotOwner
	}

	return s.repo.DeleteComment(ctx, id)
}
