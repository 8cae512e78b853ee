package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/feedloom/feedloom/internal/models"
)

// InMemoryRepository backs development and tests. Production uses
// PostgreSQL.
type InMemoryRepository struct {
	users        map[string]*models.User
	usersByEmail map[string]*models.User
	usersByName  map[string]*models.User
	posts        map[string]*models.Post
	comments     map[string]*models.Comment
	mu           sync.RWMutex
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users:        make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
		usersByName:  make(map[string]*models.User),
		posts:        make(map[string]*models.Post),
		comments:     make(map[string]*models.Comment),
	}
}

// The store only ever holds and hands out copies. Callers mutate the
// values they get back outside the repository lock, so sharing
// pointers with the store would race.
func cloneUser(user *models.User) *models.User {
	clone := *user
	clone.RefreshTokens = append([]string(nil), user.RefreshTokens...)
	return &clone
}

func clonePost(post *models.Post) *models.Post {
	clone := *post
	return &clone
}

func cloneComment(comment *models.Comment) *models.Comment {
	clone := *comment
	return &clone
}

func (r *InMemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.usersByEmail[user.Email]; exists {
		return ErrUserExists
	}
	if _, exists := r.usersByName[user.Username]; exists {
		return ErrUserExists
	}

	clone := cloneUser(user)
	r.users[clone.ID] = clone
	r.usersByEmail[clone.Email] = clone
	r.usersByName[clone.Username] = clone
	return nil
}

func (r *InMemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.usersByEmail[email]
	if !exists {
		return nil, ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *InMemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *InMemoryRepository) GetUserByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.HasRefreshToken(token) {
			return cloneUser(user), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *InMemoryRepository) UpdateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; !exists {
		return ErrUserNotFound
	}

	clone := cloneUser(user)
	r.users[clone.ID] = clone
	r.usersByEmail[clone.Email] = clone
	r.usersByName[clone.Username] = clone
	return nil
}

func (r *InMemoryRepository) CreatePost(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *InMemoryRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, ErrPostNotFound
	}
	return clonePost(post), nil
}

// ListPosts returns posts newest first, optionally filtered by owner.
func (r *InMemoryRepository) ListPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]*models.Post, 0, len(r.posts))
	for _, post := range r.posts {
		if userID == "" || post.UserID == userID {
			posts = append(posts, clonePost(post))
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (r *InMemoryRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[post.ID]; !exists {
		return ErrPostNotFound
	}

	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *InMemoryRepository) DeletePost(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[id]; !exists {
		return ErrPostNotFound
	}

	delete(r.posts, id)
	for commentID, comment := range r.comments {
		if comment.PostID == id {
			delete(r.comments, commentID)
		}
	}
	return nil
}

func (r *InMemoryRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.comments[comment.ID] = cloneComment(comment)
	return nil
}

func (r *InMemoryRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, exists := r.comments[id]
	if !exists {
		return nil, ErrCommentNotFound
	}
	return cloneComment(comment), nil
}

func (r *InMemoryRepository) ListCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var comments []*models.Comment
	for _, comment := range r.comments {
		if comment.PostID == postID {
			comments = append(comments, cloneComment(comment))
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *InMemoryRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.comments[comment.ID]; !exists {
		return ErrCommentNotFound
	}

	r.comments[comment.ID] = cloneComment(comment)
	return nil
}

func (r *InMemoryRepository) DeleteComment(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.comments[id]; !exists {
		return ErrCommentNotFound
	}

	delete(r.comments, id)
	return nil
}
