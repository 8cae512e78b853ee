package models

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type CreatePostRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type UpdatePostRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type CreateCommentRequest struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterResponse carries the new identity plus its first token pair.
type RegisterResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// PostListResponse mirrors the list envelope the posts endpoint exposes.
type PostListResponse struct {
	Status string  `json:"status"`
	Count  int     `json:"count"`
	Data   []*Post `json:"data"`
}
