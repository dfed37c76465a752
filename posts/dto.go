package posts

// CreatePostRequest carries the text part of a new post; images arrive as
// multipart file parts.
type CreatePostRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// UpdatePostRequest carries a post text edit.
type UpdatePostRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// CommentRequest carries a new comment.
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}
