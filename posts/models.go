package posts

import (
	"time"

	"github.com/user/linkup-go/users"
)

// Post is a published post with its author projection and engagement state.
// Likes carry the shallow liker profile, shares are user ids. Comments are
// populated only on the single-post view.
type Post struct {
	ID           int64         `json:"id"`
	Author       users.Summary `json:"author"`
	Text         string        `json:"text"`
	Images       []string      `json:"images"`
	Likes        []Like        `json:"likes"`
	Shares       []int64       `json:"shares"`
	LikeCount    int           `json:"likeCount"`
	CommentCount int           `json:"commentCount"`
	Liked        bool          `json:"liked"`
	Comments     []Comment     `json:"comments,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Like is one like on a post: who, and when.
type Like struct {
	User      users.Summary `json:"user"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Comment is one comment on a post.
type Comment struct {
	ID        int64         `json:"id"`
	PostID    int64         `json:"postId"`
	Author    users.Summary `json:"author"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
}
