package posts

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/db"
	"github.com/user/linkup-go/webutil"
)

// Service manages posts, likes and comments.
type Service interface {
	Create(ctx context.Context, authorID int64, text string, images []string) (*Post, error)
	List(ctx context.Context, callerID int64, p webutil.PageParams) ([]Post, int64, error)
	Get(ctx context.Context, callerID, postID int64) (*Post, error)
	Update(ctx context.Context, callerID, postID int64, text string, images []string) (*Post, error)
	Delete(ctx context.Context, callerID, postID int64) error
	ToggleLike(ctx context.Context, callerID, postID int64) (bool, error)
	AddComment(ctx context.Context, callerID, postID int64, text string) (*Comment, error)
	DeleteComment(ctx context.Context, callerID, postID, commentID int64) error
	ListByAuthor(ctx context.Context, callerID, authorID int64, p webutil.PageParams) ([]Post, int64, error)
	ListFeed(ctx context.Context, callerID int64, p webutil.PageParams) ([]Post, int64, error)
	ListByEngagement(ctx context.Context, callerID int64, p webutil.PageParams) ([]Post, int64, error)
	SearchText(ctx context.Context, callerID int64, q string, p webutil.PageParams) ([]Post, int64, error)
}

type service struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewService creates the posts service.
func NewService(db *pgxpool.Pool, logger *zap.Logger) Service {
	return &service{db: db, logger: logger}
}

// postColumns is the post projection shared by every listing query. $1 is
// always the caller id (0 for anonymous) so the liked flag can be computed
// in the same round trip.
const postColumns = `
	p.id, p.text, p.images, p.created_at, p.updated_at,
	u.id, u.username, u.first_name, u.last_name, u.profile_picture,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count,
	(SELECT COUNT(*) FROM post_comments pc WHERE pc.post_id = p.id) AS comment_count,
	EXISTS (SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1) AS liked`

const postFrom = ` FROM posts p JOIN users u ON u.id = p.author_id`

func scanPost(row pgx.Row) (*Post, error) {
	var post Post
	err := row.Scan(
		&post.ID, &post.Text, &post.Images, &post.CreatedAt, &post.UpdatedAt,
		&post.Author.ID, &post.Author.Username, &post.Author.FirstName,
		&post.Author.LastName, &post.Author.ProfilePicture,
		&post.LikeCount, &post.CommentCount, &post.Liked,
	)
	if err != nil {
		return nil, err
	}
	if post.Images == nil {
		post.Images = []string{}
	}
	return &post, nil
}

func (s *service) collectPosts(ctx context.Context, rows pgx.Rows) ([]Post, error) {
	defer rows.Close()
	out := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan post", err)
		}
		out = append(out, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list posts", err)
	}
	if err := s.populateEngagement(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// populateEngagement attaches the like and share projections to a page of
// posts in two batched queries.
func (s *service) populateEngagement(ctx context.Context, list []Post) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, len(list))
	byID := make(map[int64]*Post, len(list))
	for i := range list {
		list[i].Likes = []Like{}
		list[i].Shares = []int64{}
		ids[i] = list[i].ID
		byID[list[i].ID] = &list[i]
	}

	rows, err := s.db.Query(ctx, `
		SELECT pl.post_id, pl.created_at,
			u.id, u.username, u.first_name, u.last_name, u.profile_picture
		FROM post_likes pl
		JOIN users u ON u.id = pl.user_id
		WHERE pl.post_id = ANY($1)
		ORDER BY pl.created_at DESC`, ids)
	if err != nil {
		return apperror.NewDatabaseError("failed to list likes", err)
	}
	defer rows.Close()
	for rows.Next() {
		var postID int64
		var like Like
		err := rows.Scan(&postID, &like.CreatedAt,
			&like.User.ID, &like.User.Username, &like.User.FirstName,
			&like.User.LastName, &like.User.ProfilePicture)
		if err != nil {
			return apperror.NewDatabaseError("failed to scan like", err)
		}
		if post, ok := byID[postID]; ok {
			post.Likes = append(post.Likes, like)
		}
	}
	if err := rows.Err(); err != nil {
		return apperror.NewDatabaseError("failed to list likes", err)
	}

	shareRows, err := s.db.Query(ctx, `
		SELECT post_id, user_id FROM post_shares
		WHERE post_id = ANY($1)
		ORDER BY created_at DESC`, ids)
	if err != nil {
		return apperror.NewDatabaseError("failed to list shares", err)
	}
	defer shareRows.Close()
	for shareRows.Next() {
		var postID, userID int64
		if err := shareRows.Scan(&postID, &userID); err != nil {
			return apperror.NewDatabaseError("failed to scan share", err)
		}
		if post, ok := byID[postID]; ok {
			post.Shares = append(post.Shares, userID)
		}
	}
	if err := shareRows.Err(); err != nil {
		return apperror.NewDatabaseError("failed to list shares", err)
	}
	return nil
}

// Create inserts a post and returns it fully populated.
func (s *service) Create(ctx context.Context, authorID int64, text string, images []string) (*Post, error) {
	if images == nil {
		images = []string{}
	}
	var postID int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO posts (author_id, text, images) VALUES ($1, $2, $3) RETURNING id`,
		authorID, strings.TrimSpace(text), images).Scan(&postID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create post", err)
	}
	s.logger.Debug("post created", zap.Int64("post_id", postID), zap.Int64("author_id", authorID))
	return s.Get(ctx, authorID, postID)
}

// List returns all posts newest-first.
func (s *service) List(ctx context.Context, callerID int64, p webutil.PageParams) ([]Post, int64, error) {
	query := `SELECT` + postColumns + postFrom + ` ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := s.db.Query(ctx, query, callerID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list posts", err)
	}
	list, err := s.collectPosts(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to count posts", err)
	}
	return list, total, nil
}

// Get returns a single post with its comments populated.
func (s *service) Get(ctx context.Context, callerID, postID int64) (*Post, error) {
	query := `SELECT` + postColumns + postFrom + ` WHERE p.id = $2`
	post, err := scanPost(s.db.QueryRow(ctx, query, callerID, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("Post not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get post", err)
	}

	single := []Post{*post}
	if err := s.populateEngagement(ctx, single); err != nil {
		return nil, err
	}
	post = &single[0]

	post.Comments, err = s.listComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) listComments(ctx context.Context, postID int64) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.post_id, c.text, c.created_at,
			u.id, u.username, u.first_name, u.last_name, u.profile_picture
		FROM post_comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list comments", err)
	}
	defer rows.Close()

	out := []Comment{}
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.PostID, &c.Text, &c.CreatedAt,
			&c.Author.ID, &c.Author.Username, &c.Author.FirstName,
			&c.Author.LastName, &c.Author.ProfilePicture)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan comment", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *service) postAuthor(ctx context.Context, postID int64) (int64, error) {
	var authorID int64
	err := s.db.QueryRow(ctx, `SELECT author_id FROM posts WHERE id = $1`, postID).Scan(&authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFoundError("Post not found", nil)
		}
		return 0, apperror.NewDatabaseError("failed to get post", err)
	}
	return authorID, nil
}

// Update edits the post. New images replace the whole list; a nil slice
// leaves the existing images untouched. Only the author may edit.
func (s *service) Update(ctx context.Context, callerID, postID int64, text string, images []string) (*Post, error) {
	authorID, err := s.postAuthor(ctx, postID)
	if err != nil {
		return nil, err
	}
	if authorID != callerID {
		return nil, apperror.NewForbiddenError("Not authorized to update this post", nil)
	}

	if images != nil {
		_, err = s.db.Exec(ctx, `UPDATE posts SET text = $1, images = $2, updated_at = now() WHERE id = $3`,
			strings.TrimSpace(text), images, postID)
	} else {
		_, err = s.db.Exec(ctx, `UPDATE posts SET text = $1, updated_at = now() WHERE id = $2`,
			strings.TrimSpace(text), postID)
	}
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update post", err)
	}
	return s.Get(ctx, callerID, postID)
}

// Delete removes a post and its likes and comments. Only the author may
// delete.
func (s *service) Delete(ctx context.Context, callerID, postID int64) error {
	authorID, err := s.postAuthor(ctx, postID)
	if err != nil {
		return err
	}
	if authorID != callerID {
		return apperror.NewForbiddenError("Not authorized to delete this post", nil)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID); err != nil {
		return apperror.NewDatabaseError("failed to delete post", err)
	}
	return nil
}

// ToggleLike flips the caller's like on the post. Returns true when the post
// is liked after the call.
func (s *service) ToggleLike(ctx context.Context, callerID, postID int64) (bool, error) {
	if _, err := s.postAuthor(ctx, postID); err != nil {
		return false, err
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, callerID)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to toggle like", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	// ON CONFLICT absorbs the race where two toggles insert concurrently.
	_, err = s.db.Exec(ctx, `
		INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING`, postID, callerID)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to toggle like", err)
	}
	return true, nil
}

// AddComment appends a comment to the post.
func (s *service) AddComment(ctx context.Context, callerID, postID int64, text string) (*Comment, error) {
	if _, err := s.postAuthor(ctx, postID); err != nil {
		return nil, err
	}

	var c Comment
	err := s.db.QueryRow(ctx, `
		INSERT INTO post_comments (post_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, post_id, text, created_at`,
		postID, callerID, strings.TrimSpace(text)).Scan(&c.ID, &c.PostID, &c.Text, &c.CreatedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to add comment", err)
	}

	err = s.db.QueryRow(ctx, `
		SELECT id, username, first_name, last_name, profile_picture FROM users WHERE id = $1`,
		callerID).Scan(&c.Author.ID, &c.Author.Username, &c.Author.FirstName,
		&c.Author.LastName, &c.Author.ProfilePicture)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load comment author", err)
	}
	return &c, nil
}

// DeleteComment removes a comment. The comment author and the post owner may
// both delete.
func (s *service) DeleteComment(ctx context.Context, callerID, postID, commentID int64) error {
	postAuthorID, err := s.postAuthor(ctx, postID)
	if err != nil {
		return err
	}

	var commentAuthorID int64
	err = s.db.QueryRow(ctx, `
		SELECT author_id FROM post_comments WHERE id = $1 AND post_id = $2`,
		commentID, postID).Scan(&commentAuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFoundError("Comment not found", nil)
		}
		return apperror.NewDatabaseError("failed to get comment", err)
	}

	if callerID != commentAuthorID && callerID != postAuthorID {
		return apperror.NewForbiddenError("Not authorized to delete this comment", nil)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM post_comments WHERE id = $1`, commentID); err != nil {
		return apperror.NewDatabaseError("failed to delete comment", err)
	}
	return nil
}

// ListByAuthor returns one user's posts newest-first.
func (s *service) ListByAuthor(ctx context.Context, callerID, authorID int64, p webutil.PageParams) ([]Post, int64, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, authorID).Scan(&exists); err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to check user", err)
	}
	if !exists {
		return nil, 0, apperror.NewNotFoundError("User not found", nil)
	}

	query := `SELECT` + postColumns + postFrom + ` WHERE p.author_id = $2 ORDER BY p.created_at DESC LIMIT $3 OFFSET $4`
	rows, err := s.db.Query(ctx, query, callerID, authorID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list posts", err)
	}
	list, err := s.collectPosts(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&total); err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to count posts", err)
	}
	return list, total, nil
}

// ListFeed returns posts by the caller and by everyone the caller follows,
// newest-first. Fan-out happens at read time.
func (s *service) ListFeed(ctx context.Context, callerID int64, p webutil.PageParams) ([]Post, int64, error) {
	where := ` WHERE p.author_id = $1 OR p.author_id IN
		(SELECT following_id FROM follows WHERE follower_id = $1)`

	query := `SELECT` + postColumns + postFrom + where + ` ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := s.db.Query(ctx, query, callerID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list feed", err)
	}
	list, err := s.collectPosts(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM posts p`+where, callerID).Scan(&total)
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to count feed", err)
	}
	return list, total, nil
}

// ListByEngagement ranks posts by combined like and comment volume, ties
// broken newest-first. Backs the explore page.
func (s *service) ListByEngagement(ctx context.Context, callerID int64, p webutil.PageParams) ([]Post, int64, error) {
	query := `SELECT` + postColumns + postFrom + `
		ORDER BY like_count + comment_count DESC, p.created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.db.Query(ctx, query, callerID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list posts by engagement", err)
	}
	list, err := s.collectPosts(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to count posts", err)
	}
	return list, total, nil
}

// SearchText matches the query as a case-insensitive substring of the post
// text.
func (s *service) SearchText(ctx context.Context, callerID int64, q string, p webutil.PageParams) ([]Post, int64, error) {
	pattern := "%" + db.EscapeLike(q) + "%"
	query := `SELECT` + postColumns + postFrom + ` WHERE p.text ILIKE $2 ORDER BY p.created_at DESC LIMIT $3 OFFSET $4`
	rows, err := s.db.Query(ctx, query, callerID, pattern, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to search posts", err)
	}
	list, err := s.collectPosts(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE text ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to count search results", err)
	}
	return list, total, nil
}
