package posts

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/linkup-go/webutil"
)

// integrationPool connects to the database named by TEST_DATABASE_URL. The
// schema must already be migrated. Tests that need it are skipped when the
// variable is unset so the suite stays runnable without a database.
func integrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(t.Context(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, prefix string) int64 {
	t.Helper()
	username := fmt.Sprintf("%s%d", prefix, time.Now().UnixNano()%1e12)
	var id int64
	err := pool.QueryRow(t.Context(),
		`INSERT INTO users (username, email, password) VALUES ($1, $1 || '@example.com', 'x') RETURNING id`,
		username).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func TestLikeToggleIntegration(t *testing.T) {
	pool := integrationPool(t)
	svc := NewService(pool, zap.NewNop())
	ctx := t.Context()

	author := seedUser(t, pool, "pa")
	post, err := svc.Create(ctx, author, "toggle me", nil)
	require.NoError(t, err)

	liked, err := svc.ToggleLike(ctx, author, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := svc.Get(ctx, author, post.ID)
	require.NoError(t, err)
	assert.True(t, got.Liked)
	assert.Equal(t, 1, got.LikeCount)
	require.Len(t, got.Likes, 1)
	assert.Equal(t, author, got.Likes[0].User.ID)

	liked, err = svc.ToggleLike(ctx, author, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	got, err = svc.Get(ctx, author, post.ID)
	require.NoError(t, err)
	assert.False(t, got.Liked)
	assert.Equal(t, 0, got.LikeCount)
	assert.Empty(t, got.Likes)
}

func TestCommentLifecycleIntegration(t *testing.T) {
	pool := integrationPool(t)
	svc := NewService(pool, zap.NewNop())
	ctx := t.Context()

	author := seedUser(t, pool, "pc")
	post, err := svc.Create(ctx, author, "comment on me", nil)
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, author, post.ID, "first")
	require.NoError(t, err)

	got, err := svc.Get(ctx, author, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "first", got.Comments[0].Text)

	require.NoError(t, svc.DeleteComment(ctx, author, post.ID, comment.ID))

	got, err = svc.Get(ctx, author, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CommentCount)
	assert.Empty(t, got.Comments)
}

func TestFeedEmptyForFreshUserIntegration(t *testing.T) {
	pool := integrationPool(t)
	svc := NewService(pool, zap.NewNop())
	ctx := t.Context()

	loner := seedUser(t, pool, "pf")
	list, total, err := svc.ListFeed(ctx, loner, webutil.PageParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}
