package follows

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

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/webutil"
)

// testPool connects to the database named by TEST_DATABASE_URL. The schema
// must already be migrated. Tests that need it are skipped when the variable
// is unset so the suite stays runnable without a database.
func testPool(t *testing.T) *pgxpool.Pool {
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

func createTestUser(t *testing.T, pool *pgxpool.Pool, prefix string) int64 {
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

func userCounts(t *testing.T, pool *pgxpool.Pool, id int64) (followers, following int) {
	t.Helper()
	err := pool.QueryRow(t.Context(),
		`SELECT follower_count, following_count FROM users WHERE id = $1`, id).
		Scan(&followers, &following)
	require.NoError(t, err)
	return followers, following
}

func TestFollowGraphIntegration(t *testing.T) {
	pool := testPool(t)
	svc := NewService(pool, zap.NewNop())
	ctx := t.Context()

	alice := createTestUser(t, pool, "fa")
	bob := createTestUser(t, pool, "fb")

	t.Run("follow bumps both count projections", func(t *testing.T) {
		require.NoError(t, svc.Follow(ctx, alice, bob))

		bobFollowers, _ := userCounts(t, pool, bob)
		_, aliceFollowing := userCounts(t, pool, alice)
		assert.Equal(t, 1, bobFollowers)
		assert.Equal(t, 1, aliceFollowing)

		followers, total, err := svc.Followers(ctx, bob, webutil.PageParams{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, followers, 1)
		assert.Equal(t, alice, followers[0].ID)
	})

	t.Run("duplicate follow is a bad request", func(t *testing.T) {
		err := svc.Follow(ctx, alice, bob)
		require.Error(t, err)
		appErr, ok := apperror.FromError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.BadRequestError, appErr.Type)
		assert.Equal(t, "Already following this user", appErr.Message)
	})

	t.Run("self follow is a bad request", func(t *testing.T) {
		err := svc.Follow(ctx, alice, alice)
		require.Error(t, err)
		appErr, ok := apperror.FromError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.BadRequestError, appErr.Type)
	})

	t.Run("following an absent user is not found", func(t *testing.T) {
		err := svc.Follow(ctx, alice, -1)
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("unfollow restores both count projections", func(t *testing.T) {
		require.NoError(t, svc.Unfollow(ctx, alice, bob))

		bobFollowers, _ := userCounts(t, pool, bob)
		_, aliceFollowing := userCounts(t, pool, alice)
		assert.Equal(t, 0, bobFollowers)
		assert.Equal(t, 0, aliceFollowing)
	})

	t.Run("unfollow without an edge is a bad request", func(t *testing.T) {
		err := svc.Unfollow(ctx, alice, bob)
		require.Error(t, err)
		appErr, ok := apperror.FromError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.BadRequestError, appErr.Type)
		assert.Equal(t, "Not following this user", appErr.Message)
	})
}
