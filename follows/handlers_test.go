package follows

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/auth"
	"github.com/user/linkup-go/users"
	"github.com/user/linkup-go/webutil"
)

type fakeService struct {
	followErr   error
	unfollowErr error
	followers   []users.Summary
	total       int64
	lastCaller  int64
	lastTarget  int64
}

func (f *fakeService) Follow(ctx context.Context, followerID, followingID int64) error {
	f.lastCaller, f.lastTarget = followerID, followingID
	return f.followErr
}

func (f *fakeService) Unfollow(ctx context.Context, followerID, followingID int64) error {
	f.lastCaller, f.lastTarget = followerID, followingID
	return f.unfollowErr
}

func (f *fakeService) Followers(ctx context.Context, userID int64, p webutil.PageParams) ([]users.Summary, int64, error) {
	return f.followers, f.total, nil
}

func (f *fakeService) Following(ctx context.Context, userID int64, p webutil.PageParams) ([]users.Summary, int64, error) {
	return f.followers, f.total, nil
}

func newRouter(svc Service) chi.Router {
	h := NewHandlers(svc)
	r := chi.NewRouter()
	// stand-in auth middleware injecting caller id 1
	requireAuth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), auth.UserIDKey, int64(1))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	r.Route("/users", func(r chi.Router) {
		h.RegisterRoutes(r, requireAuth)
	})
	return r
}

func TestHandleFollow(t *testing.T) {
	t.Run("success returns 201", func(t *testing.T) {
		svc := &fakeService{}
		r := httptest.NewRequest("POST", "/users/2/follow", nil)
		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, int64(1), svc.lastCaller)
		assert.Equal(t, int64(2), svc.lastTarget)

		var env webutil.Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Success)
		assert.Equal(t, "User followed successfully", env.Message)
	})

	t.Run("self follow returns 400", func(t *testing.T) {
		svc := &fakeService{followErr: apperror.NewBadRequestError("Cannot follow yourself", nil)}
		r := httptest.NewRequest("POST", "/users/1/follow", nil)
		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate follow returns 400", func(t *testing.T) {
		svc := &fakeService{followErr: apperror.NewBadRequestError("Already following this user", nil)}
		r := httptest.NewRequest("POST", "/users/2/follow", nil)
		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var env webutil.Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "Already following this user", env.Message)
	})

	t.Run("unknown target returns 404", func(t *testing.T) {
		svc := &fakeService{followErr: apperror.NewNotFoundError("User not found", nil)}
		r := httptest.NewRequest("POST", "/users/999/follow", nil)
		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		svc := &fakeService{}
		r := httptest.NewRequest("POST", "/users/abc/follow", nil)
		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleUnfollow(t *testing.T) {
	t.Run("success returns 200", func(t *testing.T) {
		svc := &fakeService{}
		r := httptest.NewRequest("DELETE", "/users/2/follow", nil)
		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var env webutil.Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "User unfollowed successfully", env.Message)
	})

	t.Run("not following returns 400", func(t *testing.T) {
		svc := &fakeService{unfollowErr: apperror.NewBadRequestError("Not following this user", nil)}
		r := httptest.NewRequest("DELETE", "/users/2/follow", nil)
		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleFollowers(t *testing.T) {
	name := "Ada"
	svc := &fakeService{
		followers: []users.Summary{{ID: 5, Username: "ada", FirstName: &name}},
		total:     1,
	}
	r := httptest.NewRequest("GET", "/users/2/followers", nil)
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Followers  []users.Summary  `json:"followers"`
			Pagination webutil.PageMeta `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	require.Len(t, env.Data.Followers, 1)
	assert.Equal(t, "ada", env.Data.Followers[0].Username)
	assert.Equal(t, int64(1), env.Data.Pagination.Total)
	assert.Equal(t, 1, env.Data.Pagination.Pages)
}
