// Package search provides case-insensitive substring search across users and
// posts. The combined search fans out to both domains concurrently.
package search

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/user/linkup-go/auth"
	"github.com/user/linkup-go/posts"
	"github.com/user/linkup-go/users"
	"github.com/user/linkup-go/webutil"
)

// UserResults is the user half of a combined search, paginated on its own
// total.
type UserResults struct {
	Results []auth.User `json:"results"`
	webutil.PageMeta
}

// PostResults is the post half of a combined search, paginated on its own
// total.
type PostResults struct {
	Results []posts.Post `json:"results"`
	webutil.PageMeta
}

// Results is the combined search payload. Each result set carries its own
// pagination block.
type Results struct {
	Users UserResults `json:"users"`
	Posts PostResults `json:"posts"`
}

// Service runs searches across the user and post domains.
type Service interface {
	All(ctx context.Context, callerID int64, q string, p webutil.PageParams) (*Results, error)
	Users(ctx context.Context, q string, p webutil.PageParams) ([]auth.User, int64, error)
	Posts(ctx context.Context, callerID int64, q string, p webutil.PageParams) ([]posts.Post, int64, error)
}

type service struct {
	users *users.Service
	posts posts.Service
}

// NewService creates the search service.
func NewService(usersService *users.Service, postsService posts.Service) Service {
	return &service{users: usersService, posts: postsService}
}

// All searches users and posts concurrently. Each half of the result is
// paginated against its own total.
func (s *service) All(ctx context.Context, callerID int64, q string, p webutil.PageParams) (*Results, error) {
	q = strings.TrimSpace(q)
	results := &Results{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, total, err := s.users.SearchUsers(gctx, q, p)
		if err != nil {
			return err
		}
		results.Users = UserResults{Results: list, PageMeta: webutil.NewPageMeta(p, total)}
		return nil
	})
	g.Go(func() error {
		list, total, err := s.posts.SearchText(gctx, callerID, q, p)
		if err != nil {
			return err
		}
		results.Posts = PostResults{Results: list, PageMeta: webutil.NewPageMeta(p, total)}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *service) Users(ctx context.Context, q string, p webutil.PageParams) ([]auth.User, int64, error) {
	return s.users.SearchUsers(ctx, strings.TrimSpace(q), p)
}

func (s *service) Posts(ctx context.Context, callerID int64, q string, p webutil.PageParams) ([]posts.Post, int64, error) {
	return s.posts.SearchText(ctx, callerID, strings.TrimSpace(q), p)
}
