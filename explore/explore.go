// Package explore serves the discovery pages: posts ranked by engagement and
// users ranked by follower count. Anonymous pages are cached in memcached
// for a short TTL since the rankings are identical for every logged-out
// visitor.
package explore

import (
	"context"
	"fmt"
	"time"

	"github.com/user/linkup-go/auth"
	"github.com/user/linkup-go/cache"
	"github.com/user/linkup-go/posts"
	"github.com/user/linkup-go/users"
	"github.com/user/linkup-go/webutil"
)

// PostPage is the cached payload for one explore posts page.
type PostPage struct {
	Posts      []posts.Post     `json:"posts"`
	Pagination webutil.PageMeta `json:"pagination"`
}

// UserPage is the cached payload for one explore users page.
type UserPage struct {
	Users      []auth.User      `json:"users"`
	Pagination webutil.PageMeta `json:"pagination"`
}

// Service computes the explore rankings.
type Service struct {
	posts posts.Service
	users *users.Service
	cache *cache.Cache
	ttl   time.Duration
}

// NewService creates the explore service. cache may be nil.
func NewService(postsService posts.Service, usersService *users.Service, c *cache.Cache, ttl time.Duration) *Service {
	return &Service{posts: postsService, users: usersService, cache: c, ttl: ttl}
}

func postsKey(p webutil.PageParams) string {
	return fmt.Sprintf("explore:posts:%d:%d", p.Page, p.Limit)
}

func usersKey(p webutil.PageParams) string {
	return fmt.Sprintf("explore:users:%d:%d", p.Page, p.Limit)
}

// Posts returns posts ranked by engagement. Results for anonymous callers
// are cached; authenticated callers bypass the cache because the liked flag
// is per-user.
func (s *Service) Posts(ctx context.Context, callerID int64, p webutil.PageParams) (*PostPage, error) {
	if callerID == 0 {
		var page PostPage
		if s.cache.GetJSON(postsKey(p), &page) {
			return &page, nil
		}
	}

	list, total, err := s.posts.ListByEngagement(ctx, callerID, p)
	if err != nil {
		return nil, err
	}
	page := &PostPage{Posts: list, Pagination: webutil.NewPageMeta(p, total)}

	if callerID == 0 {
		s.cache.SetJSON(postsKey(p), page, s.ttl)
	}
	return page, nil
}

// Users returns users ranked by follower count. The ranking is the same for
// every caller so it is always cacheable.
func (s *Service) Users(ctx context.Context, p webutil.PageParams) (*UserPage, error) {
	var page UserPage
	if s.cache.GetJSON(usersKey(p), &page) {
		return &page, nil
	}

	list, total, err := s.users.ListByFollowerCount(ctx, p)
	if err != nil {
		return nil, err
	}
	fresh := &UserPage{Users: list, Pagination: webutil.NewPageMeta(p, total)}
	s.cache.SetJSON(usersKey(p), fresh, s.ttl)
	return fresh, nil
}
