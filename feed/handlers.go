// Package feed serves the personalized timeline: the caller's own posts plus
// posts from everyone they follow, assembled at read time.
package feed

import (
	"net/http"

	"github.com/user/linkup-go/auth"
	"github.com/user/linkup-go/posts"
	"github.com/user/linkup-go/webutil"
)

// Handlers exposes the feed endpoint.
type Handlers struct {
	posts posts.Service
}

// NewHandlers creates the feed handler group.
func NewHandlers(postsService posts.Service) *Handlers {
	return &Handlers{posts: postsService}
}

// HandleFeed returns the caller's timeline newest-first.
// @Summary Get the personalized feed
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} webutil.Envelope
// @Failure 401 {object} webutil.Envelope
// @Router /api/feed [get]
func (h *Handlers) HandleFeed(w http.ResponseWriter, r *http.Request) {
	callerID, _ := auth.UserIDFromContext(r.Context())
	p := webutil.ParsePageParams(r)

	list, total, err := h.posts.ListFeed(r.Context(), callerID, p)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, map[string]interface{}{
		"posts":      list,
		"pagination": webutil.NewPageMeta(p, total),
	})
}
