package explore

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/linkup-go/auth"
	"github.com/user/linkup-go/webutil"
)

// Handlers exposes the explore endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates the explore handler group.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the explore routes on the /explore subrouter.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandlePosts)
	r.Get("/users", h.HandleUsers)
}

// HandlePosts returns posts ranked by engagement.
// @Summary Explore posts
// @Tags explore
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} webutil.Envelope
// @Router /api/explore [get]
func (h *Handlers) HandlePosts(w http.ResponseWriter, r *http.Request) {
	callerID, _ := auth.UserIDFromContext(r.Context())
	p := webutil.ParsePageParams(r)

	page, err := h.service.Posts(r.Context(), callerID, p)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, page)
}

// HandleUsers returns users ranked by follower count.
// @Summary Explore users
// @Tags explore
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} webutil.Envelope
// @Router /api/explore/users [get]
func (h *Handlers) HandleUsers(w http.ResponseWriter, r *http.Request) {
	p := webutil.ParsePageParams(r)

	page, err := h.service.Users(r.Context(), p)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, page)
}
