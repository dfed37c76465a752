package search

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/auth"
	"github.com/user/linkup-go/webutil"
)

// Handlers exposes the search endpoints.
type Handlers struct {
	service Service
}

// NewHandlers creates the search handler group.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the search routes on the /search subrouter.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleSearch)
	r.Get("/users", h.HandleSearchUsers)
	r.Get("/posts", h.HandleSearchPosts)
}

func queryParam(r *http.Request) (string, error) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		return "", apperror.NewBadRequestError("Search query is required", nil)
	}
	return q, nil
}

// HandleSearch searches users and posts at once.
// @Summary Search users and posts
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} webutil.Envelope
// @Failure 400 {object} webutil.Envelope
// @Router /api/search [get]
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam(r)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())
	p := webutil.ParsePageParams(r)

	results, err := h.service.All(r.Context(), callerID, q, p)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, results)
}

// HandleSearchUsers searches users only.
// @Summary Search users
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} webutil.Envelope
// @Failure 400 {object} webutil.Envelope
// @Router /api/search/users [get]
func (h *Handlers) HandleSearchUsers(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam(r)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	p := webutil.ParsePageParams(r)

	list, total, err := h.service.Users(r.Context(), q, p)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, map[string]interface{}{
		"users":      list,
		"pagination": webutil.NewPageMeta(p, total),
	})
}

// HandleSearchPosts searches posts only.
// @Summary Search posts
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} webutil.Envelope
// @Failure 400 {object} webutil.Envelope
// @Router /api/search/posts [get]
func (h *Handlers) HandleSearchPosts(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam(r)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())
	p := webutil.ParsePageParams(r)

	list, total, err := h.service.Posts(r.Context(), callerID, q, p)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, map[string]interface{}{
		"posts":      list,
		"pagination": webutil.NewPageMeta(p, total),
	})
}
