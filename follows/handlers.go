package follows

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/linkup-go/auth"
	"github.com/user/linkup-go/webutil"
)

// Handlers exposes the follow graph over HTTP.
type Handlers struct {
	service Service
}

// NewHandlers creates the follows handler group.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the follow routes on the /users subrouter.
func (h *Handlers) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/{id}/followers", h.HandleFollowers)
	r.Get("/{id}/following", h.HandleFollowing)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/{id}/follow", h.HandleFollow)
		r.Delete("/{id}/follow", h.HandleUnfollow)
	})
}

// HandleFollow makes the caller follow the target user.
// @Summary Follow a user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 201 {object} webutil.Envelope
// @Failure 400 {object} webutil.Envelope
// @Failure 404 {object} webutil.Envelope
// @Failure 400 {object} webutil.Envelope
// @Router /api/users/{id}/follow [post]
func (h *Handlers) HandleFollow(w http.ResponseWriter, r *http.Request) {
	followingID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	if err := h.service.Follow(r.Context(), callerID, followingID); err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusCreated, "User followed successfully", nil)
}

// HandleUnfollow removes the caller's follow of the target user.
// @Summary Unfollow a user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} webutil.Envelope
// @Failure 400 {object} webutil.Envelope
// @Failure 404 {object} webutil.Envelope
// @Router /api/users/{id}/follow [delete]
func (h *Handlers) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	followingID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	if err := h.service.Unfollow(r.Context(), callerID, followingID); err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusOK, "User unfollowed successfully", nil)
}

// HandleFollowers lists the users following the target user.
// @Summary List a user's followers
// @Tags follows
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} webutil.Envelope
// @Router /api/users/{id}/followers [get]
func (h *Handlers) HandleFollowers(w http.ResponseWriter, r *http.Request) {
	userID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	p := webutil.ParsePageParams(r)

	list, total, err := h.service.Followers(r.Context(), userID, p)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, map[string]interface{}{
		"followers":  list,
		"pagination": webutil.NewPageMeta(p, total),
	})
}

// HandleFollowing lists the users the target user follows.
// @Summary List who a user follows
// @Tags follows
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} webutil.Envelope
// @Router /api/users/{id}/following [get]
func (h *Handlers) HandleFollowing(w http.ResponseWriter, r *http.Request) {
	userID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	p := webutil.ParsePageParams(r)

	list, total, err := h.service.Following(r.Context(), userID, p)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, map[string]interface{}{
		"following":  list,
		"pagination": webutil.NewPageMeta(p, total),
	})
}
