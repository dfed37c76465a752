package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/auth"
	"github.com/user/linkup-go/webutil"
)

// Handlers exposes profile management over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the users handler group.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the profile routes on the /users subrouter.
// requireAuth guards the mutating endpoints.
func (h *Handlers) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGetByID)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Put("/{id}", h.HandleUpdateProfile)

		r.Post("/{id}/experiences", h.HandleAddExperience)
		r.Put("/{id}/experiences/{expId}", h.HandleUpdateExperience)
		r.Delete("/{id}/experiences/{expId}", h.HandleDeleteExperience)

		r.Post("/{id}/education", h.HandleAddEducation)
		r.Put("/{id}/education/{eduId}", h.HandleUpdateEducation)
		r.Delete("/{id}/education/{eduId}", h.HandleDeleteEducation)
	})
}

// HandleList lists users.
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} webutil.Envelope
// @Router /api/users [get]
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	p := webutil.ParsePageParams(r)
	list, total, err := h.service.List(r.Context(), p)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, map[string]interface{}{
		"users":      list,
		"pagination": webutil.NewPageMeta(p, total),
	})
}

// HandleGetByID returns a single user profile with sub-records and follow
// projections.
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} webutil.Envelope
// @Failure 404 {object} webutil.Envelope
// @Router /api/users/{id} [get]
func (h *Handlers) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	detail, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, detail)
}

// HandleGetMe returns the authenticated caller's profile. Mounted under
// /auth/me.
// @Summary Get the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} webutil.Envelope
// @Failure 401 {object} webutil.Envelope
// @Router /api/auth/me [get]
func (h *Handlers) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		webutil.WriteError(w, apperror.NewAuthError("Authentication required", nil))
		return
	}
	detail, err := h.service.GetByID(r.Context(), callerID)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, detail)
}

// HandleUpdateProfile applies a partial profile update to the caller's own
// account.
// @Summary Update a profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} webutil.Envelope
// @Failure 403 {object} webutil.Envelope
// @Router /api/users/{id} [put]
func (h *Handlers) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	var req UpdateProfileRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		webutil.WriteError(w, err)
		return
	}
	if err := webutil.Validate(&req); err != nil {
		webutil.WriteError(w, err)
		return
	}

	detail, err := h.service.UpdateProfile(r.Context(), userID, callerID, &req)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusOK, "Profile updated successfully", detail)
}

// HandleAddExperience adds an experience record.
// @Summary Add an experience record
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body ExperienceRequest true "Experience"
// @Success 201 {object} webutil.Envelope
// @Router /api/users/{id}/experiences [post]
func (h *Handlers) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	userID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	var req ExperienceRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		webutil.WriteError(w, err)
		return
	}
	if err := webutil.Validate(&req); err != nil {
		webutil.WriteError(w, err)
		return
	}

	detail, err := h.service.AddExperience(r.Context(), userID, callerID, &req)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusCreated, "Experience added successfully", detail)
}

// HandleUpdateExperience updates an experience record.
// @Summary Update an experience record
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param expId path int true "Experience ID"
// @Param request body ExperienceUpdateRequest true "Fields to update"
// @Success 200 {object} webutil.Envelope
// @Router /api/users/{id}/experiences/{expId} [put]
func (h *Handlers) HandleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	userID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	expID, err := webutil.IDParam(r, "expId")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	var req ExperienceUpdateRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		webutil.WriteError(w, err)
		return
	}
	if err := webutil.Validate(&req); err != nil {
		webutil.WriteError(w, err)
		return
	}

	detail, err := h.service.UpdateExperience(r.Context(), userID, callerID, expID, &req)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusOK, "Experience updated successfully", detail)
}

// HandleDeleteExperience deletes an experience record.
// @Summary Delete an experience record
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param expId path int true "Experience ID"
// @Success 200 {object} webutil.Envelope
// @Router /api/users/{id}/experiences/{expId} [delete]
func (h *Handlers) HandleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	expID, err := webutil.IDParam(r, "expId")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	detail, err := h.service.DeleteExperience(r.Context(), userID, callerID, expID)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusOK, "Experience deleted successfully", detail)
}

// HandleAddEducation adds an education record.
// @Summary Add an education record
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body EducationRequest true "Education"
// @Success 201 {object} webutil.Envelope
// @Router /api/users/{id}/education [post]
func (h *Handlers) HandleAddEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	var req EducationRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		webutil.WriteError(w, err)
		return
	}
	if err := webutil.Validate(&req); err != nil {
		webutil.WriteError(w, err)
		return
	}

	detail, err := h.service.AddEducation(r.Context(), userID, callerID, &req)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusCreated, "Education added successfully", detail)
}

// HandleUpdateEducation updates an education record.
// @Summary Update an education record
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param eduId path int true "Education ID"
// @Param request body EducationUpdateRequest true "Fields to update"
// @Success 200 {object} webutil.Envelope
// @Router /api/users/{id}/education/{eduId} [put]
func (h *Handlers) HandleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	eduID, err := webutil.IDParam(r, "eduId")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	var req EducationUpdateRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		webutil.WriteError(w, err)
		return
	}
	if err := webutil.Validate(&req); err != nil {
		webutil.WriteError(w, err)
		return
	}

	detail, err := h.service.UpdateEducation(r.Context(), userID, callerID, eduID, &req)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusOK, "Education updated successfully", detail)
}

// HandleDeleteEducation deletes an education record.
// @Summary Delete an education record
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param eduId path int true "Education ID"
// @Success 200 {object} webutil.Envelope
// @Router /api/users/{id}/education/{eduId} [delete]
func (h *Handlers) HandleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	eduID, err := webutil.IDParam(r, "eduId")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	detail, err := h.service.DeleteEducation(r.Context(), userID, callerID, eduID)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusOK, "Education deleted successfully", detail)
}
