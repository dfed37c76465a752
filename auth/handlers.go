package auth

import (
	"net/http"

	"github.com/user/linkup-go/webutil"
)

// Handlers exposes the auth endpoints over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates auth Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary Register a new account
// @Description Creates a user and returns the profile with a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "Registration details"
// @Success 201 {object} webutil.Envelope
// @Failure 400 {object} webutil.Envelope
// @Failure 409 {object} webutil.Envelope
// @Router /api/auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := webutil.DecodeJSON(r, &req); err != nil {
			webutil.WriteError(w, err)
			return
		}
		defer r.Body.Close()

		if err := webutil.Validate(req); err != nil {
			webutil.WriteError(w, err)
			return
		}

		resp, err := h.service.Register(r.Context(), req)
		if err != nil {
			webutil.WriteError(w, err)
			return
		}
		webutil.WriteMessage(w, http.StatusCreated, "User registered successfully", resp)
	}
}

// HandleLogin godoc
// @Summary Log in
// @Description Authenticates by email and password and returns a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "Login credentials"
// @Success 200 {object} webutil.Envelope
// @Failure 400 {object} webutil.Envelope
// @Failure 401 {object} webutil.Envelope
// @Router /api/auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := webutil.DecodeJSON(r, &req); err != nil {
			webutil.WriteError(w, err)
			return
		}
		defer r.Body.Close()

		if err := webutil.Validate(req); err != nil {
			webutil.WriteError(w, err)
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			webutil.WriteError(w, err)
			return
		}
		webutil.WriteMessage(w, http.StatusOK, "Login successful", resp)
	}
}

// HandleRefreshToken godoc
// @Summary Refresh the access token
// @Tags auth
// @Accept json
// @Produce json
// @Param refreshBody body auth.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} webutil.Envelope
// @Failure 401 {object} webutil.Envelope
// @Router /api/auth/refresh [post]
func (h *Handlers) HandleRefreshToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshTokenRequest
		if err := webutil.DecodeJSON(r, &req); err != nil {
			webutil.WriteError(w, err)
			return
		}
		defer r.Body.Close()

		if err := webutil.Validate(req); err != nil {
			webutil.WriteError(w, err)
			return
		}

		tokens, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
		if err != nil {
			webutil.WriteError(w, err)
			return
		}
		webutil.WriteData(w, http.StatusOK, tokens)
	}
}
