package posts

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/auth"
	"github.com/user/linkup-go/imagestore"
	"github.com/user/linkup-go/webutil"
)

const maxMultipartMemory = 32 << 20

// Handlers exposes posts, likes and comments over HTTP.
type Handlers struct {
	service Service
	images  imagestore.Store // nil when image uploads are not configured
	logger  *zap.Logger
}

// NewHandlers creates the posts handler group. images may be nil, in which
// case uploads are skipped and posts are created text-only.
func NewHandlers(service Service, images imagestore.Store, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, images: images, logger: logger}
}

// RegisterRoutes mounts the post routes on the /posts subrouter.
func (h *Handlers) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", h.HandleCreate)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
		r.Post("/{id}/like", h.HandleToggleLike)
		r.Post("/{id}/comments", h.HandleAddComment)
		r.Delete("/{id}/comments/{commentId}", h.HandleDeleteComment)
	})
}

// readPostForm extracts the post text and uploaded image URLs from either a
// JSON body or a multipart form. images is nil when no image parts were
// sent; when the store is not configured uploads are skipped and the post
// degrades to text-only.
func (h *Handlers) readPostForm(r *http.Request) (string, []string, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var body struct {
			Text string `json:"text"`
		}
		if err := webutil.DecodeJSON(r, &body); err != nil {
			return "", nil, err
		}
		return body.Text, nil, nil
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return "", nil, apperror.NewBadRequestError("Invalid multipart form", err)
	}
	text := r.FormValue("text")

	files, err := imagestore.FromMultipart(r.MultipartForm)
	if err != nil {
		return "", nil, err
	}
	if len(files) == 0 {
		return text, nil, nil
	}
	if h.images == nil {
		h.logger.Warn("image upload skipped: store not configured",
			zap.Int("files", len(files)))
		return text, nil, nil
	}
	urls, err := h.images.Upload(r.Context(), files)
	if err != nil {
		return "", nil, err
	}
	return text, urls, nil
}

// HandleCreate publishes a new post. Accepts either a JSON body or a
// multipart form with a text field and up to five image parts.
// @Summary Create a post
// @Tags posts
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Post text"
// @Success 201 {object} webutil.Envelope
// @Failure 400 {object} webutil.Envelope
// @Router /api/posts [post]
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, _ := auth.UserIDFromContext(r.Context())

	text, images, err := h.readPostForm(r)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}

	req := CreatePostRequest{Text: text}
	if err := webutil.Validate(&req); err != nil {
		webutil.WriteError(w, err)
		return
	}

	post, err := h.service.Create(r.Context(), callerID, req.Text, images)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusCreated, "Post created successfully", post)
}

// HandleList lists all posts.
// @Summary List posts
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} webutil.Envelope
// @Router /api/posts [get]
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	callerID, _ := auth.UserIDFromContext(r.Context())
	p := webutil.ParsePageParams(r)

	list, total, err := h.service.List(r.Context(), callerID, p)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, map[string]interface{}{
		"posts":      list,
		"pagination": webutil.NewPageMeta(p, total),
	})
}

// HandleGet returns a single post with its comments.
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} webutil.Envelope
// @Failure 404 {object} webutil.Envelope
// @Router /api/posts/{id} [get]
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	post, err := h.service.Get(r.Context(), callerID, postID)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, post)
}

// HandleUpdate edits a post. New images replace the existing list; a JSON
// body or a form without image parts leaves the images untouched.
// @Summary Update a post
// @Tags posts
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body UpdatePostRequest true "New text"
// @Success 200 {object} webutil.Envelope
// @Failure 403 {object} webutil.Envelope
// @Router /api/posts/{id} [put]
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	postID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	text, images, err := h.readPostForm(r)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}

	req := UpdatePostRequest{Text: text}
	if err := webutil.Validate(&req); err != nil {
		webutil.WriteError(w, err)
		return
	}

	post, err := h.service.Update(r.Context(), callerID, postID, req.Text, images)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusOK, "Post updated successfully", post)
}

// HandleDelete removes a post.
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} webutil.Envelope
// @Failure 403 {object} webutil.Envelope
// @Router /api/posts/{id} [delete]
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), callerID, postID); err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusOK, "Post deleted successfully", nil)
}

// HandleToggleLike flips the caller's like on the post.
// @Summary Like or unlike a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} webutil.Envelope
// @Failure 404 {object} webutil.Envelope
// @Router /api/posts/{id}/like [post]
func (h *Handlers) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	liked, err := h.service.ToggleLike(r.Context(), callerID, postID)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	post, err := h.service.Get(r.Context(), callerID, postID)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	webutil.WriteMessage(w, http.StatusOK, message, post)
}

// HandleAddComment appends a comment to the post.
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} webutil.Envelope
// @Failure 404 {object} webutil.Envelope
// @Router /api/posts/{id}/comments [post]
func (h *Handlers) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	var req CommentRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		webutil.WriteError(w, err)
		return
	}
	if err := webutil.Validate(&req); err != nil {
		webutil.WriteError(w, err)
		return
	}

	if _, err := h.service.AddComment(r.Context(), callerID, postID, req.Text); err != nil {
		webutil.WriteError(w, err)
		return
	}
	post, err := h.service.Get(r.Context(), callerID, postID)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusCreated, "Comment added successfully", post)
}

// HandleDeleteComment removes a comment; permitted for the comment author
// and the post owner.
// @Summary Delete a comment
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} webutil.Envelope
// @Failure 403 {object} webutil.Envelope
// @Router /api/posts/{id}/comments/{commentId} [delete]
func (h *Handlers) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	postID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	commentID, err := webutil.IDParam(r, "commentId")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())

	if err := h.service.DeleteComment(r.Context(), callerID, postID, commentID); err != nil {
		webutil.WriteError(w, err)
		return
	}
	post, err := h.service.Get(r.Context(), callerID, postID)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteMessage(w, http.StatusOK, "Comment deleted successfully", post)
}

// HandleListByAuthor lists one user's posts. Mounted under /users/{id}/posts.
// @Summary List a user's posts
// @Tags posts
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} webutil.Envelope
// @Failure 404 {object} webutil.Envelope
// @Router /api/users/{id}/posts [get]
func (h *Handlers) HandleListByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	callerID, _ := auth.UserIDFromContext(r.Context())
	p := webutil.ParsePageParams(r)

	list, total, err := h.service.ListByAuthor(r.Context(), callerID, authorID, p)
	if err != nil {
		webutil.WriteError(w, err)
		return
	}
	webutil.WriteData(w, http.StatusOK, map[string]interface{}{
		"posts":      list,
		"pagination": webutil.NewPageMeta(p, total),
	})
}
