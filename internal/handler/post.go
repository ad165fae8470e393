package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/byteserenity/blog/internal/auth"
	"github.com/byteserenity/blog/internal/model"
	"github.com/byteserenity/blog/internal/repository"
	"github.com/byteserenity/blog/internal/service"
)

// PostHandler exposes the content API. Reads are public; every write sits
// behind the auth.RequireIdentity gate, so write handlers read the actor
// straight from the context.
type PostHandler struct {
	svc    *service.PostService
	logger *slog.Logger
}

func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, logger: logger}
}

// postDetailResponse bundles a post with its comments for the detail page.
type postDetailResponse struct {
	Post     *model.Post     `json:"post"`
	Comments []model.Comment `json:"comments"`
}

// HandleList returns published posts, newest first.
// GET /api/posts?limit=&offset=
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var opts repository.ListOptions
	if v := r.URL.Query().Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		opts.Offset, _ = strconv.Atoi(v)
	}

	posts, err := h.svc.ListPublished(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if posts == nil {
		posts = []model.Post{} // JSON [] instead of null
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleGet returns one post with comments. GET /api/posts/{id}
// Drafts only resolve for their author; the viewer may be anonymous.
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.UserFromContext(r.Context())

	post, comments, err := h.svc.GetPost(r.Context(), viewer, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	writeJSON(w, http.StatusOK, postDetailResponse{Post: post, Comments: comments})
}

// HandleCreate creates a post authored by the acting user.
// POST /api/posts (gated)
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())

	var in service.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	post, err := h.svc.CreatePost(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// HandleUpdate rewrites a post. PUT /api/posts/{id} (gated, author-only)
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())

	var in service.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	post, err := h.svc.UpdatePost(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post. DELETE /api/posts/{id} (gated, author-only)
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())

	if err := h.svc.DeletePost(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleComment adds a comment. POST /api/posts/{id}/comments (gated)
func (h *PostHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())

	var in struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	comment, err := h.svc.AddComment(r.Context(), actor, chi.URLParam(r, "id"), in.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// HandleLike records a like. POST /api/posts/{id}/like (gated, idempotent)
func (h *PostHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())

	if err := h.svc.LikePost(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Post liked."})
}

// HandleMyPosts lists the acting user's posts, drafts included.
// GET /api/me/posts (gated)
func (h *PostHandler) HandleMyPosts(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())

	posts, err := h.svc.ListByAuthor(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleTags lists all tags. GET /api/tags
func (h *PostHandler) HandleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}
