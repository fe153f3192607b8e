package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"blogg/internal/api/middleware"
	"blogg/internal/app/service"
	"blogg/internal/common"
	"blogg/internal/domain/model"
	"blogg/internal/platform/session"

	"github.com/go-chi/chi/v5"
)

type PageHandler struct {
	postService *service.PostService
	todoService *service.TodoService
}

func NewPageHandler(ps *service.PostService, ts *service.TodoService) *PageHandler {
	return &PageHandler{postService: ps, todoService: ts}
}

func (h *PageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.index)
	r.Get("/post/{postID}", h.viewPost)

	r.Group(func(private chi.Router) {
		private.Use(middleware.RequirePage)
		private.Get("/dashboard", h.dashboard)
		private.Get("/create_post", h.createPostForm)
		private.Post("/create_post", h.createPost)
	})
}

type indexPageData struct {
	Identity *session.Identity
	Posts    []model.Post
}

type dashboardPageData struct {
	Identity *session.Identity
	Posts    []model.Post
	Todos    []model.Todo
}

type createPostPageData struct {
	Identity *session.Identity
	Error    string
	Title    string
	Content  string
}

type postPageData struct {
	Identity *session.Identity
	Post     *model.Post
}

// identityOf adapts the context identity to the optional pointer the
// templates expect.
func identityOf(r *http.Request) *session.Identity {
	if id, ok := middleware.GetIdentityFromContext(r.Context()); ok {
		return &id
	}
	return nil
}

func (h *PageHandler) index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListRecent(r.Context())
	if err != nil {
		log.Printf("list recent posts failed: %v", err)
		renderErrorPage(w, http.StatusInternalServerError)
		return
	}
	renderPage(w, "index", indexPageData{Identity: identityOf(r), Posts: posts})
}

func (h *PageHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	posts, err := h.postService.ListByAuthor(r.Context(), identity.UserID)
	if err != nil {
		log.Printf("list posts failed: %v", err)
		renderErrorPage(w, http.StatusInternalServerError)
		return
	}
	todos, err := h.todoService.List(r.Context(), identity.UserID)
	if err != nil {
		log.Printf("list todos failed: %v", err)
		renderErrorPage(w, http.StatusInternalServerError)
		return
	}
	renderPage(w, "dashboard", dashboardPageData{Identity: &identity, Posts: posts, Todos: todos})
}

func (h *PageHandler) createPostForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, "create_post", createPostPageData{Identity: identityOf(r)})
}

func (h *PageHandler) createPost(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		renderPage(w, "create_post", createPostPageData{Identity: &identity, Error: "Invalid form submission"})
		return
	}

	req := service.CreatePostRequest{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}
	if _, err := h.postService.CreatePost(r.Context(), identity.UserID, req); err != nil {
		if errors.Is(err, common.ErrValidation) {
			renderPage(w, "create_post", createPostPageData{
				Identity: &identity,
				Error:    "Title and content are required",
				Title:    req.Title,
				Content:  req.Content,
			})
			return
		}
		log.Printf("create post failed: %v", err)
		renderErrorPage(w, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *PageHandler) viewPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	post, err := h.postService.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		log.Printf("view post failed: %v", err)
		renderErrorPage(w, http.StatusInternalServerError)
		return
	}
	renderPage(w, "post", postPageData{Identity: identityOf(r), Post: post})
}

// NotFound renders the 404 page for unmatched routes.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderErrorPage(w, http.StatusNotFound)
}
