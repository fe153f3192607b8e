package api

import (
	"net/http"
	"time"

	"blogg/internal/api/handler"
	appMiddleware "blogg/internal/api/middleware"
	"blogg/internal/app/service"
	"blogg/internal/common/security"
	"blogg/internal/platform/session"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	postService *service.PostService,
	todoService *service.TodoService,
	sessions session.Store,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Identity resolution: bearer tokens via jwtauth, session cookies via the
	// store. Guards on individual route groups decide who gets in.
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Use(appMiddleware.Identify(sessions))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService, sessions)
	pageHandler := handler.NewPageHandler(postService, todoService)
	todoHandler := handler.NewTodoHandler(todoService)

	// Server-rendered pages
	authHandler.RegisterRoutes(r)
	pageHandler.RegisterRoutes(r)

	// JSON API
	r.Route("/api", func(api chi.Router) {
		api.Post("/login", authHandler.APILogin)
		api.Route("/todos", todoHandler.RegisterRoutes)
	})

	r.NotFound(pageHandler.NotFound)

	return r
}
