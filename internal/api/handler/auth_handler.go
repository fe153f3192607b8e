package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"blogg/internal/api/middleware"
	"blogg/internal/api/templates"
	"blogg/internal/app/service"
	"blogg/internal/common"
	"blogg/internal/common/security"
	"blogg/internal/domain/model"
	"blogg/internal/platform/session"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	sessions    session.Store
}

func NewAuthHandler(authService *service.AuthService, sessions session.Store) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/register", h.registerForm)
	r.Post("/register", h.register)
	r.Get("/login", h.loginForm)
	r.Post("/login", h.login)
	r.Get("/logout", h.logout)
}

type authPageData struct {
	Identity *session.Identity
	Error    string
}

func (h *AuthHandler) registerForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, "register", authPageData{})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderPage(w, "register", authPageData{Error: "Invalid form submission"})
		return
	}

	req := service.RegisterRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Email:    r.PostFormValue("email"),
	}
	if _, err := h.authService.Register(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			renderPage(w, "register", authPageData{Error: "Username and password are required"})
		case errors.Is(err, common.ErrConflict):
			renderPage(w, "register", authPageData{Error: "Username already taken"})
		default:
			log.Printf("register failed: %v", err)
			renderErrorPage(w, http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) loginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, "login", authPageData{})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderPage(w, "login", authPageData{Error: "Invalid form submission"})
		return
	}

	req := service.LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	user, err := h.authService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			renderPage(w, "login", authPageData{Error: "Invalid credentials"})
			return
		}
		log.Printf("login failed: %v", err)
		renderErrorPage(w, http.StatusInternalServerError)
		return
	}

	token, err := h.sessions.Create(r.Context(), session.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		log.Printf("session create failed: %v", err)
		renderErrorPage(w, http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			log.Printf("session destroy failed: %v", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type apiLoginResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// APILogin is the JSON variant of login for programmatic clients. It issues a
// bearer token instead of a session cookie.
func (h *AuthHandler) APILogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	token, err := security.GenerateToken(user.ID, user.Username)
	if err != nil {
		common.RespondWithError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, apiLoginResponse{User: user, Token: token})
}

func renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Render(w, name, data); err != nil {
		log.Printf("render %s failed: %v", name, err)
	}
}

func renderErrorPage(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	name := "500"
	if code == http.StatusNotFound {
		name = "404"
	}
	if err := templates.Render(w, name, nil); err != nil {
		log.Printf("render %s failed: %v", name, err)
	}
}
