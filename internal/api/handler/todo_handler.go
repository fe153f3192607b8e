package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"blogg/internal/api/middleware"
	"blogg/internal/app/service"
	"blogg/internal/common"
	"blogg/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type TodoHandler struct {
	todoService *service.TodoService
}

func NewTodoHandler(ts *service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: ts}
}

func (h *TodoHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.RequireAPI)
	r.Get("/", h.listTodos)
	r.Post("/", h.createTodo)
	r.Put("/{todoID}", h.updateTodo)
	r.Delete("/{todoID}", h.deleteTodo)
}

func (h *TodoHandler) listTodos(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	todos, err := h.todoService.List(r.Context(), identity.UserID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	common.RespondWithJSON(w, http.StatusOK, todos)
}

type todoCreatedResponse struct {
	ID        int64  `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

func (h *TodoHandler) createTodo(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	todo, err := h.todoService.Create(r.Context(), identity.UserID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, todoCreatedResponse{
		ID:        todo.ID,
		Task:      todo.Task,
		Completed: todo.Completed,
	})
}

type todoMutationResponse struct {
	Success bool `json:"success"`
}

func (h *TodoHandler) updateTodo(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	todoID, err := strconv.ParseInt(chi.URLParam(r, "todoID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid todo id")
		return
	}

	// Body is optional; an absent completed field means false.
	var req service.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.todoService.Update(r.Context(), identity.UserID, todoID, req); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, todoMutationResponse{Success: true})
}

func (h *TodoHandler) deleteTodo(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	todoID, err := strconv.ParseInt(chi.URLParam(r, "todoID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid todo id")
		return
	}

	if err := h.todoService.Delete(r.Context(), identity.UserID, todoID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, todoMutationResponse{Success: true})
}
