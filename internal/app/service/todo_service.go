package service

import (
	"context"
	"fmt"

	"blogg/internal/common"
	"blogg/internal/domain/model"
	"blogg/internal/domain/repository"
)

type TodoService struct {
	todoRepo repository.TodoRepository
}

func NewTodoService(todoRepo repository.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

type CreateTodoRequest struct {
	Task string `json:"task"`
}

type UpdateTodoRequest struct {
	Completed bool `json:"completed"`
}

func (s *TodoService) List(ctx context.Context, userID int64) ([]model.Todo, error) {
	return s.todoRepo.ListByOwner(ctx, userID)
}

func (s *TodoService) Create(ctx context.Context, userID int64, req CreateTodoRequest) (*model.Todo, error) {
	if req.Task == "" {
		return nil, fmt.Errorf("task is required: %w", common.ErrValidation)
	}
	todo := &model.Todo{
		Task:   req.Task,
		UserID: userID,
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Update sets the completion flag of the todo matching both id and owner.
// When nothing matches — wrong owner or nonexistent id — the call still
// succeeds without touching anything. Clients get no signal to probe other
// users' ids with.
func (s *TodoService) Update(ctx context.Context, userID, todoID int64, req UpdateTodoRequest) error {
	_, err := s.todoRepo.SetCompleted(ctx, todoID, userID, req.Completed)
	return err
}

// Delete removes the todo matching both id and owner, with the same
// no-match-is-success contract as Update.
func (s *TodoService) Delete(ctx context.Context, userID, todoID int64) error {
	_, err := s.todoRepo.Delete(ctx, todoID, userID)
	return err
}
