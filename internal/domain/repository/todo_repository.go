package repository

import (
	"context"
	"database/sql"
	"fmt"

	"blogg/internal/domain/model"
)

type TodoRepository interface {
	// Create inserts the todo (completed defaults to false) and fills in the
	// store-assigned ID.
	Create(ctx context.Context, todo *model.Todo) error
	// ListByOwner returns the user's todos, newest first. Every query in this
	// interface filters by owner; a todo is unreachable through any other
	// user's id, guessed or not.
	ListByOwner(ctx context.Context, userID int64) ([]model.Todo, error)
	// SetCompleted updates the completion flag of the todo matching both id
	// and owner, returning the number of rows matched (0 or 1). Zero matches
	// is not an error.
	SetCompleted(ctx context.Context, id, userID int64, completed bool) (int64, error)
	// Delete removes the todo matching both id and owner, returning the
	// number of rows matched. Same zero-match contract as SetCompleted.
	Delete(ctx context.Context, id, userID int64) (int64, error)
}

type pgTodoRepository struct {
	db *sql.DB
}

func NewPgTodoRepository(db *sql.DB) TodoRepository {
	return &pgTodoRepository{db: db}
}

func (r *pgTodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	query := `INSERT INTO todos (task, user_id) VALUES ($1, $2) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, todo.Task, todo.UserID).Scan(&todo.ID)
	if err != nil {
		return fmt.Errorf("pgTodoRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTodoRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Todo, error) {
	query := `SELECT id, task, completed, user_id, created_at
	          FROM todos WHERE user_id = $1
	          ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgTodoRepository.ListByOwner: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.Task, &t.Completed, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgTodoRepository.ListByOwner: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *pgTodoRepository) SetCompleted(ctx context.Context, id, userID int64, completed bool) (int64, error) {
	query := `UPDATE todos SET completed = $1 WHERE id = $2 AND user_id = $3`
	res, err := r.db.ExecContext(ctx, query, completed, id, userID)
	if err != nil {
		return 0, fmt.Errorf("pgTodoRepository.SetCompleted: %w", err)
	}
	return res.RowsAffected()
}

func (r *pgTodoRepository) Delete(ctx context.Context, id, userID int64) (int64, error) {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("pgTodoRepository.Delete: %w", err)
	}
	return res.RowsAffected()
}
