package repository

import (
	"context"
	"database/sql"
	"fmt"

	"blogg/internal/domain/model"
)

type sqliteTodoRepository struct {
	db *sql.DB
}

func NewSQLiteTodoRepository(db *sql.DB) TodoRepository {
	return &sqliteTodoRepository{db: db}
}

func (r *sqliteTodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	query := `INSERT INTO todos (task, user_id) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, todo.Task, todo.UserID)
	if err != nil {
		return fmt.Errorf("sqliteTodoRepository.Create: %w", err)
	}
	todo.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqliteTodoRepository.Create: %w", err)
	}
	return nil
}

func (r *sqliteTodoRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Todo, error) {
	query := `SELECT id, task, completed, user_id, created_at
	          FROM todos WHERE user_id = ?
	          ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("sqliteTodoRepository.ListByOwner: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		var t model.Todo
		var created string
		if err := rows.Scan(&t.ID, &t.Task, &t.Completed, &t.UserID, &created); err != nil {
			return nil, fmt.Errorf("sqliteTodoRepository.ListByOwner: %w", err)
		}
		t.CreatedAt = parseSQLiteTime(created)
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *sqliteTodoRepository) SetCompleted(ctx context.Context, id, userID int64, completed bool) (int64, error) {
	query := `UPDATE todos SET completed = ? WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query, completed, id, userID)
	if err != nil {
		return 0, fmt.Errorf("sqliteTodoRepository.SetCompleted: %w", err)
	}
	return res.RowsAffected()
}

func (r *sqliteTodoRepository) Delete(ctx context.Context, id, userID int64) (int64, error) {
	query := `DELETE FROM todos WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("sqliteTodoRepository.Delete: %w", err)
	}
	return res.RowsAffected()
}
