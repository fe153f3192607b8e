package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogg/internal/common"
	"blogg/internal/domain/model"
)

type sqliteUserRepository struct {
	db *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

func (r *sqliteUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, password_hash, email) VALUES (?, ?, ?)`
	email := sql.NullString{String: user.Email, Valid: user.Email != ""}
	res, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash, email)
	if err != nil {
		if common.IsDuplicateKey(err) {
			return fmt.Errorf("username %q is already taken: %w", user.Username, common.ErrConflict)
		}
		return fmt.Errorf("sqliteUserRepository.Create: %w", err)
	}
	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqliteUserRepository.Create: %w", err)
	}
	return nil
}

func (r *sqliteUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, password_hash, email, created_at
	          FROM users WHERE username = ?`
	return scanSQLiteUser(r.db.QueryRowContext(ctx, query, username), "FindByUsername")
}

func (r *sqliteUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, username, password_hash, email, created_at
	          FROM users WHERE id = ?`
	return scanSQLiteUser(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func scanSQLiteUser(row *sql.Row, op string) (*model.User, error) {
	user := &model.User{}
	var email sql.NullString
	var created string
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &email, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqliteUserRepository.%s: %w", op, err)
	}
	user.Email = email.String
	user.CreatedAt = parseSQLiteTime(created)
	return user, nil
}
