package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogg/internal/common"
	"blogg/internal/domain/model"
)

type UserRepository interface {
	// Create inserts the user and fills in the store-assigned ID. A duplicate
	// username surfaces as common.ErrConflict.
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, password_hash, email)
	          VALUES ($1, $2, $3) RETURNING id`
	email := sql.NullString{String: user.Email, Valid: user.Email != ""}
	err := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, email).Scan(&user.ID)
	if err != nil {
		if common.IsDuplicateKey(err) {
			return fmt.Errorf("username %q is already taken: %w", user.Username, common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, password_hash, email, created_at
	          FROM users WHERE username = $1`
	return scanPgUser(r.db.QueryRowContext(ctx, query, username), "FindByUsername")
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, username, password_hash, email, created_at
	          FROM users WHERE id = $1`
	return scanPgUser(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func scanPgUser(row *sql.Row, op string) (*model.User, error) {
	user := &model.User{}
	var email sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	user.Email = email.String
	return user, nil
}
