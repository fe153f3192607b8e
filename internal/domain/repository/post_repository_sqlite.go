package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogg/internal/common"
	"blogg/internal/domain/model"
)

type sqlitePostRepository struct {
	db *sql.DB
}

func NewSQLitePostRepository(db *sql.DB) PostRepository {
	return &sqlitePostRepository{db: db}
}

func (r *sqlitePostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (title, content, author_id) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.AuthorID)
	if err != nil {
		return fmt.Errorf("sqlitePostRepository.Create: %w", err)
	}
	post.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlitePostRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlitePostRepository) ListRecent(ctx context.Context, limit int) ([]model.Post, error) {
	query := `SELECT p.id, p.title, p.content, p.author_id, p.created_at, u.username
	          FROM posts p
	          JOIN users u ON p.author_id = u.id
	          ORDER BY p.created_at DESC, p.id DESC
	          LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlitePostRepository.ListRecent: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		var created string
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &created, &p.AuthorUsername); err != nil {
			return nil, fmt.Errorf("sqlitePostRepository.ListRecent: %w", err)
		}
		p.CreatedAt = parseSQLiteTime(created)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *sqlitePostRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	query := `SELECT p.id, p.title, p.content, p.author_id, p.created_at, u.username
	          FROM posts p
	          JOIN users u ON p.author_id = u.id
	          WHERE p.id = ?`
	p := &model.Post{}
	var created string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Content, &p.AuthorID, &created, &p.AuthorUsername,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlitePostRepository.FindByID: %w", err)
	}
	p.CreatedAt = parseSQLiteTime(created)
	return p, nil
}

func (r *sqlitePostRepository) ListByAuthor(ctx context.Context, authorID int64) ([]model.Post, error) {
	query := `SELECT id, title, content, author_id, created_at
	          FROM posts WHERE author_id = ?
	          ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("sqlitePostRepository.ListByAuthor: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		var created string
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &created); err != nil {
			return nil, fmt.Errorf("sqlitePostRepository.ListByAuthor: %w", err)
		}
		p.CreatedAt = parseSQLiteTime(created)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
