package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogg/internal/common"
	"blogg/internal/domain/model"
)

type PostRepository interface {
	// Create inserts the post and fills in the store-assigned ID. Posts are
	// immutable after creation; there is no update or delete.
	Create(ctx context.Context, post *model.Post) error
	// ListRecent returns at most limit posts, newest first, with the author
	// username joined in.
	ListRecent(ctx context.Context, limit int) ([]model.Post, error)
	// FindByID returns one post with its author username, or common.ErrNotFound.
	FindByID(ctx context.Context, id int64) (*model.Post, error)
	// ListByAuthor returns all posts written by the given user, newest first.
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Post, error)
}

type pgPostRepository struct {
	db *sql.DB
}

func NewPgPostRepository(db *sql.DB) PostRepository {
	return &pgPostRepository{db: db}
}

func (r *pgPostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (title, content, author_id)
	          VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, post.Title, post.Content, post.AuthorID).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPostRepository) ListRecent(ctx context.Context, limit int) ([]model.Post, error) {
	query := `SELECT p.id, p.title, p.content, p.author_id, p.created_at, u.username
	          FROM posts p
	          JOIN users u ON p.author_id = u.id
	          ORDER BY p.created_at DESC, p.id DESC
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.ListRecent: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.AuthorUsername); err != nil {
			return nil, fmt.Errorf("pgPostRepository.ListRecent: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *pgPostRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	query := `SELECT p.id, p.title, p.content, p.author_id, p.created_at, u.username
	          FROM posts p
	          JOIN users u ON p.author_id = u.id
	          WHERE p.id = $1`
	p := &model.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.AuthorUsername,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPostRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *pgPostRepository) ListByAuthor(ctx context.Context, authorID int64) ([]model.Post, error) {
	query := `SELECT id, title, content, author_id, created_at
	          FROM posts WHERE author_id = $1
	          ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.ListByAuthor: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgPostRepository.ListByAuthor: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
