package service

import (
	"context"
	"fmt"

	"blogg/internal/common"
	"blogg/internal/domain/model"
	"blogg/internal/domain/repository"
)

// recentPostLimit caps the front-page listing regardless of how many posts
// exist in total.
const recentPostLimit = 5

type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreatePost inserts a post authored by the given user. The caller must have
// resolved authorID from an authenticated identity; this service never reads
// ambient state.
func (s *PostService) CreatePost(ctx context.Context, authorID int64, req CreatePostRequest) (*model.Post, error) {
	if req.Title == "" || req.Content == "" {
		return nil, fmt.Errorf("title and content are required: %w", common.ErrValidation)
	}
	post := &model.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListRecent(ctx context.Context) ([]model.Post, error) {
	return s.postRepo.ListRecent(ctx, recentPostLimit)
}

func (s *PostService) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	return s.postRepo.FindByID(ctx, id)
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID int64) ([]model.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID)
}
