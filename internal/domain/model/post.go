package model

import (
	"time"
)

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	// AuthorUsername is populated by queries that join users, e.g. the
	// front-page listing and the single-post view.
	AuthorUsername string `json:"author_username,omitempty"`
}
