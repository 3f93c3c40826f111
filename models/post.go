package models

import "time"

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Post carries two denormalized counters. They are caches of the number of
// Like and Comment records referencing the post; the engagement package is
// responsible for keeping them in step with the child collections.
type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"` // sanitized HTML from the editor
	Visibility    Visibility `json:"visibility"`
	AuthorID      string     `json:"authorId"`
	CreatedAt     time.Time  `json:"createdAt"`
	LikesCount    int        `json:"likesCount"`
	CommentsCount int        `json:"commentsCount"`
}
