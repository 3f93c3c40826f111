package store

import (
	"context"
	"errors"
	"net/url"

	"xuyenblog/models"
)

var (
	// ErrNotFound means the referenced document no longer exists in the store.
	ErrNotFound = errors.New("store: document not found")
	// ErrUnavailable wraps transport and store-level failures.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store is the generic resource store the application runs against. It offers
// plain per-collection CRUD with equality filters; it performs no referential
// integrity or transactional checks, so every invariant is enforced by the
// caller before and after each call.
//
// Filters use the store's query-string conventions: field names map to
// equality matches, "_sort" and "_order" control list ordering.
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, filter url.Values) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error

	GetPost(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, filter url.Values) ([]models.Post, error)
	CreatePost(ctx context.Context, p *models.Post) error
	UpdatePost(ctx context.Context, p *models.Post) error
	DeletePost(ctx context.Context, id string) error

	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context, filter url.Values) ([]models.Comment, error)
	CreateComment(ctx context.Context, cm *models.Comment) error
	DeleteComment(ctx context.Context, id string) error

	ListLikes(ctx context.Context, filter url.Values) ([]models.Like, error)
	CreateLike(ctx context.Context, l *models.Like) error
	DeleteLike(ctx context.Context, id string) error
}

// Filter builds an equality filter from key/value pairs.
func Filter(pairs ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}
