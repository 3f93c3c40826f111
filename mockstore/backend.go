package mockstore

import (
	"context"
	"errors"
)

// Collections served by the store. Anything else is a 404; the store itself
// knows nothing about the document shapes inside.
var Collections = []string{"users", "posts", "comments", "likes"}

// ErrNoDocument is returned by backends when the id does not exist.
var ErrNoDocument = errors.New("mockstore: no such document")

// Backend is the persistence behind the REST surface. Documents are
// schemaless JSON objects keyed by their "id" field. No referential
// integrity, no transactions; one call, one document (or one list).
type Backend interface {
	List(ctx context.Context, coll string, filter map[string]string, sortField, order string) ([]map[string]any, error)
	Get(ctx context.Context, coll, id string) (map[string]any, error)
	Insert(ctx context.Context, coll string, doc map[string]any) error
	Replace(ctx context.Context, coll, id string, doc map[string]any) error
	Patch(ctx context.Context, coll, id string, fields map[string]any) (map[string]any, error)
	Delete(ctx context.Context, coll, id string) error
}
