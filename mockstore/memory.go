package mockstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryBackend keeps every collection in process memory. Lists come back in
// insertion order unless a sort is requested; documents are copied on the
// way in and out so callers never alias store state.
type MemoryBackend struct {
	mu    sync.RWMutex
	docs  map[string]map[string]map[string]any
	order map[string][]string
}

func NewMemoryBackend() *MemoryBackend {
	b := &MemoryBackend{
		docs:  make(map[string]map[string]map[string]any),
		order: make(map[string][]string),
	}
	for _, coll := range Collections {
		b.docs[coll] = make(map[string]map[string]any)
	}
	return b
}

func copyDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func (b *MemoryBackend) List(_ context.Context, coll string, filter map[string]string, sortField, order string) ([]map[string]any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]map[string]any, 0)
	for _, id := range b.order[coll] {
		doc, ok := b.docs[coll][id]
		if !ok {
			continue
		}
		if matches(doc, filter) {
			out = append(out, copyDoc(doc))
		}
	}

	if sortField != "" {
		desc := order == "desc"
		sort.SliceStable(out, func(i, j int) bool {
			less := compareValues(out[i][sortField], out[j][sortField])
			if desc {
				return !less && !equalValues(out[i][sortField], out[j][sortField])
			}
			return less
		})
	}
	return out, nil
}

func matches(doc map[string]any, filter map[string]string) bool {
	for field, want := range filter {
		if fmt.Sprintf("%v", doc[field]) != want {
			return false
		}
	}
	return true
}

// compareValues orders JSON scalars: numbers numerically, everything else by
// its string form. RFC 3339 timestamps therefore sort chronologically.
func compareValues(a, b any) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func equalValues(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func (b *MemoryBackend) Get(_ context.Context, coll, id string) (map[string]any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	doc, ok := b.docs[coll][id]
	if !ok {
		return nil, ErrNoDocument
	}
	return copyDoc(doc), nil
}

func (b *MemoryBackend) Insert(_ context.Context, coll string, doc map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := fmt.Sprintf("%v", doc["id"])
	if _, exists := b.docs[coll][id]; !exists {
		b.order[coll] = append(b.order[coll], id)
	}
	b.docs[coll][id] = copyDoc(doc)
	return nil
}

func (b *MemoryBackend) Replace(_ context.Context, coll, id string, doc map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.docs[coll][id]; !ok {
		return ErrNoDocument
	}
	b.docs[coll][id] = copyDoc(doc)
	return nil
}

func (b *MemoryBackend) Patch(_ context.Context, coll, id string, fields map[string]any) (map[string]any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, ok := b.docs[coll][id]
	if !ok {
		return nil, ErrNoDocument
	}
	for k, v := range fields {
		doc[k] = v
	}
	return copyDoc(doc), nil
}

func (b *MemoryBackend) Delete(_ context.Context, coll, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.docs[coll][id]; !ok {
		return ErrNoDocument
	}
	delete(b.docs[coll], id)
	return nil
}
