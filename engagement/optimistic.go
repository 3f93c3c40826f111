package engagement

import (
	"sync"

	"xuyenblog/models"
)

// MutationState tracks an optimistic change through its lifecycle:
// Idle -> Pending -> Committed or RolledBack.
type MutationState int

const (
	StateIdle MutationState = iota
	StatePending
	StateCommitted
	StateRolledBack
)

func (s MutationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

type snapshot struct {
	post models.Post
	had  bool
}

// PostCache is the locally observed view of posts. Mutating operations apply
// their result here before the store round-trips finish; Commit keeps the
// optimistic value, Rollback restores the snapshot taken at Begin. Only one
// mutation may be in flight per post id, which is what keeps two overlapping
// toggles from the same client off the wire.
type PostCache struct {
	mu      sync.Mutex
	posts   map[string]models.Post
	pending map[string]snapshot
}

func NewPostCache() *PostCache {
	return &PostCache{
		posts:   make(map[string]models.Post),
		pending: make(map[string]snapshot),
	}
}

// Put stores the authoritative copy of a post, typically after a read.
// Refused while a mutation for the post is pending so a stale refetch cannot
// clobber an optimistic value.
func (c *PostCache) Put(p models.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.pending[p.ID]; busy {
		return
	}
	c.posts[p.ID] = p
}

func (c *PostCache) Get(id string) (models.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.posts[id]
	return p, ok
}

// Drop forgets a post, e.g. after a cascade delete.
func (c *PostCache) Drop(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.posts, id)
	delete(c.pending, id)
}

// Begin reserves the post for one optimistic mutation and snapshots its
// current cached value. Returns ErrPending if another mutation holds the
// reservation.
func (c *PostCache) Begin(id string) (*Mutation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.pending[id]; busy {
		return nil, ErrPending
	}
	prev, had := c.posts[id]
	c.pending[id] = snapshot{post: prev, had: had}
	return &Mutation{cache: c, id: id, state: StateIdle}, nil
}

// Mutation is a single optimistic change to one post. Not safe for
// concurrent use; the owning operation drives it sequentially.
type Mutation struct {
	cache *PostCache
	id    string
	state MutationState
}

func (m *Mutation) State() MutationState { return m.state }

// Apply writes the optimistic value into the cache and moves to Pending.
func (m *Mutation) Apply(p models.Post) {
	if m.state != StateIdle && m.state != StatePending {
		return
	}
	m.cache.mu.Lock()
	m.cache.posts[m.id] = p
	m.cache.mu.Unlock()
	m.state = StatePending
}

// Commit keeps the optimistic value and releases the reservation.
func (m *Mutation) Commit() {
	if m.state == StateCommitted || m.state == StateRolledBack {
		return
	}
	m.cache.mu.Lock()
	delete(m.cache.pending, m.id)
	m.cache.mu.Unlock()
	m.state = StateCommitted
}

// Rollback restores the pre-mutation snapshot and releases the reservation.
func (m *Mutation) Rollback() {
	if m.state == StateCommitted || m.state == StateRolledBack {
		return
	}
	m.cache.mu.Lock()
	snap := m.cache.pending[m.id]
	if snap.had {
		m.cache.posts[m.id] = snap.post
	} else {
		delete(m.cache.posts, m.id)
	}
	delete(m.cache.pending, m.id)
	m.cache.mu.Unlock()
	m.state = StateRolledBack
}
