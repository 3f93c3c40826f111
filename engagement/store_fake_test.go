package engagement

import (
	"context"
	"net/url"
	"sync"

	"xuyenblog/models"
	"xuyenblog/store"
)

// fakeStore is an in-memory store.Store with per-operation fault injection.
// Setting failOn["CreateLike"] makes that call fail, which is how the
// partial-failure paths get exercised.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	posts    map[string]models.Post
	comments map[string]models.Comment
	likes    map[string]models.Like
	failOn   map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]models.User),
		posts:    make(map[string]models.Post),
		comments: make(map[string]models.Comment),
		likes:    make(map[string]models.Like),
		failOn:   make(map[string]error),
	}
}

func (f *fakeStore) failNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn[op] = err
}

func (f *fakeStore) check(op string) error {
	if err, ok := f.failOn[op]; ok {
		return err
	}
	return nil
}

func match(filter url.Values, fields map[string]string) bool {
	for key := range filter {
		if key == "_sort" || key == "_order" {
			continue
		}
		if fields[key] != filter.Get(key) {
			return false
		}
	}
	return true
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("GetUser"); err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeStore) ListUsers(_ context.Context, filter url.Values) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("ListUsers"); err != nil {
		return nil, err
	}
	out := []models.User{}
	for _, u := range f.users {
		if match(filter, map[string]string{"username": u.Username}) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("CreateUser"); err != nil {
		return err
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeStore) UpdateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("UpdateUser"); err != nil {
		return err
	}
	if _, ok := f.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("DeleteUser"); err != nil {
		return err
	}
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) GetPost(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("GetPost"); err != nil {
		return nil, err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) ListPosts(_ context.Context, filter url.Values) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("ListPosts"); err != nil {
		return nil, err
	}
	out := []models.Post{}
	for _, p := range f.posts {
		if match(filter, map[string]string{"authorId": p.AuthorID, "visibility": string(p.Visibility)}) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) CreatePost(_ context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("CreatePost"); err != nil {
		return err
	}
	f.posts[p.ID] = *p
	return nil
}

func (f *fakeStore) UpdatePost(_ context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("UpdatePost"); err != nil {
		return err
	}
	if _, ok := f.posts[p.ID]; !ok {
		return store.ErrNotFound
	}
	f.posts[p.ID] = *p
	return nil
}

func (f *fakeStore) DeletePost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("DeletePost"); err != nil {
		return err
	}
	if _, ok := f.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakeStore) GetComment(_ context.Context, id string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("GetComment"); err != nil {
		return nil, err
	}
	cm, ok := f.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &cm, nil
}

func (f *fakeStore) ListComments(_ context.Context, filter url.Values) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("ListComments"); err != nil {
		return nil, err
	}
	out := []models.Comment{}
	for _, cm := range f.comments {
		if match(filter, map[string]string{"postId": cm.PostID, "userId": cm.UserID}) {
			out = append(out, cm)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateComment(_ context.Context, cm *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("CreateComment"); err != nil {
		return err
	}
	f.comments[cm.ID] = *cm
	return nil
}

func (f *fakeStore) DeleteComment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("DeleteComment"); err != nil {
		return err
	}
	if _, ok := f.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeStore) ListLikes(_ context.Context, filter url.Values) ([]models.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("ListLikes"); err != nil {
		return nil, err
	}
	out := []models.Like{}
	for _, l := range f.likes {
		if match(filter, map[string]string{"postId": l.PostID, "userId": l.UserID}) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateLike(_ context.Context, l *models.Like) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("CreateLike"); err != nil {
		return err
	}
	f.likes[l.ID] = *l
	return nil
}

func (f *fakeStore) DeleteLike(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("DeleteLike"); err != nil {
		return err
	}
	if _, ok := f.likes[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.likes, id)
	return nil
}

var _ store.Store = (*fakeStore)(nil)
