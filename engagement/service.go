package engagement

import (
	"context"
	"errors"
	"strings"
	"time"

	"xuyenblog/models"
	"xuyenblog/store"

	"github.com/google/uuid"
)

// Service keeps the denormalized post counters (likesCount, commentsCount)
// and the like/comment child collections in step across independent store
// calls. The store offers no transactions or compare-and-swap, so every
// multi-step sequence here is ordered to stay safe under partial failure:
// children are deleted before parents, every delete tolerates NotFound, and
// counter updates come last. Two clients racing on the same post can still
// drift a counter from the true membership count; that limitation is accepted
// rather than masked.
type Service struct {
	store store.Store
	cache *PostCache

	now   func() time.Time
	newID func() string
}

func NewService(st store.Store) *Service {
	return &Service{
		store: st,
		cache: NewPostCache(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Cache exposes the optimistic view for read paths.
func (s *Service) Cache() *PostCache { return s.cache }

// GetPost reads through to the store and refreshes the cached view.
func (s *Service) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Put(*post)
	return post, nil
}

// ToggleResult reports the membership and counter after a toggle.
type ToggleResult struct {
	Liked    bool `json:"liked"`
	NewCount int  `json:"likesCount"`
}

// ToggleLike inverts the (actor, post) like membership and adjusts the
// post's likesCount. The membership mutation and the counter update are two
// separate store calls; the optimistic view is committed only after both
// succeed and rolled back if either fails. Not idempotent: each call inverts
// the previous state.
func (s *Service) ToggleLike(ctx context.Context, postID string, actor *models.User) (ToggleResult, error) {
	if actor == nil {
		return ToggleResult{}, ErrUnauthenticated
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return ToggleResult{}, err
	}

	likes, err := s.store.ListLikes(ctx, store.Filter("userId", actor.ID, "postId", postID))
	if err != nil {
		return ToggleResult{}, err
	}

	mut, err := s.cache.Begin(postID)
	if err != nil {
		return ToggleResult{}, err
	}

	updated := *post
	var result ToggleResult
	if len(likes) > 0 {
		updated.LikesCount = max(0, post.LikesCount-1)
		result = ToggleResult{Liked: false, NewCount: updated.LikesCount}
	} else {
		updated.LikesCount = post.LikesCount + 1
		result = ToggleResult{Liked: true, NewCount: updated.LikesCount}
	}
	mut.Apply(updated)

	if len(likes) > 0 {
		// Remove every matching record; drift may have left duplicates and
		// the unique-pair invariant is restored on the way out.
		for _, like := range likes {
			if err := s.store.DeleteLike(ctx, like.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
				mut.Rollback()
				return ToggleResult{}, err
			}
		}
	} else {
		like := &models.Like{ID: s.newID(), UserID: actor.ID, PostID: postID}
		if err := s.store.CreateLike(ctx, like); err != nil {
			mut.Rollback()
			return ToggleResult{}, err
		}
	}

	if err := s.store.UpdatePost(ctx, &updated); err != nil {
		mut.Rollback()
		return ToggleResult{}, err
	}
	mut.Commit()
	return result, nil
}

// AddComment creates a comment under the post and increments commentsCount.
// A failure after the comment is created but before the counter lands leaves
// an undercount in the store; the error is surfaced so the caller can
// refetch, and the optimistic view is rolled back.
func (s *Service) AddComment(ctx context.Context, postID string, actor *models.User, content string) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	mut, err := s.cache.Begin(postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        s.newID(),
		Content:   content,
		UserID:    actor.ID,
		PostID:    postID,
		CreatedAt: s.now().UTC(),
	}
	updated := *post
	updated.CommentsCount = post.CommentsCount + 1
	mut.Apply(updated)

	if err := s.store.CreateComment(ctx, comment); err != nil {
		mut.Rollback()
		return nil, err
	}
	if err := s.store.UpdatePost(ctx, &updated); err != nil {
		mut.Rollback()
		return nil, err
	}
	mut.Commit()
	return comment, nil
}

// DeleteComment removes a comment (owner or admin only) and decrements the
// parent's commentsCount, clamped at zero. Tolerates the parent post having
// already been deleted.
func (s *Service) DeleteComment(ctx context.Context, commentID, postID string, actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !CanEditComment(*comment, actor) {
		return ErrForbidden
	}

	if err := s.store.DeleteComment(ctx, commentID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	post, err := s.store.GetPost(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	mut, err := s.cache.Begin(postID)
	if err != nil {
		return err
	}
	updated := *post
	updated.CommentsCount = max(0, post.CommentsCount-1)
	mut.Apply(updated)
	if err := s.store.UpdatePost(ctx, &updated); err != nil {
		mut.Rollback()
		return err
	}
	mut.Commit()
	return nil
}

// DeletePost cascades: comments first, then likes, then the post itself, so
// an interrupted run never leaves orphaned children under a live parent.
// Every step is delete-if-exists, which makes the whole cascade safe to
// re-invoke; a second call on an already-deleted id is a no-op.
func (s *Service) DeletePost(ctx context.Context, postID string, actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	post, err := s.store.GetPost(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !CanEditPost(*post, actor) {
		return ErrForbidden
	}

	byPost := store.Filter("postId", postID)

	comments, err := s.store.ListComments(ctx, byPost)
	if err != nil {
		return err
	}
	for _, cm := range comments {
		if err := s.store.DeleteComment(ctx, cm.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	likes, err := s.store.ListLikes(ctx, byPost)
	if err != nil {
		return err
	}
	for _, like := range likes {
		if err := s.store.DeleteLike(ctx, like.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	if err := s.store.DeletePost(ctx, postID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	s.cache.Drop(postID)
	return nil
}

// DeleteUser is admin-only moderation. It cascades the user's authored posts
// (each with its own comment/like cascade), removes the user's engagement on
// other posts with the matching counter decrements, then deletes the user
// record. Re-invocable like DeletePost.
func (s *Service) DeleteUser(ctx context.Context, userID string, actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.Role.CanModerate() {
		return ErrForbidden
	}

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	posts, err := s.store.ListPosts(ctx, store.Filter("authorId", userID))
	if err != nil {
		return err
	}
	for _, p := range posts {
		if err := s.DeletePost(ctx, p.ID, actor); err != nil {
			return err
		}
	}

	byUser := store.Filter("userId", userID)

	comments, err := s.store.ListComments(ctx, byUser)
	if err != nil {
		return err
	}
	for _, cm := range comments {
		if err := s.DeleteComment(ctx, cm.ID, cm.PostID, actor); err != nil {
			return err
		}
	}

	likes, err := s.store.ListLikes(ctx, byUser)
	if err != nil {
		return err
	}
	for _, like := range likes {
		if err := s.store.DeleteLike(ctx, like.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err := s.decrementLikeCount(ctx, like.PostID); err != nil {
			return err
		}
	}

	if err := s.store.DeleteUser(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) decrementLikeCount(ctx context.Context, postID string) error {
	post, err := s.store.GetPost(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	mut, err := s.cache.Begin(postID)
	if err != nil {
		return err
	}
	updated := *post
	updated.LikesCount = max(0, post.LikesCount-1)
	mut.Apply(updated)
	if err := s.store.UpdatePost(ctx, &updated); err != nil {
		mut.Rollback()
		return err
	}
	mut.Commit()
	return nil
}
