package engagement

import (
	"context"
	"errors"
	"testing"
	"time"

	"xuyenblog/models"
	"xuyenblog/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = &models.User{ID: "u1", Role: models.RoleUser}
	bob   = &models.User{ID: "u2", Role: models.RoleUser}
	root  = &models.User{ID: "u9", Role: models.RoleAdmin}
)

func newTestService(fs *fakeStore) *Service {
	svc := NewService(fs)
	seq := 0
	svc.newID = func() string {
		seq++
		return "gen-" + string(rune('a'+seq-1))
	}
	svc.now = func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func seedPost(fs *fakeStore, id, authorID string, likes, comments int) models.Post {
	p := models.Post{
		ID:            id,
		Title:         "A post about nothing",
		Content:       "<p>hello</p>",
		Visibility:    models.VisibilityPublic,
		AuthorID:      authorID,
		CreatedAt:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		LikesCount:    likes,
		CommentsCount: comments,
	}
	fs.posts[id] = p
	return p
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("like then unlike inverts state and counter", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 3, 0)

		res, err := svc.ToggleLike(ctx, "p1", alice)
		require.NoError(t, err)
		assert.True(t, res.Liked)
		assert.Equal(t, 4, res.NewCount)
		assert.Equal(t, 4, fs.posts["p1"].LikesCount)

		likes, _ := fs.ListLikes(ctx, store.Filter("userId", "u1", "postId", "p1"))
		require.Len(t, likes, 1)

		res, err = svc.ToggleLike(ctx, "p1", alice)
		require.NoError(t, err)
		assert.False(t, res.Liked)
		assert.Equal(t, 3, res.NewCount)
		assert.Equal(t, 3, fs.posts["p1"].LikesCount)

		likes, _ = fs.ListLikes(ctx, store.Filter("userId", "u1", "postId", "p1"))
		assert.Empty(t, likes)
	})

	t.Run("counter never goes negative on unlike", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 0, 0)
		fs.likes["l1"] = models.Like{ID: "l1", UserID: alice.ID, PostID: "p1"}

		res, err := svc.ToggleLike(ctx, "p1", alice)
		require.NoError(t, err)
		assert.False(t, res.Liked)
		assert.Equal(t, 0, res.NewCount)
	})

	t.Run("drifted duplicate likes are all removed", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 2, 0)
		fs.likes["l1"] = models.Like{ID: "l1", UserID: alice.ID, PostID: "p1"}
		fs.likes["l2"] = models.Like{ID: "l2", UserID: alice.ID, PostID: "p1"}

		res, err := svc.ToggleLike(ctx, "p1", alice)
		require.NoError(t, err)
		assert.False(t, res.Liked)

		likes, _ := fs.ListLikes(ctx, store.Filter("userId", "u1", "postId", "p1"))
		assert.Empty(t, likes)
	})

	t.Run("anonymous actor is rejected before any store call", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 0, 0)

		_, err := svc.ToggleLike(ctx, "p1", nil)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("missing post", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)

		_, err := svc.ToggleLike(ctx, "nope", alice)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("like creation failure rolls back the optimistic view", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 3, 0)

		_, err := svc.GetPost(ctx, "p1") // prime the cache
		require.NoError(t, err)

		storeDown := errors.New("boom")
		fs.failNext("CreateLike", storeDown)

		_, err = svc.ToggleLike(ctx, "p1", alice)
		require.ErrorIs(t, err, storeDown)

		cached, ok := svc.Cache().Get("p1")
		require.True(t, ok)
		assert.Equal(t, 3, cached.LikesCount, "optimistic bump must be rolled back")
		assert.Equal(t, 3, fs.posts["p1"].LikesCount)
	})

	t.Run("counter update failure rolls back and surfaces the error", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 3, 0)
		_, err := svc.GetPost(ctx, "p1")
		require.NoError(t, err)

		storeDown := errors.New("boom")
		fs.failNext("UpdatePost", storeDown)

		_, err = svc.ToggleLike(ctx, "p1", alice)
		require.ErrorIs(t, err, storeDown)

		cached, _ := svc.Cache().Get("p1")
		assert.Equal(t, 3, cached.LikesCount)
		// The membership record landed before the counter failed: accepted
		// drift, the stored counter undercounts until the next toggle.
		assert.Len(t, fs.likes, 1)
	})

	t.Run("failed toggle releases the in-flight reservation", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 0, 0)

		fs.failNext("UpdatePost", errors.New("boom"))
		_, err := svc.ToggleLike(ctx, "p1", alice)
		require.Error(t, err)

		delete(fs.failOn, "UpdatePost")
		delete(fs.likes, "gen-a")

		_, err = svc.ToggleLike(ctx, "p1", alice)
		assert.NoError(t, err)
	})
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the record and increments the counter", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 0, 2)

		cm, err := svc.AddComment(ctx, "p1", alice, "nice write-up")
		require.NoError(t, err)
		assert.Equal(t, "nice write-up", cm.Content)
		assert.Equal(t, alice.ID, cm.UserID)
		assert.Equal(t, "p1", cm.PostID)
		assert.False(t, cm.CreatedAt.IsZero())

		assert.Equal(t, 3, fs.posts["p1"].CommentsCount)
	})

	t.Run("whitespace-only content is a validation error", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 0, 0)

		_, err := svc.AddComment(ctx, "p1", alice, "   \t\n")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "content", ve.Field)
		assert.Empty(t, fs.comments)
	})

	t.Run("anonymous actor", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 0, 0)

		_, err := svc.AddComment(ctx, "p1", nil, "hello")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("counter failure surfaces and rolls back the view", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 0, 2)
		_, err := svc.GetPost(ctx, "p1")
		require.NoError(t, err)

		fs.failNext("UpdatePost", errors.New("boom"))
		_, err = svc.AddComment(ctx, "p1", alice, "hello")
		require.Error(t, err)

		cached, _ := svc.Cache().Get("p1")
		assert.Equal(t, 2, cached.CommentsCount)
		// Undercount drift: the comment record exists, the counter is stale.
		assert.Len(t, fs.comments, 1)
	})
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()

	t.Run("add then delete returns the counter to its pre-add value", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 0, 5)

		cm, err := svc.AddComment(ctx, "p1", alice, "temporary")
		require.NoError(t, err)
		require.Equal(t, 6, fs.posts["p1"].CommentsCount)

		require.NoError(t, svc.DeleteComment(ctx, cm.ID, "p1", alice))
		assert.Equal(t, 5, fs.posts["p1"].CommentsCount)
		assert.Empty(t, fs.comments)
	})

	t.Run("counter clamps at zero", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 0, 0)
		fs.comments["c1"] = models.Comment{ID: "c1", UserID: alice.ID, PostID: "p1"}

		require.NoError(t, svc.DeleteComment(ctx, "c1", "p1", alice))
		assert.Equal(t, 0, fs.posts["p1"].CommentsCount)
	})

	t.Run("only the author or an admin may delete", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedPost(fs, "p1", bob.ID, 0, 1)
		fs.comments["c1"] = models.Comment{ID: "c1", UserID: alice.ID, PostID: "p1"}

		err := svc.DeleteComment(ctx, "c1", "p1", bob)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Len(t, fs.comments, 1)

		require.NoError(t, svc.DeleteComment(ctx, "c1", "p1", root))
		assert.Empty(t, fs.comments)
	})

	t.Run("tolerates the parent post being gone", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		fs.comments["c1"] = models.Comment{ID: "c1", UserID: alice.ID, PostID: "gone"}

		assert.NoError(t, svc.DeleteComment(ctx, "c1", "gone", alice))
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()

	seedEngagement := func(fs *fakeStore) {
		seedPost(fs, "p1", alice.ID, 2, 2)
		fs.comments["c1"] = models.Comment{ID: "c1", UserID: bob.ID, PostID: "p1"}
		fs.comments["c2"] = models.Comment{ID: "c2", UserID: alice.ID, PostID: "p1"}
		fs.likes["l1"] = models.Like{ID: "l1", UserID: bob.ID, PostID: "p1"}
		fs.likes["l2"] = models.Like{ID: "l2", UserID: root.ID, PostID: "p1"}
	}

	t.Run("cascades comments and likes before the post", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedEngagement(fs)

		require.NoError(t, svc.DeletePost(ctx, "p1", alice))
		assert.Empty(t, fs.posts)
		assert.Empty(t, fs.comments)
		assert.Empty(t, fs.likes)
	})

	t.Run("second delete of the same id is a no-op", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedEngagement(fs)

		require.NoError(t, svc.DeletePost(ctx, "p1", alice))
		assert.NoError(t, svc.DeletePost(ctx, "p1", alice))
	})

	t.Run("interrupted cascade leaves no orphans and can be re-run", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedEngagement(fs)

		fs.failNext("DeleteLike", errors.New("boom"))
		err := svc.DeletePost(ctx, "p1", alice)
		require.Error(t, err)
		// The parent must survive while any children remain.
		assert.Contains(t, fs.posts, "p1")

		delete(fs.failOn, "DeleteLike")
		require.NoError(t, svc.DeletePost(ctx, "p1", alice))
		assert.Empty(t, fs.posts)
		assert.Empty(t, fs.likes)
	})

	t.Run("non-owner is forbidden, admin is not", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedEngagement(fs)

		assert.ErrorIs(t, svc.DeletePost(ctx, "p1", bob), ErrForbidden)
		assert.NoError(t, svc.DeletePost(ctx, "p1", root))
	})

	t.Run("anonymous actor", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		seedEngagement(fs)

		assert.ErrorIs(t, svc.DeletePost(ctx, "p1", nil), ErrUnauthenticated)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin only", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		fs.users["u1"] = *alice

		assert.ErrorIs(t, svc.DeleteUser(ctx, "u1", bob), ErrForbidden)
		assert.ErrorIs(t, svc.DeleteUser(ctx, "u1", nil), ErrUnauthenticated)
	})

	t.Run("cascades posts and stray engagement with counter decrements", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)
		fs.users["u1"] = *alice

		// Alice's own post with engagement from Bob.
		seedPost(fs, "p1", alice.ID, 1, 1)
		fs.comments["c1"] = models.Comment{ID: "c1", UserID: bob.ID, PostID: "p1"}
		fs.likes["l1"] = models.Like{ID: "l1", UserID: bob.ID, PostID: "p1"}

		// Alice's engagement on Bob's post.
		seedPost(fs, "p2", bob.ID, 1, 1)
		fs.comments["c2"] = models.Comment{ID: "c2", UserID: alice.ID, PostID: "p2"}
		fs.likes["l2"] = models.Like{ID: "l2", UserID: alice.ID, PostID: "p2"}

		require.NoError(t, svc.DeleteUser(ctx, "u1", root))

		assert.NotContains(t, fs.users, "u1")
		assert.NotContains(t, fs.posts, "p1")
		assert.Empty(t, fs.comments)
		assert.Empty(t, fs.likes)

		p2 := fs.posts["p2"]
		assert.Equal(t, 0, p2.CommentsCount)
		assert.Equal(t, 0, p2.LikesCount)
	})

	t.Run("deleting a missing user is a no-op", func(t *testing.T) {
		fs := newFakeStore()
		svc := newTestService(fs)

		assert.NoError(t, svc.DeleteUser(ctx, "ghost", root))
	})
}
