package engagement

import "xuyenblog/models"

// FilterMode narrows the feed for a signed-in, non-admin viewer.
type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterMine   FilterMode = "mine"
	FilterPublic FilterMode = "public"
)

// VisiblePosts filters posts down to what the actor may see. Pure and stable:
// the input order is preserved, so callers sort (newest first) before calling.
//
// Rules, in order: an anonymous viewer sees only public posts; an admin sees
// everything; otherwise the mode applies, with anything unrecognized treated
// as FilterAll (public posts plus the viewer's own).
func VisiblePosts(posts []models.Post, actor *models.User, mode FilterMode) []models.Post {
	visible := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if canView(p, actor, mode) {
			visible = append(visible, p)
		}
	}
	return visible
}

func canView(p models.Post, actor *models.User, mode FilterMode) bool {
	if actor == nil {
		return p.Visibility == models.VisibilityPublic
	}
	if actor.Role.CanModerate() {
		return true
	}
	switch mode {
	case FilterMine:
		return p.AuthorID == actor.ID
	case FilterPublic:
		return p.Visibility == models.VisibilityPublic
	default:
		return p.Visibility == models.VisibilityPublic || p.AuthorID == actor.ID
	}
}

// CanViewPost reports whether the actor may open a single post directly.
func CanViewPost(p models.Post, actor *models.User) bool {
	if p.Visibility == models.VisibilityPublic {
		return true
	}
	return actor != nil && (actor.ID == p.AuthorID || actor.Role.CanModerate())
}

// CanEditPost gates edit and delete on a post: owner or admin only.
func CanEditPost(p models.Post, actor *models.User) bool {
	return actor != nil && (actor.ID == p.AuthorID || actor.Role.CanModerate())
}

// CanEditComment gates delete on a comment: owner or admin only.
func CanEditComment(cm models.Comment, actor *models.User) bool {
	return actor != nil && (actor.ID == cm.UserID || actor.Role.CanModerate())
}
