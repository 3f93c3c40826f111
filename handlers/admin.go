package handlers

import (
	"net/http"

	"xuyenblog/models"
	"xuyenblog/store"

	"github.com/gin-gonic/gin"
)

// Admin moderation endpoints. The router guards the whole group with
// RequireAdmin; the engagement service re-checks the role on destructive
// operations anyway.

func AdminListUsers(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	users, err := db.ListUsers(ctx, nil)
	if err != nil {
		fail(c, err)
		return
	}

	sanitized := make([]models.User, len(users))
	for i, u := range users {
		sanitized[i] = u.Sanitized()
	}
	c.JSON(http.StatusOK, sanitized)
}

type AdminUpdateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Username string `json:"username" binding:"required,min=3"`
	Avatar   string `json:"avatar"`
}

func AdminUpdateUser(c *gin.Context) {
	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetID := c.Param("id")

	ctx, cancel := requestContext()
	defer cancel()

	user, err := db.GetUser(ctx, targetID)
	if err != nil {
		fail(c, err)
		return
	}

	if req.Username != user.Username {
		taken, ok := usernameTaken(c, req.Username, targetID)
		if !ok {
			return
		}
		if taken {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already in use"})
			return
		}
	}

	user.Name = req.Name
	user.Username = req.Username
	user.Avatar = req.Avatar

	if err := db.UpdateUser(ctx, user); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Sanitized())
}

// AdminDeleteUser removes the account and everything it owns: authored posts
// with their comments and likes, plus the user's engagement elsewhere.
func AdminDeleteUser(c *gin.Context) {
	targetID := c.Param("id")
	if targetID == c.GetString("userId") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := svc.DeleteUser(ctx, targetID, actor(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func AdminListPosts(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	posts, err := db.ListPosts(ctx, store.Filter("_sort", "createdAt", "_order", "desc"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func AdminListComments(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	comments, err := db.ListComments(ctx, store.Filter("_sort", "createdAt", "_order", "desc"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AdminDeleteComment looks the comment up first because the dashboard only
// has its id, while the counter decrement needs the parent post.
func AdminDeleteComment(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	comment, err := db.GetComment(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	if err := svc.DeleteComment(ctx, comment.ID, comment.PostID, actor(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
