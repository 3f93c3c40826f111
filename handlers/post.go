package handlers

import (
	"net/http"
	"time"

	"xuyenblog/engagement"
	"xuyenblog/models"
	"xuyenblog/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostRequest struct {
	Title      string            `json:"title" binding:"required,min=5"`
	Content    string            `json:"content" binding:"required"`
	Visibility models.Visibility `json:"visibility" binding:"required,oneof=public private"`
}

func CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := &models.Post{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Content:    req.Content,
		Visibility: req.Visibility,
		AuthorID:   c.GetString("userId"),
		CreatedAt:  time.Now().UTC(),
	}

	ctx, cancel := requestContext()
	defer cancel()
	if err := db.CreatePost(ctx, post); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ListPosts serves the feed: newest first from the store, then the
// visibility filter for whoever is asking.
func ListPosts(c *gin.Context) {
	mode := engagement.FilterMode(c.DefaultQuery("filter", string(engagement.FilterAll)))

	ctx, cancel := requestContext()
	defer cancel()

	filter := store.Filter("_sort", "createdAt", "_order", "desc")
	posts, err := db.ListPosts(ctx, filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, engagement.VisiblePosts(posts, actor(c), mode))
}

func GetPost(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	post, err := svc.GetPost(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	// A private post is indistinguishable from a missing one for anyone but
	// its author or an admin.
	if !engagement.CanViewPost(*post, actor(c)) {
		fail(c, store.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, post)
}

func UpdatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := db.GetPost(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !engagement.CanEditPost(*post, actor(c)) {
		fail(c, engagement.ErrForbidden)
		return
	}

	// Author, creation time and engagement counters survive an edit.
	post.Title = req.Title
	post.Content = req.Content
	post.Visibility = req.Visibility

	if err := db.UpdatePost(ctx, post); err != nil {
		fail(c, err)
		return
	}
	svc.Cache().Put(*post)

	c.JSON(http.StatusOK, post)
}

func DeletePost(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	if err := svc.DeletePost(ctx, c.Param("id"), actor(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
