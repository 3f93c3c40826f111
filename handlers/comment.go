package handlers

import (
	"net/http"

	"xuyenblog/store"

	"github.com/gin-gonic/gin"
)

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func ListComments(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	filter := store.Filter(
		"postId", c.Param("id"),
		"_sort", "createdAt",
		"_order", "asc",
	)
	comments, err := db.ListComments(ctx, filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	comment, err := svc.AddComment(ctx, c.Param("id"), actor(c), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func DeleteComment(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	if err := svc.DeleteComment(ctx, c.Param("commentId"), c.Param("id"), actor(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
