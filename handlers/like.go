package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ToggleLike inverts the caller's like on a post and returns the new
// membership and counter. 409 means a previous toggle on the same post has
// not settled yet.
func ToggleLike(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	result, err := svc.ToggleLike(ctx, c.Param("id"), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
