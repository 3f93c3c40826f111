package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"xuyenblog/engagement"
	"xuyenblog/models"
	"xuyenblog/store"

	"github.com/gin-gonic/gin"
)

// Shared state across all handler files, set once from main.
var (
	db  store.Store
	svc *engagement.Service
)

// Init wires the handlers to the resource store.
func Init(st store.Store) {
	db = st
	svc = engagement.NewService(st)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// actor reconstructs the acting user from the JWT claims the middleware put
// in the context. Nil for anonymous requests.
func actor(c *gin.Context) *models.User {
	id := c.GetString("userId")
	if id == "" {
		return nil
	}
	return &models.User{ID: id, Role: models.Role(c.GetString("role"))}
}

// fail maps the engagement/store error taxonomy onto HTTP responses.
func fail(c *gin.Context, err error) {
	var ve *engagement.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, engagement.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, engagement.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to do that"})
	case errors.Is(err, engagement.ErrPending):
		c.JSON(http.StatusConflict, gin.H{"error": "Another change to this post is in flight, try again"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		log.Printf("store error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Data store unavailable"})
	}
}
