package routes

import (
	"time"

	"xuyenblog/handlers"
	"xuyenblog/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Blog API is running",
			"time":    time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes; registration and login share a tight rate budget.
	authLimit := middleware.RateLimit(20, time.Minute)
	router.POST("/api/register", authLimit, handlers.Register)
	router.POST("/api/login", authLimit, handlers.Login)

	// Reads work for anonymous visitors too; the visibility rules just see
	// a nil actor.
	reads := router.Group("/api")
	reads.Use(middleware.OptionalJWTAuth())
	reads.GET("/posts", handlers.ListPosts)
	reads.GET("/posts/:id", handlers.GetPost)
	reads.GET("/posts/:id/comments", handlers.ListComments)

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	protected.GET("/me", handlers.GetMe)
	protected.PUT("/me", handlers.UpdateMe)

	protected.POST("/posts", handlers.CreatePost)
	protected.PUT("/posts/:id", handlers.UpdatePost)
	protected.DELETE("/posts/:id", handlers.DeletePost)

	protected.POST("/posts/:id/like", handlers.ToggleLike)
	protected.POST("/posts/:id/comments", handlers.AddComment)
	protected.DELETE("/posts/:id/comments/:commentId", handlers.DeleteComment)

	// Admin moderation
	admin := router.Group("/api/admin")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.RequireAdmin())

	admin.GET("/users", handlers.AdminListUsers)
	admin.PUT("/users/:id", handlers.AdminUpdateUser)
	admin.DELETE("/users/:id", handlers.AdminDeleteUser)
	admin.GET("/posts", handlers.AdminListPosts)
	admin.DELETE("/posts/:id", handlers.DeletePost)
	admin.GET("/comments", handlers.AdminListComments)
	admin.DELETE("/comments/:id", handlers.AdminDeleteComment)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
