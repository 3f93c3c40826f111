// Package mockstore is a generic REST resource store in the json-server
// style: per-collection CRUD over schemaless JSON documents, equality query
// filters, _sort/_order on lists. It enforces no invariants beyond "a
// document has an id" — that is the whole point, the application layer owns
// consistency.
package mockstore

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type server struct {
	backend Backend
}

// NewRouter mounts the REST surface for every collection on a fresh engine.
func NewRouter(backend Backend) *gin.Engine {
	router := gin.Default()
	s := &server{backend: backend}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for _, coll := range Collections {
		grp := router.Group("/" + coll)
		grp.GET("", s.list(coll))
		grp.POST("", s.create(coll))
		grp.GET("/:id", s.get(coll))
		grp.PUT("/:id", s.replace(coll))
		grp.PATCH("/:id", s.patch(coll))
		grp.DELETE("/:id", s.remove(coll))
	}

	return router
}

func (s *server) list(coll string) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := make(map[string]string)
		var sortField, order string
		for key, values := range c.Request.URL.Query() {
			if len(values) == 0 {
				continue
			}
			switch key {
			case "_sort":
				sortField = values[0]
			case "_order":
				order = values[0]
			default:
				filter[key] = values[0]
			}
		}

		docs, err := s.backend.List(c.Request.Context(), coll, filter, sortField, order)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, docs)
	}
}

func (s *server) get(coll string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := s.backend.Get(c.Request.Context(), coll, c.Param("id"))
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

func (s *server) create(coll string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc map[string]any
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if id, ok := doc["id"].(string); !ok || id == "" {
			doc["id"] = uuid.NewString()
		}

		if err := s.backend.Insert(c.Request.Context(), coll, doc); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, doc)
	}
}

func (s *server) replace(coll string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc map[string]any
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		doc["id"] = c.Param("id")

		if err := s.backend.Replace(c.Request.Context(), coll, c.Param("id"), doc); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

func (s *server) patch(coll string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		delete(fields, "id") // ids are immutable

		doc, err := s.backend.Patch(c.Request.Context(), coll, c.Param("id"), fields)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

func (s *server) remove(coll string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.backend.Delete(c.Request.Context(), coll, c.Param("id")); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	}
}

func (s *server) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrNoDocument) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
