package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"xuyenblog/mockstore"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting mock resource store...")

	_ = godotenv.Load()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var backend mockstore.Backend
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		dbName := os.Getenv("MONGODB_DATABASE")
		if dbName == "" {
			dbName = "mockstore"
		}

		var mongoBackend *mockstore.MongoBackend
		var err error
		for i := 1; i <= 3; i++ {
			mongoBackend, err = mockstore.NewMongoBackend(uri, dbName)
			if err == nil {
				break
			}
			log.Printf("MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			log.Fatal("Failed to connect to MongoDB: ", err)
		}
		defer mongoBackend.Close()
		backend = mongoBackend
	} else {
		log.Println("MONGODB_URI not set, using in-memory backend")
		backend = mockstore.NewMemoryBackend()
	}

	router := mockstore.NewRouter(backend)

	port := os.Getenv("STORE_PORT")
	if port == "" {
		port = "9999"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Mock store running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down mock store...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown: ", err)
	}
}
