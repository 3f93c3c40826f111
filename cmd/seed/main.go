// Seeds the resource store with a consistent data set: users, posts, and
// engagement whose denormalized counters match the child collections.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"xuyenblog/models"
	"xuyenblog/store"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	storeURL := flag.String("store", "http://localhost:9999", "resource store base URL")
	userCount := flag.Int("users", 8, "number of regular users to create")
	postCount := flag.Int("posts", 20, "number of posts to create")
	password := flag.String("password", "password123", "password for every seeded account")
	flag.Parse()

	client := store.NewClient(*storeURL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		log.Fatal("Store unreachable: ", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	admin := &models.User{
		ID:           uuid.NewString(),
		Name:         "Site Admin",
		Username:     "admin",
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}
	if err := client.CreateUser(ctx, admin); err != nil {
		log.Fatal("Failed to create admin: ", err)
	}

	users := make([]*models.User, 0, *userCount)
	for i := 0; i < *userCount; i++ {
		u := &models.User{
			ID:           uuid.NewString(),
			Name:         gofakeit.Name(),
			Username:     gofakeit.Username(),
			PasswordHash: string(hashed),
			Role:         models.RoleUser,
			Avatar:       gofakeit.ImageURL(128, 128),
		}
		if err := client.CreateUser(ctx, u); err != nil {
			log.Fatal("Failed to create user: ", err)
		}
		users = append(users, u)
	}
	log.Printf("Created %d users plus admin", len(users))

	visibilities := []models.Visibility{models.VisibilityPublic, models.VisibilityPublic, models.VisibilityPrivate}

	var totalComments, totalLikes int
	for i := 0; i < *postCount; i++ {
		author := users[rand.Intn(len(users))]
		post := &models.Post{
			ID:         uuid.NewString(),
			Title:      gofakeit.Sentence(6),
			Content:    "<p>" + gofakeit.Paragraph(2, 4, 12, "</p><p>") + "</p>",
			Visibility: visibilities[rand.Intn(len(visibilities))],
			AuthorID:   author.ID,
			CreatedAt:  gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()).UTC(),
		}

		// Engagement first so the counters we write on the post are true.
		commenters := rand.Intn(4)
		for j := 0; j < commenters; j++ {
			commenter := users[rand.Intn(len(users))]
			comment := &models.Comment{
				ID:        uuid.NewString(),
				Content:   gofakeit.Sentence(10),
				UserID:    commenter.ID,
				PostID:    post.ID,
				CreatedAt: gofakeit.DateRange(post.CreatedAt, time.Now()).UTC(),
			}
			if err := client.CreateComment(ctx, comment); err != nil {
				log.Fatal("Failed to create comment: ", err)
			}
			post.CommentsCount++
			totalComments++
		}

		// Distinct likers only, one like per (user, post).
		for _, idx := range rand.Perm(len(users))[:rand.Intn(len(users)+1)] {
			like := &models.Like{
				ID:     uuid.NewString(),
				UserID: users[idx].ID,
				PostID: post.ID,
			}
			if err := client.CreateLike(ctx, like); err != nil {
				log.Fatal("Failed to create like: ", err)
			}
			post.LikesCount++
			totalLikes++
		}

		if err := client.CreatePost(ctx, post); err != nil {
			log.Fatal("Failed to create post: ", err)
		}
	}

	log.Printf("Created %d posts, %d comments, %d likes", *postCount, totalComments, totalLikes)
	log.Printf("All accounts use password %q; admin username is \"admin\"", *password)
}
