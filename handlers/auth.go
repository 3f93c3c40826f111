package handlers

import (
	"net/http"
	"os"
	"time"

	"xuyenblog/middleware"
	"xuyenblog/models"
	"xuyenblog/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Avatar   string `json:"avatar"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func issueToken(u *models.User) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &middleware.Claims{
		UserID: u.ID,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-this-in-production"
	}
	return token.SignedString([]byte(secret))
}

func usernameTaken(c *gin.Context, username, excludeID string) (bool, bool) {
	ctx, cancel := requestContext()
	defer cancel()

	existing, err := db.ListUsers(ctx, store.Filter("username", username))
	if err != nil {
		fail(c, err)
		return false, false
	}
	for _, u := range existing {
		if u.ID != excludeID {
			return true, true
		}
	}
	return false, true
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taken, ok := usernameTaken(c, req.Username, "")
	if !ok {
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already in use"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: string(hashed),
		Role:         models.RoleUser,
		Avatar:       req.Avatar,
	}

	ctx, cancel := requestContext()
	defer cancel()
	if err := db.CreateUser(ctx, user); err != nil {
		fail(c, err)
		return
	}

	token, err := issueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user":    user.Sanitized(),
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	users, err := db.ListUsers(ctx, store.Filter("username", req.Username))
	if err != nil {
		fail(c, err)
		return
	}
	if len(users) == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := issueToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user.Sanitized(),
	})
}

func GetMe(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	user, err := db.GetUser(ctx, c.GetString("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Sanitized())
}

type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"omitempty,min=6"`
	Avatar   string `json:"avatar"`
}

func UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userId")

	ctx, cancel := requestContext()
	defer cancel()

	user, err := db.GetUser(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}

	if req.Username != user.Username {
		taken, ok := usernameTaken(c, req.Username, userID)
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
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.PasswordHash = string(hashed)
	}

	if err := db.UpdateUser(ctx, user); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated",
		"user":    user.Sanitized(),
	})
}
