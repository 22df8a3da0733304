package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"placeshare/internal/apperr"
	"placeshare/internal/models"
	"placeshare/internal/store"
)

const bcryptCost = 12

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup creates a user with a freshly hashed password and returns a token.
func Signup(users store.UserStore, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/signup"
		defer handlePanic(c, route)

		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondAppError(c, route, apperr.New(apperr.KindValidationFailed, "Invalid inputs passed, please check your data."))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := users.FindByEmail(ctx, email); err == nil {
			respondAppError(c, route, apperr.New(apperr.KindDuplicateEmail, "User exists already, please login instead."))
			return
		} else if err != mongo.ErrNoDocuments {
			respondAppError(c, route, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] signup password hash failed:", err)
			respondAppError(c, route, err)
			return
		}

		now := time.Now()
		user := models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Image:        models.DefaultUserImage,
			Places:       []primitive.ObjectID{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		id, err := users.Create(ctx, &user)
		if err != nil {
			log.Println("[AUTH] [ERROR] signup insert failed:", err)
			respondAppError(c, route, err)
			return
		}

		token, err := issueToken(id, email, jwtSecret, tokenTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] signup token generation failed:", err)
			respondAppError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] user signed up:", email)
		c.JSON(http.StatusCreated, gin.H{
			"token": token,
			"user": gin.H{
				"id":    id.Hex(),
				"email": email,
			},
		})
	}
}

// Login verifies credentials and returns a token. Unknown email and wrong
// password are indistinguishable to the caller.
func Login(users store.UserStore, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Please provide email and password!"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := users.FindByEmail(ctx, email)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				log.Println("[AUTH] [ERROR] login invalid credentials")
				respondAppError(c, route, apperr.New(apperr.KindInvalidCredentials, "Invalid credentials, could not log you in."))
				return
			}
			log.Println("[AUTH] [ERROR] login lookup failed:", err)
			respondAppError(c, route, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials")
			respondAppError(c, route, apperr.New(apperr.KindInvalidCredentials, "Invalid credentials, could not log you in."))
			return
		}

		token, err := issueToken(user.ID, user.Email, jwtSecret, tokenTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			respondAppError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] user login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"id":    user.ID.Hex(),
				"email": user.Email,
			},
		})
	}
}

// Logout exists for client symmetry; tokens are stateless so there is
// nothing to revoke server side.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}

func issueToken(userID primitive.ObjectID, email, secret string, tokenTTL time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"email":  email,
		"exp":    time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
