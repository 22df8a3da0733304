package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"placeshare/internal/store"
)

// GetUsers returns every user account. Password hashes never serialize.
func GetUsers(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		all, err := users.FindAll(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"users": all})
	}
}
