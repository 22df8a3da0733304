package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"placeshare/internal/apperr"
	"placeshare/internal/geocode"
	"placeshare/internal/models"
	"placeshare/internal/store"
)

type CreatePlaceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required,min=5"`
	Address     string `json:"address" binding:"required"`
	Image       string `json:"image"`
}

type UpdatePlaceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required,min=5"`
	Image       string `json:"image"`
}

// GetPlaces returns every place. An empty set is a 200 with zero results.
func GetPlaces(places store.PlaceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /places"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		all, err := places.FindAll(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"results": len(all),
			"places":  all,
		})
	}
}

func GetPlaceByID(places store.PlaceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /places/:pid"
		defer handlePanic(c, route)

		placeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("pid")))
		if err != nil {
			respondAppError(c, route, apperr.New(apperr.KindPlaceNotFound, "Could not find a place for the provided id."))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		place, err := places.FindByID(ctx, placeID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondAppError(c, route, apperr.New(apperr.KindPlaceNotFound, "Could not find a place for the provided id."))
				return
			}
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"place": place})
	}
}

// GetPlacesByUser returns all places created by the given user. An empty
// result is reported as not found, matching the API's established contract.
func GetPlacesByUser(places store.PlaceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /places/user/:uid"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("uid")))
		if err != nil {
			respondAppError(c, route, apperr.New(apperr.KindNoPlacesFound, "Could not find any place for the provided user id."))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		found, err := places.FindByCreator(ctx, userID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		if len(found) == 0 {
			respondAppError(c, route, apperr.New(apperr.KindNoPlacesFound, "Could not find any place for the provided user id."))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"results": len(found),
			"places":  found,
		})
	}
}

// CreatePlace geocodes the address and inserts the place, linking it to its
// creator inside one transaction.
func CreatePlace(places store.PlaceStore, users store.UserStore, geocoder geocode.Geocoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /places"
		defer handlePanic(c, route)

		var req CreatePlaceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		// Re-check after trimming; padded input can satisfy the binding
		// tags yet trim down to something the data model forbids.
		title := strings.TrimSpace(req.Title)
		description := strings.TrimSpace(req.Description)
		address := strings.TrimSpace(req.Address)
		if title == "" || len(description) < 5 || address == "" {
			respondAppError(c, route, apperr.New(apperr.KindValidationFailed, "Invalid inputs passed, please check your data."))
			return
		}

		creatorValue, ok := c.Get("userId")
		if !ok {
			respondAppError(c, route, apperr.New(apperr.KindUnauthenticated, "You are not logged in. Log in to get access"))
			return
		}
		creator, ok := creatorValue.(primitive.ObjectID)
		if !ok {
			respondAppError(c, route, apperr.New(apperr.KindBadID, "Invalid creator ID."))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if _, err := users.FindByID(ctx, creator); err != nil {
			if err == mongo.ErrNoDocuments {
				respondAppError(c, route, apperr.New(apperr.KindCreatorNotFound, "We could not find user for provided id."))
				return
			}
			respondAppError(c, route, err)
			return
		}

		exists, err := places.ExistsByCreatorAndTitle(ctx, creator, title)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if exists {
			respondAppError(c, route, apperr.New(apperr.KindDuplicatePlaceTitle, "You already have a place with the same title."))
			return
		}

		location, err := geocoder.Resolve(ctx, address)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		image := strings.TrimSpace(req.Image)
		if image == "" {
			image = models.DefaultPlaceImage
		}

		now := time.Now()
		place := models.Place{
			Title:       title,
			Description: description,
			Image:       image,
			Address:     address,
			Location:    location,
			Creator:     creator,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := places.CreateWithOwner(ctx, &place); err != nil {
			log.Printf("[%s] create transaction failed: %v", route, err)
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] place created: %s", route, place.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{"place": place})
	}
}

// UpdatePlace changes title, description and image only; address, location
// and creator are immutable.
func UpdatePlace(places store.PlaceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /places/:pid"
		defer handlePanic(c, route)

		var req UpdatePlaceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		// Same trimmed re-check as on create.
		title := strings.TrimSpace(req.Title)
		description := strings.TrimSpace(req.Description)
		if title == "" || len(description) < 5 {
			respondAppError(c, route, apperr.New(apperr.KindValidationFailed, "Invalid inputs passed, please check your data."))
			return
		}

		placeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("pid")))
		if err != nil {
			respondAppError(c, route, apperr.New(apperr.KindPlaceNotFound, "Could not find a place for the provided id."))
			return
		}

		requester, ok := requesterID(c)
		if !ok {
			respondAppError(c, route, apperr.New(apperr.KindUnauthenticated, "You are not logged in. Log in to get access"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		place, err := places.FindByID(ctx, placeID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondAppError(c, route, apperr.New(apperr.KindPlaceNotFound, "Could not find a place for the provided id."))
				return
			}
			respondAppError(c, route, err)
			return
		}

		if place.Creator != requester {
			respondAppError(c, route, apperr.New(apperr.KindForbidden, "You are not allowed to update this place."))
			return
		}

		updated, err := places.Update(ctx, placeID, title, description, strings.TrimSpace(req.Image))
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] place updated: %s", route, placeID.Hex())
		c.JSON(http.StatusOK, gin.H{"place": updated})
	}
}

// DeletePlace removes the place and unlinks it from its creator.
func DeletePlace(places store.PlaceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /places/:pid"
		defer handlePanic(c, route)

		placeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("pid")))
		if err != nil {
			respondAppError(c, route, apperr.New(apperr.KindPlaceNotFound, "Could not find a place for the provided id."))
			return
		}

		requester, ok := requesterID(c)
		if !ok {
			respondAppError(c, route, apperr.New(apperr.KindUnauthenticated, "You are not logged in. Log in to get access"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		place, err := places.FindByID(ctx, placeID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondAppError(c, route, apperr.New(apperr.KindPlaceNotFound, "Could not find a place for the provided id."))
				return
			}
			respondAppError(c, route, err)
			return
		}

		if place.Creator != requester {
			respondAppError(c, route, apperr.New(apperr.KindForbidden, "You are not allowed to delete this place."))
			return
		}

		if err := places.DeleteWithOwner(ctx, place); err != nil {
			log.Printf("[%s] delete transaction failed: %v", route, err)
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] place deleted: %s", route, placeID.Hex())
		c.Status(http.StatusNoContent)
	}
}

func requesterID(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get("userId")
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}
