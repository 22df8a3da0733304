// Package store provides persistence-backed access to User and Place
// records. Implementations propagate driver errors unchanged; classification
// happens at the HTTP boundary.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"placeshare/internal/models"
)

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) (primitive.ObjectID, error)
}

type PlaceStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Place, error)
	FindAll(ctx context.Context) ([]models.Place, error)
	FindByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.Place, error)
	ExistsByCreatorAndTitle(ctx context.Context, creator primitive.ObjectID, title string) (bool, error)
	Update(ctx context.Context, id primitive.ObjectID, title, description, image string) (*models.Place, error)

	// CreateWithOwner inserts the place and appends its id to the creator's
	// places list in one transaction; both writes commit or neither does.
	CreateWithOwner(ctx context.Context, place *models.Place) error

	// DeleteWithOwner removes the place id from the creator's places list
	// and deletes the place document in one transaction.
	DeleteWithOwner(ctx context.Context, place *models.Place) error
}
