package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultPlaceImage = "default-place.png"

// Location holds the geocoded coordinates of a place.
type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Place is a user-submitted point of interest. Address, location and creator
// are fixed at creation; only title, description and image may change.
type Place struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	Address     string             `bson:"address" json:"address"`
	Location    Location           `bson:"location" json:"location"`
	Creator     primitive.ObjectID `bson:"creator" json:"creator"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
