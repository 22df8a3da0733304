package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: email_unique index created")
	return nil
}

// EnsurePlaceIndexes closes the duplicate-title race: the handler pre-check
// gives the friendly error, the unique compound index gives the guarantee.
func EnsurePlaceIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("places").Indexes()

	titleIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "creator", Value: 1},
			{Key: "title", Value: 1},
		},
		Options: options.Index().
			SetName("creator_title_unique").
			SetUnique(true),
	}

	log.Println("EnsurePlaceIndexes: creating creator_title_unique index")
	_, err := indexes.CreateOne(ctx, titleIndex)
	if err != nil {
		log.Println("EnsurePlaceIndexes: creator_title index error:", err)
		return err
	}
	log.Println("EnsurePlaceIndexes: creator_title_unique index created")
	return nil
}
