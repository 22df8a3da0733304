// Seeder for development data. Usage:
//
//	go run ./cmd/seed --import
//	go run ./cmd/seed --delete
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"placeshare/internal/config"
	"placeshare/internal/database"
	"placeshare/internal/models"
)

func main() {
	importFlag := flag.Bool("import", false, "load fixture data into the database")
	deleteFlag := flag.Bool("delete", false, "delete all users and places")
	dataDir := flag.String("data", "dev-data", "directory holding users.json and places.json")
	flag.Parse()

	cfg := config.Load()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.DBName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch {
	case *importFlag:
		if err := importData(ctx, db, *dataDir); err != nil {
			log.Fatal(err)
		}
		log.Println("Data succesfully loaded!")
	case *deleteFlag:
		if err := deleteData(ctx, db); err != nil {
			log.Fatal(err)
		}
		log.Println("Data succesfully deleted!")
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// fixtureUser mirrors models.User but accepts the pre-hashed password from
// JSON, which the model deliberately refuses to serialize.
type fixtureUser struct {
	ID           primitive.ObjectID   `json:"id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	PasswordHash string               `json:"passwordHash"`
	Image        string               `json:"image"`
	Places       []primitive.ObjectID `json:"places"`
}

func importData(ctx context.Context, db *mongo.Database, dir string) error {
	var users []fixtureUser
	if err := readJSON(filepath.Join(dir, "users.json"), &users); err != nil {
		return err
	}
	var places []models.Place
	if err := readJSON(filepath.Join(dir, "places.json"), &places); err != nil {
		return err
	}

	now := time.Now()
	userDocs := make([]interface{}, len(users))
	for i, u := range users {
		image := u.Image
		if image == "" {
			image = models.DefaultUserImage
		}
		if u.Places == nil {
			u.Places = []primitive.ObjectID{}
		}
		userDocs[i] = models.User{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Image:        image,
			Places:       u.Places,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	placeDocs := make([]interface{}, len(places))
	for i := range places {
		if places[i].Image == "" {
			places[i].Image = models.DefaultPlaceImage
		}
		places[i].CreatedAt = now
		places[i].UpdatedAt = now
		placeDocs[i] = places[i]
	}

	if len(placeDocs) > 0 {
		if _, err := db.Collection("places").InsertMany(ctx, placeDocs); err != nil {
			return err
		}
	}
	if len(userDocs) > 0 {
		if _, err := db.Collection("users").InsertMany(ctx, userDocs); err != nil {
			return err
		}
	}
	return nil
}

func deleteData(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection("places").DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	_, err := db.Collection("users").DeleteMany(ctx, bson.M{})
	return err
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
