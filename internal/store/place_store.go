package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"placeshare/internal/models"
)

type MongoPlaceStore struct {
	db *mongo.Database
}

func NewMongoPlaceStore(db *mongo.Database) *MongoPlaceStore {
	return &MongoPlaceStore{db: db}
}

func (s *MongoPlaceStore) collection() *mongo.Collection {
	return s.db.Collection("places")
}

func (s *MongoPlaceStore) users() *mongo.Collection {
	return s.db.Collection("users")
}

func (s *MongoPlaceStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Place, error) {
	var place models.Place
	if err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&place); err != nil {
		return nil, err
	}
	return &place, nil
}

func (s *MongoPlaceStore) FindAll(ctx context.Context) ([]models.Place, error) {
	return s.findMany(ctx, bson.M{})
}

func (s *MongoPlaceStore) FindByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.Place, error) {
	return s.findMany(ctx, bson.M{"creator": creator})
}

func (s *MongoPlaceStore) findMany(ctx context.Context, filter bson.M) ([]models.Place, error) {
	cursor, err := s.collection().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	places := make([]models.Place, 0)
	if err := cursor.All(ctx, &places); err != nil {
		return nil, err
	}
	return places, nil
}

func (s *MongoPlaceStore) ExistsByCreatorAndTitle(ctx context.Context, creator primitive.ObjectID, title string) (bool, error) {
	count, err := s.collection().CountDocuments(ctx, bson.M{
		"creator": creator,
		"title":   title,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoPlaceStore) Update(ctx context.Context, id primitive.ObjectID, title, description, image string) (*models.Place, error) {
	update := bson.M{"$set": bson.M{
		"title":       title,
		"description": description,
		"updatedAt":   time.Now(),
	}}
	if image != "" {
		update["$set"].(bson.M)["image"] = image
	}

	var place models.Place
	err := s.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&place)
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func (s *MongoPlaceStore) CreateWithOwner(ctx context.Context, place *models.Place) error {
	if place.ID.IsZero() {
		place.ID = primitive.NewObjectID()
	}

	return s.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := s.collection().InsertOne(sc, place); err != nil {
			return err
		}
		res, err := s.users().UpdateByID(sc, place.Creator, bson.M{
			"$push": bson.M{"places": place.ID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		// The owner can vanish between the handler's lookup and the
		// commit; abort so the place insert rolls back with it.
		return ensureMatched(res, err)
	})
}

func (s *MongoPlaceStore) DeleteWithOwner(ctx context.Context, place *models.Place) error {
	return s.inTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := s.users().UpdateByID(sc, place.Creator, bson.M{
			"$pull": bson.M{"places": place.ID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		if err := ensureMatched(res, err); err != nil {
			return err
		}
		_, err = s.collection().DeleteOne(sc, bson.M{"_id": place.ID})
		return err
	})
}

// ensureMatched turns an update that found no document into
// mongo.ErrNoDocuments so callers inside a transaction abort it.
func ensureMatched(res *mongo.UpdateResult, err error) error {
	if err != nil {
		return err
	}
	if res.MatchedCount != 1 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *MongoPlaceStore) inTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
