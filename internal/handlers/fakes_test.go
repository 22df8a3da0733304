package handlers

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"placeshare/internal/models"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User

	failFindByEmail error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.failFindByEmail != nil {
		return nil, s.failFindByEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeUserStore) FindAll(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		all = append(all, *user)
	}
	return all, nil
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	s.users[user.ID] = &copied
	return user.ID, nil
}

type fakePlaceStore struct {
	mu     sync.Mutex
	places map[primitive.ObjectID]*models.Place
	owners *fakeUserStore

	failCreate error
}

func newFakePlaceStore(owners *fakeUserStore) *fakePlaceStore {
	return &fakePlaceStore{
		places: make(map[primitive.ObjectID]*models.Place),
		owners: owners,
	}
}

func (s *fakePlaceStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	place, ok := s.places[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *place
	return &copied, nil
}

func (s *fakePlaceStore) FindAll(_ context.Context) ([]models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.Place, 0, len(s.places))
	for _, place := range s.places {
		all = append(all, *place)
	}
	return all, nil
}

func (s *fakePlaceStore) FindByCreator(_ context.Context, creator primitive.ObjectID) ([]models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := make([]models.Place, 0)
	for _, place := range s.places {
		if place.Creator == creator {
			found = append(found, *place)
		}
	}
	return found, nil
}

func (s *fakePlaceStore) ExistsByCreatorAndTitle(_ context.Context, creator primitive.ObjectID, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, place := range s.places {
		if place.Creator == creator && place.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakePlaceStore) Update(_ context.Context, id primitive.ObjectID, title, description, image string) (*models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	place, ok := s.places[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	place.Title = title
	place.Description = description
	if image != "" {
		place.Image = image
	}
	place.UpdatedAt = time.Now()
	copied := *place
	return &copied, nil
}

func (s *fakePlaceStore) CreateWithOwner(_ context.Context, place *models.Place) error {
	if s.failCreate != nil {
		return s.failCreate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if place.ID.IsZero() {
		place.ID = primitive.NewObjectID()
	}
	copied := *place
	s.places[place.ID] = &copied

	s.owners.mu.Lock()
	defer s.owners.mu.Unlock()
	owner, ok := s.owners.users[place.Creator]
	if !ok {
		delete(s.places, place.ID)
		return mongo.ErrNoDocuments
	}
	owner.Places = append(owner.Places, place.ID)
	return nil
}

func (s *fakePlaceStore) DeleteWithOwner(_ context.Context, place *models.Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.places[place.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.places, place.ID)

	s.owners.mu.Lock()
	defer s.owners.mu.Unlock()
	if owner, ok := s.owners.users[place.Creator]; ok {
		kept := owner.Places[:0]
		for _, id := range owner.Places {
			if id != place.ID {
				kept = append(kept, id)
			}
		}
		owner.Places = kept
	}
	return nil
}

type stubGeocoder struct {
	location models.Location
	err      error
}

func (g stubGeocoder) Resolve(_ context.Context, _ string) (models.Location, error) {
	if g.err != nil {
		return models.Location{}, g.err
	}
	return g.location, nil
}
