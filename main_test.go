package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"placeshare/internal/config"
	"placeshare/internal/models"
)

type emptyUserStore struct{}

func (emptyUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (emptyUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (emptyUserStore) FindAll(ctx context.Context) ([]models.User, error) {
	return []models.User{}, nil
}

func (emptyUserStore) Create(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

type emptyPlaceStore struct{}

func (emptyPlaceStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Place, error) {
	return nil, mongo.ErrNoDocuments
}

func (emptyPlaceStore) FindAll(ctx context.Context) ([]models.Place, error) {
	return []models.Place{}, nil
}

func (emptyPlaceStore) FindByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.Place, error) {
	return []models.Place{}, nil
}

func (emptyPlaceStore) ExistsByCreatorAndTitle(ctx context.Context, creator primitive.ObjectID, title string) (bool, error) {
	return false, nil
}

func (emptyPlaceStore) Update(ctx context.Context, id primitive.ObjectID, title, description, image string) (*models.Place, error) {
	return nil, mongo.ErrNoDocuments
}

func (emptyPlaceStore) CreateWithOwner(ctx context.Context, place *models.Place) error {
	return nil
}

func (emptyPlaceStore) DeleteWithOwner(ctx context.Context, place *models.Place) error {
	return nil
}

type noopGeocoder struct{}

func (noopGeocoder) Resolve(ctx context.Context, address string) (models.Location, error) {
	return models.Location{Lat: 40.7484, Lng: -73.9857}, nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		JWTSecret:       "router-test-secret",
		TokenTTL:        time.Hour,
		FrontendOrigins: []string{"http://localhost:3000"},
		APIRateLimit:    100,
	}
	return newRouter(cfg, emptyUserStore{}, emptyPlaceStore{}, noopGeocoder{})
}

func TestRouterRequiresAuthForCreatePlace(t *testing.T) {
	r := testRouter()

	body := strings.NewReader(`{"title":"Empire State Building","description":"Famous skyscraper","address":"20 W 34th St, New York"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/places", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "You are not logged in") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRouterUnknownPathReturns404(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Can't find /api/v1/nope on this server!") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRouterServesPublicPlaceRoutes(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/places", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for public listing, got %d", w.Code)
	}
}
