// Package geocode resolves free-text addresses to coordinates through the
// Mapbox places endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"placeshare/internal/apperr"
	"placeshare/internal/models"
)

const mapboxBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Geocoder converts an address into coordinates. A single failed lookup
// fails the enclosing workflow; there are no retries.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (models.Location, error)
}

// MapboxClient calls the Mapbox geocoding API.
type MapboxClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewMapboxClient(apiKey string) *MapboxClient {
	return &MapboxClient{
		APIKey:  apiKey,
		BaseURL: mapboxBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type mapboxResponse struct {
	Features []struct {
		Center []float64 `json:"center"`
	} `json:"features"`
}

func (m *MapboxClient) Resolve(ctx context.Context, address string) (models.Location, error) {
	endpoint := fmt.Sprintf("%s/%s.json?access_token=%s",
		m.BaseURL, url.PathEscape(address), url.QueryEscape(m.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Location{}, lookupError(address, err)
	}

	res, err := m.Client.Do(req)
	if err != nil {
		return models.Location{}, lookupError(address, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return models.Location{}, lookupError(address, fmt.Errorf("mapbox returned status %d", res.StatusCode))
	}

	var payload mapboxResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return models.Location{}, lookupError(address, err)
	}

	if len(payload.Features) == 0 || len(payload.Features[0].Center) < 2 {
		return models.Location{}, apperr.New(apperr.KindGeocodingFailed,
			fmt.Sprintf("Could not find coordinates for address: %s", address))
	}

	// Mapbox returns [lng, lat].
	center := payload.Features[0].Center
	return models.Location{Lat: center[1], Lng: center[0]}, nil
}

func lookupError(address string, err error) error {
	return apperr.Wrap(apperr.KindGeocodingFailed,
		fmt.Sprintf("Could not get coordinates for address: %s", address), err)
}
