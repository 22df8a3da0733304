package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"placeshare/internal/apperr"
)

func newTestClient(handler http.HandlerFunc) (*MapboxClient, func()) {
	server := httptest.NewServer(handler)
	client := NewMapboxClient("test-key")
	client.BaseURL = server.URL
	return client, server.Close
}

func TestResolveReturnsCoordinates(t *testing.T) {
	client, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		// Mapbox orders center as [lng, lat].
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features":[{"center":[-73.9878584,40.7484405]}]}`))
	})
	defer done()

	location, err := client.Resolve(context.Background(), "20 W 34th St, New York")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if location.Lat != 40.7484405 || location.Lng != -73.9878584 {
		t.Fatalf("location = %+v", location)
	}
}

func TestResolveEscapesAddress(t *testing.T) {
	var gotPath string
	client, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"features":[{"center":[1,2]}]}`))
	})
	defer done()

	if _, err := client.Resolve(context.Background(), "1 Main St / Apt 2"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if gotPath == "" || gotPath == "/1 Main St / Apt 2.json" {
		t.Fatalf("address was not escaped, path = %q", gotPath)
	}
}

func TestResolveZeroMatches(t *testing.T) {
	client, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	})
	defer done()

	_, err := client.Resolve(context.Background(), "⌀⌀⌀invalid⌀⌀⌀")
	if err == nil {
		t.Fatal("expected an error for zero matches")
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindGeocodingFailed {
		t.Fatalf("error = %v, want GeocodingFailed kind", err)
	}
	if appErr.Kind.Status() != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", appErr.Kind.Status())
	}
}

func TestResolveUpstreamFailure(t *testing.T) {
	client, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer done()

	_, err := client.Resolve(context.Background(), "1 Main St")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindGeocodingFailed {
		t.Fatalf("error = %v, want GeocodingFailed kind", err)
	}
}

func TestResolveNetworkError(t *testing.T) {
	client, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	done() // closed before use

	_, err := client.Resolve(context.Background(), "1 Main St")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindGeocodingFailed {
		t.Fatalf("error = %v, want GeocodingFailed kind", err)
	}
}
