package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placeshare/places/pkg/geo"
)

func TestResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json", r.URL.Path)
		assert.Equal(t, "20 W 34th St, New York", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{"geometry": {"location": {"lat": 40.7484, "lng": -73.9857}}}]
		}`))
	}))
	defer srv.Close()

	client := New("test-key", srv.URL)
	coords, err := client.Resolve(context.Background(), "20 W 34th St, New York")
	require.NoError(t, err)
	assert.Equal(t, geo.Coordinates{Lat: 40.7484, Lng: -73.9857}, coords)
}

func TestResolveZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer srv.Close()

	client := New("test-key", srv.URL)
	_, err := client.Resolve(context.Background(), "gibberish address")
	assert.ErrorIs(t, err, geo.ErrNotFound)
}

func TestResolveHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := New("test-key", srv.URL)
	_, err := client.Resolve(context.Background(), "anywhere")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, geo.ErrNotFound)
}

func TestResolveMissingKey(t *testing.T) {
	client := New("", "http://unused.invalid")
	_, err := client.Resolve(context.Background(), "anywhere")
	assert.Error(t, err)
}
