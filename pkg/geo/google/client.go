package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/placeshare/places/pkg/geo"
)

// Client is a minimal Google Geocoding API client.
type Client struct {
	APIKey  string
	BaseURL string
	httpDo  *http.Client
}

func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com/maps/api/geocode"
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		httpDo: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type geocodeResult struct {
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type geocodeResponse struct {
	Status  string          `json:"status"`
	Results []geocodeResult `json:"results"`
}

// Resolve looks an address up and returns its coordinates.
// A ZERO_RESULTS answer maps to geo.ErrNotFound.
func (c *Client) Resolve(ctx context.Context, address string) (geo.Coordinates, error) {
	if c.APIKey == "" {
		return geo.Coordinates{}, errors.New("geocoder api key is empty")
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.APIKey)
	endpoint := fmt.Sprintf("%s/json?%s", c.BaseURL, q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return geo.Coordinates{}, err
	}
	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return geo.Coordinates{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return geo.Coordinates{}, fmt.Errorf("geocode http %d", resp.StatusCode)
	}

	var out geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return geo.Coordinates{}, err
	}
	if out.Status == "ZERO_RESULTS" || len(out.Results) == 0 {
		return geo.Coordinates{}, geo.ErrNotFound
	}
	loc := out.Results[0].Geometry.Location
	return geo.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}
