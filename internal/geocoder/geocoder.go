// server/internal/geocoder/geocoder.go
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"devcamper-api-server/config"
)

// Result is one resolved location.
type Result struct {
	Latitude  float64
	Longitude float64
	Street    string
	City      string
	State     string
	Zipcode   string
	Country   string
}

// Geocoder resolves a free-form address or zipcode to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

// HTTPGeocoder calls a MapQuest-compatible geocoding endpoint.
type HTTPGeocoder struct {
	url    string
	apiKey string
	client *http.Client
}

func New(cfg config.GeocoderConfig) *HTTPGeocoder {
	return &HTTPGeocoder{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type mapquestResponse struct {
	Results []struct {
		Locations []struct {
			LatLng struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			PostalCode string `json:"postalCode"`
			Country    string `json:"adminArea1"`
		} `json:"locations"`
	} `json:"results"`
}

func (g *HTTPGeocoder) Geocode(ctx context.Context, query string) (Result, error) {
	endpoint := fmt.Sprintf("%s?key=%s&location=%s", g.url, url.QueryEscape(g.apiKey), url.QueryEscape(query))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, err
	}

	response, err := g.client.Do(request)
	if err != nil {
		return Result{}, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("geocoder returned %d", response.StatusCode)
	}

	var decoded mapquestResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return Result{}, err
	}

	if len(decoded.Results) == 0 || len(decoded.Results[0].Locations) == 0 {
		return Result{}, fmt.Errorf("no location found for %q", query)
	}

	location := decoded.Results[0].Locations[0]
	return Result{
		Latitude:  location.LatLng.Lat,
		Longitude: location.LatLng.Lng,
		Street:    location.Street,
		City:      location.City,
		State:     location.State,
		Zipcode:   location.PostalCode,
		Country:   location.Country,
	}, nil
}
