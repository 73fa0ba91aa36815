// server/internal/geocoder/geocoder_test.go
package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"devcamper-api-server/config"

	"github.com/stretchr/testify/assert"
)

const mapquestBody = `{
  "results": [
    {
      "locations": [
        {
          "latLng": { "lat": 42.350508, "lng": -71.105827 },
          "street": "233 Bay State Rd",
          "adminArea5": "Boston",
          "adminArea3": "MA",
          "postalCode": "02215",
          "adminArea1": "US"
        }
      ]
    }
  ]
}`

func TestGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "233 Bay State Rd Boston MA 02215", r.URL.Query().Get("location"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(mapquestBody))
	}))
	defer server.Close()

	g := New(config.GeocoderConfig{URL: server.URL, APIKey: "test-key"})

	result, err := g.Geocode(context.Background(), "233 Bay State Rd Boston MA 02215")
	assert.NoError(t, err)
	assert.Equal(t, 42.350508, result.Latitude)
	assert.Equal(t, -71.105827, result.Longitude)
	assert.Equal(t, "Boston", result.City)
	assert.Equal(t, "MA", result.State)
	assert.Equal(t, "02215", result.Zipcode)
	assert.Equal(t, "US", result.Country)
}

func TestGeocode_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	g := New(config.GeocoderConfig{URL: server.URL, APIKey: "test-key"})

	_, err := g.Geocode(context.Background(), "nowhere")
	assert.Error(t, err)
}

func TestGeocode_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	g := New(config.GeocoderConfig{URL: server.URL, APIKey: "bad-key"})

	_, err := g.Geocode(context.Background(), "Boston")
	assert.Error(t, err)
}
