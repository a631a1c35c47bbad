package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmaps "googlemaps.github.io/maps"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		assert.Equal(t, "uk", r.URL.Query().Get("region"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("address") {
		case "10 Downing St, London":
			_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":51.5034,"lng":-0.1276}}}]}`))
		case "nowhere":
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		default:
			_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
		}
	}))
	defer srv.Close()

	g, err := NewGeocoder("k", gmaps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	c, err := g.Geocode(context.Background(), "10 Downing St, London")
	require.NoError(t, err)
	assert.InDelta(t, 51.5034, c.Lat, 1e-9)
	assert.InDelta(t, -0.1276, c.Lng, 1e-9)

	_, err = g.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoResults)

	_, err = g.Geocode(context.Background(), "x")
	assert.ErrorContains(t, err, "REQUEST_DENIED")
}

func TestNewGeocoder_SinClave(t *testing.T) {
	_, err := NewGeocoder("")
	assert.Error(t, err)
}
