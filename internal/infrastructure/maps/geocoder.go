// Package maps geocodificación con la API de Google Maps.
package maps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gmaps "googlemaps.github.io/maps"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

var ErrNoResults = errors.New("dirección sin resultados")

var _ ports.Geocoder = (*Geocoder)(nil)

type Geocoder struct {
	client *gmaps.Client
}

func NewGeocoder(apiKey string, opts ...gmaps.ClientOption) (*Geocoder, error) {
	opts = append([]gmaps.ClientOption{
		gmaps.WithAPIKey(apiKey),
		gmaps.WithHTTPClient(&http.Client{Timeout: 8 * time.Second}),
	}, opts...)
	c, err := gmaps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("cliente de mapas: %w", err)
	}
	return &Geocoder{client: c}, nil
}

// Geocode primer resultado de Google para address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (*entity.Coordinates, error) {
	results, err := g.client.Geocode(ctx, &gmaps.GeocodingRequest{Address: address, Region: "uk"})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return nil, ErrNoResults
		}
		return nil, fmt.Errorf("geocode: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	loc := results[0].Geometry.Location
	return &entity.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}
