package ports

import (
	"context"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// Geocoder resuelve una dirección postal a coordenadas.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*entity.Coordinates, error)
}
