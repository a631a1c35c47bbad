package repository

import (
	"context"
	"time"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// ShiftFilter filtros de listado. Los campos vacíos no filtran.
type ShiftFilter struct {
	From         *time.Time // startTime >= From
	To           *time.Time // startTime < To
	Status       string
	RequiredRole string
	AssignedTo   string
	Location     string // nombre exacto de la ubicación
	Limit        int
	Offset       int
}

// ShiftRepository puerto de persistencia para Shift. Update es condicional a Version.
type ShiftRepository interface {
	Create(ctx context.Context, shift *entity.Shift) error
	GetByID(ctx context.Context, id string) (*entity.Shift, error)
	Update(ctx context.Context, shift *entity.Shift) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ShiftFilter) ([]*entity.Shift, int64, error)
}
