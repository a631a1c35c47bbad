package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// CoordinatesInput latitud/longitud. Sin required: 0 es un valor válido.
type CoordinatesInput struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// ShiftLocationInput ubicación del turno.
type ShiftLocationInput struct {
	Name        string            `json:"name" validate:"required,max=200"`
	Address     string            `json:"address" validate:"max=300"`
	Coordinates *CoordinatesInput `json:"coordinates"`
}

// CreateShiftRequest alta de turno (admin).
type CreateShiftRequest struct {
	Title        string             `json:"title" validate:"required,max=200"`
	Location     ShiftLocationInput `json:"location"`
	StartTime    time.Time          `json:"startTime" validate:"required"`
	EndTime      time.Time          `json:"endTime" validate:"required"`
	RequiredRole string             `json:"requiredRole" validate:"required"`
	PayRate      decimal.Decimal    `json:"payRate"`
	Notes        string             `json:"notes" validate:"max=2000"`
}

// UpdateShiftRequest edición parcial de turno (admin).
type UpdateShiftRequest struct {
	Title        *string             `json:"title" validate:"omitempty,max=200"`
	Location     *ShiftLocationInput `json:"location"`
	StartTime    *time.Time          `json:"startTime"`
	EndTime      *time.Time          `json:"endTime"`
	RequiredRole *string             `json:"requiredRole"`
	PayRate      *decimal.Decimal    `json:"payRate"`
	Notes        *string             `json:"notes" validate:"omitempty,max=2000"`
}

// AssignShiftRequest asignación administrativa.
type AssignShiftRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// CancelShiftRequest motivo de cancelación.
type CancelShiftRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// LocationRequest muestra de posición del trabajador.
type LocationRequest struct {
	CoordinatesInput
}

// ShiftListQuery filtros del listado de turnos. Fechas en RFC 3339 o YYYY-MM-DD.
type ShiftListQuery struct {
	PageRequest
	From         string `query:"from"`
	To           string `query:"to"`
	Status       string `query:"status" validate:"omitempty,oneof=open assigned in-progress completed cancelled"`
	RequiredRole string `query:"role"`
	AssignedTo   string `query:"assignedTo"`
	Location     string `query:"location"`
}

// ShiftResponse turno con duración y pago calculados.
type ShiftResponse struct {
	entity.Shift
	Hours    decimal.Decimal `json:"hours"`
	TotalPay decimal.Decimal `json:"totalPay"`
}

// ShiftListResponse listado paginado.
type ShiftListResponse struct {
	Items []ShiftResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
