package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de Shift.
const (
	ShiftOpen       = "open"
	ShiftAssigned   = "assigned"
	ShiftInProgress = "in-progress"
	ShiftCompleted  = "completed"
	ShiftCancelled  = "cancelled"
)

// ShiftStatuses lista de estados válidos (filtros de listado).
var ShiftStatuses = []string{ShiftOpen, ShiftAssigned, ShiftInProgress, ShiftCompleted, ShiftCancelled}

type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

type ShiftLocation struct {
	Name        string       `json:"name" bson:"name"`
	Address     string       `json:"address" bson:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

// LocationSample posición reportada por el trabajador asignado.
type LocationSample struct {
	Lat        float64   `json:"lat" bson:"lat"`
	Lng        float64   `json:"lng" bson:"lng"`
	RecordedAt time.Time `json:"recordedAt" bson:"recordedAt"`
}

// Shift turno de trabajo publicable.
type Shift struct {
	ID               string          `json:"id" bson:"_id"`
	Title            string          `json:"title" bson:"title"`
	Location         ShiftLocation   `json:"location" bson:"location"`
	StartTime        time.Time       `json:"startTime" bson:"startTime"`
	EndTime          time.Time       `json:"endTime" bson:"endTime"`
	RequiredRole     string          `json:"requiredRole" bson:"requiredRole"`
	PayRate          decimal.Decimal `json:"payRate" bson:"payRate"` // GBP por hora
	Notes            string          `json:"notes,omitempty" bson:"notes,omitempty"`
	Status           string          `json:"status" bson:"status"`
	AssignedTo       string          `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	AssignedAt       *time.Time      `json:"assignedAt,omitempty" bson:"assignedAt,omitempty"`
	CheckedInAt      *time.Time      `json:"checkedInAt,omitempty" bson:"checkedInAt,omitempty"`
	CheckedOutAt     *time.Time      `json:"checkedOutAt,omitempty" bson:"checkedOutAt,omitempty"`
	CheckInLocation  *LocationSample `json:"checkInLocation,omitempty" bson:"checkInLocation,omitempty"`
	CurrentLocation  *LocationSample `json:"currentLocation,omitempty" bson:"currentLocation,omitempty"`
	CheckOutLocation *LocationSample `json:"checkOutLocation,omitempty" bson:"checkOutLocation,omitempty"`
	CancelReason     string          `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
	CreatedBy        string          `json:"createdBy" bson:"createdBy"`
	Version          int64           `json:"version" bson:"version"`
	CreatedAt        time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt" bson:"updatedAt"`
}

var minutesPerHour = decimal.NewFromInt(60)

// Hours duración en horas con dos decimales.
func (s *Shift) Hours() decimal.Decimal {
	minutes := int64(s.EndTime.Sub(s.StartTime) / time.Minute)
	if minutes <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(minutes).Div(minutesPerHour).Round(2)
}

// TotalPay horas por tarifa, redondeado al penique.
func (s *Shift) TotalPay() decimal.Decimal {
	return s.Hours().Mul(s.PayRate).Round(2)
}
