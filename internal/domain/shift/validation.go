package shift

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// ValidateDetails comprueba las reglas de negocio de un turno nuevo o editado
// y devuelve un error de validación con todos los campos inválidos.
func ValidateDetails(s *entity.Shift) error {
	var fields []domain.FieldError
	if !entity.IsValidJobRole(s.RequiredRole) {
		fields = append(fields, domain.FieldError{Field: "requiredRole", Message: "puesto desconocido"})
	}
	if !s.EndTime.After(s.StartTime) {
		fields = append(fields, domain.FieldError{Field: "endTime", Message: "debe ser posterior a startTime"})
	}
	if !s.PayRate.GreaterThan(decimal.Zero) {
		fields = append(fields, domain.FieldError{Field: "payRate", Message: "debe ser positivo"})
	}
	if s.Location.Name == "" {
		fields = append(fields, domain.FieldError{Field: "location.name", Message: "requerido"})
	}
	if c := s.Location.Coordinates; c != nil {
		fields = append(fields, ValidateCoordinates("location.coordinates", *c)...)
	}
	if len(fields) > 0 {
		return domain.Validation("datos del turno inválidos", fields...)
	}
	return nil
}

// ValidateCoordinates verifica rangos de latitud y longitud. prefix puede ser vacío.
func ValidateCoordinates(prefix string, c entity.Coordinates) []domain.FieldError {
	if prefix != "" {
		prefix += "."
	}
	var fields []domain.FieldError
	if c.Lat < -90 || c.Lat > 90 {
		fields = append(fields, domain.FieldError{Field: prefix + "lat", Message: "fuera de rango [-90, 90]"})
	}
	if c.Lng < -180 || c.Lng > 180 {
		fields = append(fields, domain.FieldError{Field: prefix + "lng", Message: "fuera de rango [-180, 180]"})
	}
	return fields
}

// StartsOn indica si el turno empieza en el día natural de date (en la zona de date).
func StartsOn(s *entity.Shift, date time.Time) bool {
	start := s.StartTime.In(date.Location())
	y1, m1, d1 := start.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
