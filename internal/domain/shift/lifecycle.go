// Package shift contiene las transiciones de estado de un turno (servicio de dominio).
//
//	open ──assign──▶ assigned ──check-in──▶ in-progress ──check-out──▶ completed
//	  ▲                 │
//	  └────unassign─────┘
//	open|assigned ──cancel──▶ cancelled
//
// Las funciones validan antes de mutar: si devuelven error el turno queda intacto.
package shift

import (
	"time"

	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// Assign asigna el turno a user. El puesto se comprueba antes que el estado.
func Assign(s *entity.Shift, user *entity.User, now time.Time) error {
	if user.JobRole != s.RequiredRole {
		return domain.RoleMismatch("el turno requiere el puesto " + s.RequiredRole)
	}
	if s.Status != entity.ShiftOpen {
		return domain.InvalidState("el turno no está disponible (estado " + s.Status + ")")
	}
	s.AssignedTo = user.ID
	s.AssignedAt = &now
	s.Status = entity.ShiftAssigned
	s.UpdatedAt = now
	return nil
}

// Unassign devuelve un turno asignado a open y retorna el asignado previo.
func Unassign(s *entity.Shift, now time.Time) (string, error) {
	if s.Status != entity.ShiftAssigned {
		return "", domain.InvalidState("solo un turno asignado puede liberarse")
	}
	prior := s.AssignedTo
	s.AssignedTo = ""
	s.AssignedAt = nil
	s.Status = entity.ShiftOpen
	s.UpdatedAt = now
	return prior, nil
}

// Cancel cierra el turno de forma definitiva y retorna el asignado previo (puede ser vacío).
func Cancel(s *entity.Shift, reason string, now time.Time) (string, error) {
	if s.Status != entity.ShiftOpen && s.Status != entity.ShiftAssigned {
		return "", domain.InvalidState("no se puede cancelar un turno en estado " + s.Status)
	}
	prior := s.AssignedTo
	s.Status = entity.ShiftCancelled
	s.CancelReason = reason
	s.UpdatedAt = now
	return prior, nil
}

// CheckIn inicia el turno. Solo el asignado puede hacerlo.
func CheckIn(s *entity.Shift, callerID string, at entity.Coordinates, now time.Time) error {
	if err := requireAssignee(s, callerID); err != nil {
		return err
	}
	if s.Status != entity.ShiftAssigned {
		return domain.InvalidState("check-in requiere un turno asignado")
	}
	sample := &entity.LocationSample{Lat: at.Lat, Lng: at.Lng, RecordedAt: now}
	s.CheckedInAt = &now
	s.CheckInLocation = sample
	s.CurrentLocation = sample
	s.Status = entity.ShiftInProgress
	s.UpdatedAt = now
	return nil
}

// UpdateLocation sustituye la muestra actual; no se guarda historial.
func UpdateLocation(s *entity.Shift, callerID string, at entity.Coordinates, now time.Time) error {
	if err := requireAssignee(s, callerID); err != nil {
		return err
	}
	if s.Status != entity.ShiftInProgress {
		return domain.InvalidState("el turno no está en curso")
	}
	s.CurrentLocation = &entity.LocationSample{Lat: at.Lat, Lng: at.Lng, RecordedAt: now}
	s.UpdatedAt = now
	return nil
}

// CheckOut finaliza el turno.
func CheckOut(s *entity.Shift, callerID string, at entity.Coordinates, now time.Time) error {
	if err := requireAssignee(s, callerID); err != nil {
		return err
	}
	if s.Status != entity.ShiftInProgress {
		return domain.InvalidState("check-out requiere un turno en curso")
	}
	sample := &entity.LocationSample{Lat: at.Lat, Lng: at.Lng, RecordedAt: now}
	s.CheckedOutAt = &now
	s.CheckOutLocation = sample
	s.CurrentLocation = sample
	s.Status = entity.ShiftCompleted
	s.UpdatedAt = now
	return nil
}

// CanEdit indica si los datos del turno aún pueden modificarse.
func CanEdit(s *entity.Shift) error {
	if s.Status != entity.ShiftOpen && s.Status != entity.ShiftAssigned {
		return domain.InvalidState("no se puede modificar un turno en estado " + s.Status)
	}
	return nil
}

// CanDelete impide borrar un turno en curso.
func CanDelete(s *entity.Shift) error {
	if s.Status == entity.ShiftInProgress {
		return domain.InvalidState("no se puede eliminar un turno en curso")
	}
	return nil
}

func requireAssignee(s *entity.Shift, callerID string) error {
	if s.AssignedTo == "" || s.AssignedTo != callerID {
		return domain.Forbidden("solo el trabajador asignado puede operar este turno")
	}
	return nil
}
