package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/notification"
	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
	"github.com/whizkidefos/employee-management-api/internal/domain/shift"
	"github.com/whizkidefos/employee-management-api/pkg/money"
)

// ShiftUseCase publicación, asignación y seguimiento de turnos.
type ShiftUseCase struct {
	shifts   repository.ShiftRepository
	users    repository.UserRepository
	notifier notification.Notifier
	geocoder ports.Geocoder // opcional
	pdf      ports.PDFRenderer
	log      zerolog.Logger
	now      func() time.Time
}

// NewShiftUseCase construye el caso de uso. geocoder puede ser nil.
func NewShiftUseCase(
	shifts repository.ShiftRepository,
	users repository.UserRepository,
	notifier notification.Notifier,
	geocoder ports.Geocoder,
	pdf ports.PDFRenderer,
	log zerolog.Logger,
) *ShiftUseCase {
	return &ShiftUseCase{shifts: shifts, users: users, notifier: notifier, geocoder: geocoder, pdf: pdf, log: log, now: time.Now}
}

// WithClock sustituye el reloj (tests).
func (uc *ShiftUseCase) WithClock(now func() time.Time) *ShiftUseCase {
	uc.now = now
	return uc
}

// Create persiste un turno nuevo en estado open. Sin efectos laterales salvo la
// geocodificación de la dirección cuando faltan coordenadas.
func (uc *ShiftUseCase) Create(ctx context.Context, actor Actor, in dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	now := uc.now()
	s := &entity.Shift{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Location:     toShiftLocation(in.Location),
		StartTime:    in.StartTime.UTC(),
		EndTime:      in.EndTime.UTC(),
		RequiredRole: in.RequiredRole,
		PayRate:      in.PayRate,
		Notes:        in.Notes,
		Status:       entity.ShiftOpen,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := shift.ValidateDetails(s); err != nil {
		return nil, err
	}
	uc.geocode(ctx, s)
	if err := uc.shifts.Create(ctx, s); err != nil {
		return nil, err
	}
	return toShiftResponse(s), nil
}

// Update edita un turno open/assigned y avisa al asignado.
func (uc *ShiftUseCase) Update(ctx context.Context, id string, in dto.UpdateShiftRequest) (*dto.ShiftResponse, error) {
	s, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := shift.CanEdit(s); err != nil {
		return nil, err
	}
	if in.Title != nil {
		s.Title = *in.Title
	}
	addressChanged := false
	if in.Location != nil {
		addressChanged = in.Location.Address != s.Location.Address
		s.Location = toShiftLocation(*in.Location)
	}
	if in.StartTime != nil {
		s.StartTime = in.StartTime.UTC()
	}
	if in.EndTime != nil {
		s.EndTime = in.EndTime.UTC()
	}
	if in.RequiredRole != nil {
		if s.Status == entity.ShiftAssigned && *in.RequiredRole != s.RequiredRole {
			return nil, domain.InvalidState("no se puede cambiar el puesto de un turno asignado")
		}
		s.RequiredRole = *in.RequiredRole
	}
	if in.PayRate != nil {
		s.PayRate = *in.PayRate
	}
	if in.Notes != nil {
		s.Notes = *in.Notes
	}
	if err := shift.ValidateDetails(s); err != nil {
		return nil, err
	}
	if addressChanged {
		uc.geocode(ctx, s)
	}
	s.UpdatedAt = uc.now()
	if err := uc.shifts.Update(ctx, s); err != nil {
		return nil, err
	}
	notify(ctx, uc.notifier, uc.log, s.AssignedTo, notification.Event{
		Type:    notification.TypeShiftUpdated,
		Subject: "Turno modificado",
		Message: fmt.Sprintf("El turno %q del %s ha cambiado.", s.Title, s.StartTime.Format("02/01/2006 15:04")),
		Data:    map[string]string{"shiftId": s.ID},
	})
	return toShiftResponse(s), nil
}

// Delete elimina un turno que no esté en curso; el asignado recibe el aviso de cancelación.
func (uc *ShiftUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if err := shift.CanDelete(s); err != nil {
		return err
	}
	if err := uc.shifts.Delete(ctx, id); err != nil {
		return err
	}
	if s.Status == entity.ShiftAssigned {
		notify(ctx, uc.notifier, uc.log, s.AssignedTo, cancelledEvent(s, "el turno ha sido eliminado"))
	}
	return nil
}

// Get devuelve un turno.
func (uc *ShiftUseCase) Get(ctx context.Context, id string) (*dto.ShiftResponse, error) {
	s, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toShiftResponse(s), nil
}

// List listado filtrado y paginado ordenado por inicio.
func (uc *ShiftUseCase) List(ctx context.Context, q dto.ShiftListQuery) (*dto.ShiftListResponse, error) {
	from, err := ParseDate("from", q.From)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate("to", q.To)
	if err != nil {
		return nil, err
	}
	q.Limit = limitOrDefault(q.Limit)
	items, total, err := uc.shifts.List(ctx, repository.ShiftFilter{
		From: from, To: to,
		Status:       q.Status,
		RequiredRole: q.RequiredRole,
		AssignedTo:   q.AssignedTo,
		Location:     q.Location,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ShiftListResponse{
		Items: toShiftResponses(items),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Mine turnos asignados al usuario (opcionalmente por estado).
func (uc *ShiftUseCase) Mine(ctx context.Context, userID, status string) ([]dto.ShiftResponse, error) {
	items, _, err := uc.shifts.List(ctx, repository.ShiftFilter{AssignedTo: userID, Status: status})
	if err != nil {
		return nil, err
	}
	return toShiftResponses(items), nil
}

// Availability turnos abiertos que empiezan en date y coinciden con el puesto del usuario.
func (uc *ShiftUseCase) Availability(ctx context.Context, actor Actor, date string) ([]dto.ShiftResponse, error) {
	day, err := ParseDate("date", date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, domain.Validation("fecha requerida", domain.FieldError{Field: "date", Message: "requerido"})
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	items, _, err := uc.shifts.List(ctx, repository.ShiftFilter{
		From: &start, To: &end, Status: entity.ShiftOpen, RequiredRole: actor.JobRole,
	})
	if err != nil {
		return nil, err
	}
	return toShiftResponses(items), nil
}

// Assign asignación administrativa de userID al turno.
func (uc *ShiftUseCase) Assign(ctx context.Context, shiftID, userID string) (*dto.ShiftResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("usuario no encontrado")
	}
	return uc.assign(ctx, shiftID, user)
}

// Book el propio usuario reserva el turno; produce el mismo estado que Assign.
func (uc *ShiftUseCase) Book(ctx context.Context, actor Actor, shiftID string) (*dto.ShiftResponse, error) {
	return uc.Assign(ctx, shiftID, actor.UserID)
}

func (uc *ShiftUseCase) assign(ctx context.Context, shiftID string, user *entity.User) (*dto.ShiftResponse, error) {
	s, err := uc.load(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if err := shift.Assign(s, user, uc.now()); err != nil {
		return nil, err
	}
	// Update condicional a la versión leída: de dos asignaciones simultáneas solo una gana.
	if err := uc.shifts.Update(ctx, s); err != nil {
		return nil, err
	}
	notify(ctx, uc.notifier, uc.log, user.ID, notification.Event{
		Type:    notification.TypeShiftAssigned,
		Subject: "Turno asignado",
		Message: fmt.Sprintf("Se te ha asignado el turno %q en %s el %s (%s/h).",
			s.Title, s.Location.Name, s.StartTime.Format("02/01/2006 15:04"), money.FormatGBP(s.PayRate)),
		Data: map[string]string{"shiftId": s.ID},
	})
	return toShiftResponse(s), nil
}

// Unassign devuelve el turno a open. Lo puede hacer un admin o el propio asignado.
// Si lo hace un admin, el asignado previo recibe aviso; los usuarios con el
// puesto y la ubicación preferida reciben SHIFT_AVAILABLE.
func (uc *ShiftUseCase) Unassign(ctx context.Context, actor Actor, shiftID string) (*dto.ShiftResponse, error) {
	s, err := uc.load(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && s.AssignedTo != actor.UserID {
		return nil, domain.Forbidden("solo un administrador o el asignado pueden liberar el turno")
	}
	prior, err := shift.Unassign(s, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.shifts.Update(ctx, s); err != nil {
		return nil, err
	}
	if actor.Admin && prior != actor.UserID {
		notify(ctx, uc.notifier, uc.log, prior, notification.Event{
			Type:    notification.TypeShiftUnassigned,
			Subject: "Turno desasignado",
			Message: fmt.Sprintf("Ya no estás asignado al turno %q del %s.", s.Title, s.StartTime.Format("02/01/2006 15:04")),
			Data:    map[string]string{"shiftId": s.ID},
		})
	}
	if uc.notifier != nil {
		uc.notifier.DispatchMatching(ctx, s.RequiredRole, s.Location.Name, notification.Event{
			Type:      notification.TypeShiftAvailable,
			Subject:   "Turno disponible",
			Message:   fmt.Sprintf("Hay un turno disponible en %s el %s.", s.Location.Name, s.StartTime.Format("02/01/2006 15:04")),
			Data:      map[string]string{"shiftId": s.ID},
			SkipEmail: true,
		})
	}
	return toShiftResponse(s), nil
}

// Cancel cierra el turno de forma definitiva; el asignado previo recibe un aviso urgente.
func (uc *ShiftUseCase) Cancel(ctx context.Context, shiftID, reason string) (*dto.ShiftResponse, error) {
	s, err := uc.load(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	prior, err := shift.Cancel(s, reason, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.shifts.Update(ctx, s); err != nil {
		return nil, err
	}
	notify(ctx, uc.notifier, uc.log, prior, cancelledEvent(s, reason))
	return toShiftResponse(s), nil
}

// CheckIn inicio del turno por el asignado.
func (uc *ShiftUseCase) CheckIn(ctx context.Context, actor Actor, shiftID string, at entity.Coordinates) (*dto.ShiftResponse, error) {
	return uc.track(ctx, actor, shiftID, at, shift.CheckIn)
}

// UpdateLocation reemplaza la posición actual del asignado.
func (uc *ShiftUseCase) UpdateLocation(ctx context.Context, actor Actor, shiftID string, at entity.Coordinates) (*dto.ShiftResponse, error) {
	return uc.track(ctx, actor, shiftID, at, shift.UpdateLocation)
}

// CheckOut fin del turno por el asignado.
func (uc *ShiftUseCase) CheckOut(ctx context.Context, actor Actor, shiftID string, at entity.Coordinates) (*dto.ShiftResponse, error) {
	return uc.track(ctx, actor, shiftID, at, shift.CheckOut)
}

type trackFn func(s *entity.Shift, callerID string, at entity.Coordinates, now time.Time) error

func (uc *ShiftUseCase) track(ctx context.Context, actor Actor, shiftID string, at entity.Coordinates, fn trackFn) (*dto.ShiftResponse, error) {
	if fields := shift.ValidateCoordinates("", at); len(fields) > 0 {
		return nil, domain.Validation("coordenadas inválidas", fields...)
	}
	s, err := uc.load(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if err := fn(s, actor.UserID, at, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.shifts.Update(ctx, s); err != nil {
		return nil, err
	}
	return toShiftResponse(s), nil
}

// ExportReport genera el PDF de turnos entre from y to con los nombres de los asignados.
func (uc *ShiftUseCase) ExportReport(ctx context.Context, fromStr, toStr string) ([]byte, error) {
	from, err := ParseDate("from", fromStr)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate("to", toStr)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if from == nil {
		f := now.AddDate(0, 0, -30)
		from = &f
	}
	if to == nil {
		to = &now
	}
	if !to.After(*from) {
		return nil, domain.Validation("rango inválido", domain.FieldError{Field: "to", Message: "debe ser posterior a from"})
	}
	items, _, err := uc.shifts.List(ctx, repository.ShiftFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	data := ports.ShiftReportData{From: *from, To: *to, Generated: now, TotalHours: decimal.Zero, TotalPay: decimal.Zero}
	names := map[string]string{}
	for _, s := range items {
		row := ports.ShiftReportRow{Shift: s}
		if s.AssignedTo != "" {
			name, ok := names[s.AssignedTo]
			if !ok {
				if u, err := uc.users.GetByID(ctx, s.AssignedTo); err == nil && u != nil {
					name = u.FullName()
				}
				names[s.AssignedTo] = name
			}
			row.AssigneeName = name
		}
		if s.Status != entity.ShiftCancelled {
			data.TotalHours = data.TotalHours.Add(s.Hours())
			data.TotalPay = data.TotalPay.Add(s.TotalPay())
		}
		data.Rows = append(data.Rows, row)
	}
	return uc.pdf.ShiftReport(data)
}

func (uc *ShiftUseCase) load(ctx context.Context, id string) (*entity.Shift, error) {
	s, err := uc.shifts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("turno no encontrado")
	}
	return s, nil
}

func (uc *ShiftUseCase) geocode(ctx context.Context, s *entity.Shift) {
	if uc.geocoder == nil || s.Location.Coordinates != nil || s.Location.Address == "" {
		return
	}
	c, err := uc.geocoder.Geocode(ctx, s.Location.Address)
	if err != nil {
		uc.log.Warn().Err(err).Str("address", s.Location.Address).Msg("geocodificación fallida")
		return
	}
	s.Location.Coordinates = c
}

func cancelledEvent(s *entity.Shift, reason string) notification.Event {
	msg := fmt.Sprintf("El turno %q del %s ha sido cancelado.", s.Title, s.StartTime.Format("02/01/2006 15:04"))
	if reason != "" {
		msg += " Motivo: " + reason
	}
	return notification.Event{
		Type:    notification.TypeShiftCancelled,
		Subject: "Turno cancelado",
		Message: msg,
		Data:    map[string]string{"shiftId": s.ID},
		Urgent:  true,
	}
}

func toShiftLocation(in dto.ShiftLocationInput) entity.ShiftLocation {
	loc := entity.ShiftLocation{Name: in.Name, Address: in.Address}
	if in.Coordinates != nil {
		loc.Coordinates = &entity.Coordinates{Lat: in.Coordinates.Lat, Lng: in.Coordinates.Lng}
	}
	return loc
}

func toShiftResponse(s *entity.Shift) *dto.ShiftResponse {
	return &dto.ShiftResponse{Shift: *s, Hours: s.Hours(), TotalPay: s.TotalPay()}
}

func toShiftResponses(items []*entity.Shift) []dto.ShiftResponse {
	out := make([]dto.ShiftResponse, 0, len(items))
	for _, s := range items {
		out = append(out, *toShiftResponse(s))
	}
	return out
}
