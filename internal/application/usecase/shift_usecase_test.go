package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/notification"
	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/testutil"
)

var t0 = time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)

type shiftFixture struct {
	shifts   *testutil.ShiftRepo
	users    *testutil.UserRepo
	notifier *testutil.RecordingNotifier
	geocoder *testutil.Geocoder
	pdf      *testutil.PDF
	clock    *testutil.Clock
	uc       *usecase.ShiftUseCase
	admin    usecase.Actor
}

func newShiftFixture(t *testing.T) *shiftFixture {
	t.Helper()
	f := &shiftFixture{
		shifts:   testutil.NewShiftRepo(),
		users:    testutil.NewUserRepo(),
		notifier: &testutil.RecordingNotifier{},
		geocoder: &testutil.Geocoder{Result: &entity.Coordinates{Lat: 51.49, Lng: -0.11}},
		pdf:      &testutil.PDF{},
		clock:    testutil.NewClock(t0),
	}
	f.uc = usecase.NewShiftUseCase(f.shifts, f.users, f.notifier, f.geocoder, f.pdf, zerolog.Nop()).WithClock(f.clock.Now)
	admin := f.addUser(t, "admin", entity.JobRoleRegisteredNurse)
	f.admin = usecase.Actor{UserID: admin.ID, Admin: true}
	return f
}

func (f *shiftFixture) addUser(t *testing.T, id, role string) *entity.User {
	t.Helper()
	u := &entity.User{ID: id, Email: id + "@example.com", PhoneNumber: "+4470" + id, Username: id, JobRole: role, IsVerified: true}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *shiftFixture) createShift(t *testing.T, role string) *dto.ShiftResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), f.admin, dto.CreateShiftRequest{
		Title:        "Noche planta 3",
		Location:     dto.ShiftLocationInput{Name: "St Thomas", Address: "Westminster Bridge Rd"},
		StartTime:    t0.Add(12 * time.Hour),
		EndTime:      t0.Add(20 * time.Hour),
		RequiredRole: role,
		PayRate:      decimal.RequireFromString("21.50"),
	})
	require.NoError(t, err)
	return out
}

func actorOf(u *entity.User) usecase.Actor { return usecase.ActorFrom(u) }

func TestCreateShift_AbiertoGeocodificadoSinNotificar(t *testing.T) {
	f := newShiftFixture(t)

	out := f.createShift(t, entity.JobRoleRegisteredNurse)

	assert.Equal(t, entity.ShiftOpen, out.Status)
	require.NotNil(t, out.Location.Coordinates)
	assert.Equal(t, 51.49, out.Location.Coordinates.Lat)
	assert.True(t, out.TotalPay.Equal(decimal.RequireFromString("172")))
	assert.Empty(t, f.notifier.Sent, "crear un turno no notifica")
}

func TestCreateShift_DatosInvalidos(t *testing.T) {
	f := newShiftFixture(t)
	_, err := f.uc.Create(context.Background(), f.admin, dto.CreateShiftRequest{
		Title: "x", Location: dto.ShiftLocationInput{Name: "A"},
		StartTime: t0, EndTime: t0.Add(-time.Hour), RequiredRole: entity.JobRoleRegisteredNurse,
		PayRate: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Escenario: usuario HCA intenta reservar un turno de enfermería.
func TestBook_RoleMismatchDejaElTurnoAbierto(t *testing.T) {
	f := newShiftFixture(t)
	hca := f.addUser(t, "hca", entity.JobRoleHealthcareAssistant)
	s := f.createShift(t, entity.JobRoleRegisteredNurse)

	_, err := f.uc.Book(context.Background(), actorOf(hca), s.ID)

	assert.ErrorIs(t, err, domain.ErrRoleMismatch)
	stored, _ := f.shifts.GetByID(context.Background(), s.ID)
	assert.Equal(t, entity.ShiftOpen, stored.Status)
	assert.Empty(t, stored.AssignedTo)
}

func TestAssign_NotificaAlAsignado(t *testing.T) {
	f := newShiftFixture(t)
	nurse := f.addUser(t, "n1", entity.JobRoleRegisteredNurse)
	s := f.createShift(t, entity.JobRoleRegisteredNurse)

	out, err := f.uc.Assign(context.Background(), s.ID, nurse.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.ShiftAssigned, out.Status)
	assert.Equal(t, nurse.ID, out.AssignedTo)
	assert.Equal(t, []string{notification.TypeShiftAssigned}, f.notifier.Types(nurse.ID))
}

func TestAssign_InexistentesSonNotFound(t *testing.T) {
	f := newShiftFixture(t)
	nurse := f.addUser(t, "n1", entity.JobRoleRegisteredNurse)
	s := f.createShift(t, entity.JobRoleRegisteredNurse)

	_, err := f.uc.Assign(context.Background(), "no-existe", nurse.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Assign(context.Background(), s.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssign_SegundaAsignacionEsInvalidState(t *testing.T) {
	f := newShiftFixture(t)
	a := f.addUser(t, "a", entity.JobRoleRegisteredNurse)
	b := f.addUser(t, "b", entity.JobRoleRegisteredNurse)
	s := f.createShift(t, entity.JobRoleRegisteredNurse)

	_, err := f.uc.Book(context.Background(), actorOf(a), s.ID)
	require.NoError(t, err)
	_, err = f.uc.Book(context.Background(), actorOf(b), s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	stored, _ := f.shifts.GetByID(context.Background(), s.ID)
	assert.Equal(t, a.ID, stored.AssignedTo)
}

// Reservas simultáneas: exactamente una gana; el resto recibe Conflict o InvalidState.
func TestBook_ConcurrenteSoloUnoGana(t *testing.T) {
	f := newShiftFixture(t)
	s := f.createShift(t, entity.JobRoleRegisteredNurse)
	const n = 8
	actors := make([]usecase.Actor, n)
	for i := range actors {
		actors[i] = actorOf(f.addUser(t, fmt.Sprintf("n%d", i), entity.JobRoleRegisteredNurse))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range actors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Book(context.Background(), actors[i], s.ID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		kind := domain.KindOf(err)
		assert.Contains(t, []domain.Kind{domain.KindConflict, domain.KindInvalidState}, kind)
	}
	assert.Equal(t, 1, wins)
}

// Escenario: check-in → ubicación → check-out.
func TestCicloDeSeguimiento(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()
	nurse := f.addUser(t, "n1", entity.JobRoleRegisteredNurse)
	other := f.addUser(t, "n2", entity.JobRoleRegisteredNurse)
	s := f.createShift(t, entity.JobRoleRegisteredNurse)
	_, err := f.uc.Book(ctx, actorOf(nurse), s.ID)
	require.NoError(t, err)

	_, err = f.uc.CheckIn(ctx, actorOf(other), s.ID, entity.Coordinates{Lat: 51.5, Lng: -0.1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f.clock.Advance(12 * time.Hour)
	out, err := f.uc.CheckIn(ctx, actorOf(nurse), s.ID, entity.Coordinates{Lat: 51.5, Lng: -0.1})
	require.NoError(t, err)
	assert.Equal(t, entity.ShiftInProgress, out.Status)
	require.NotNil(t, out.CheckedInAt)
	assert.True(t, out.CheckedInAt.Equal(f.clock.Now()))

	f.clock.Advance(time.Hour)
	out, err = f.uc.UpdateLocation(ctx, actorOf(nurse), s.ID, entity.Coordinates{Lat: 51.6, Lng: -0.2})
	require.NoError(t, err)
	assert.Equal(t, 51.6, out.CurrentLocation.Lat)

	_, err = f.uc.UpdateLocation(ctx, actorOf(nurse), s.ID, entity.Coordinates{Lat: 99, Lng: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)

	f.clock.Advance(7 * time.Hour)
	out, err = f.uc.CheckOut(ctx, actorOf(nurse), s.ID, entity.Coordinates{Lat: 51.5, Lng: -0.1})
	require.NoError(t, err)
	assert.Equal(t, entity.ShiftCompleted, out.Status)
	require.NotNil(t, out.CheckedOutAt)
	assert.True(t, out.CheckedOutAt.Equal(f.clock.Now()))
}

func TestCancel_NotificaUrgenteAlAsignado(t *testing.T) {
	f := newShiftFixture(t)
	nurse := f.addUser(t, "n1", entity.JobRoleRegisteredNurse)
	s := f.createShift(t, entity.JobRoleRegisteredNurse)
	_, err := f.uc.Assign(context.Background(), s.ID, nurse.ID)
	require.NoError(t, err)

	out, err := f.uc.Cancel(context.Background(), s.ID, "planta cerrada")
	require.NoError(t, err)

	assert.Equal(t, entity.ShiftCancelled, out.Status)
	require.Len(t, f.notifier.Sent, 2)
	last := f.notifier.Sent[1]
	assert.Equal(t, nurse.ID, last.UserID)
	assert.Equal(t, notification.TypeShiftCancelled, last.Event.Type)
	assert.True(t, last.Event.Urgent)

	_, err = f.uc.Cancel(context.Background(), s.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestUnassign_AdminAvisaYPublicaDisponibilidad(t *testing.T) {
	f := newShiftFixture(t)
	nurse := f.addUser(t, "n1", entity.JobRoleRegisteredNurse)
	s := f.createShift(t, entity.JobRoleRegisteredNurse)
	_, err := f.uc.Assign(context.Background(), s.ID, nurse.ID)
	require.NoError(t, err)

	out, err := f.uc.Unassign(context.Background(), f.admin, s.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.ShiftOpen, out.Status)
	assert.Equal(t, []string{notification.TypeShiftAssigned, notification.TypeShiftUnassigned}, f.notifier.Types(nurse.ID))
	require.Len(t, f.notifier.Matching, 1)
	assert.Equal(t, "St Thomas", f.notifier.Matching[0].Location)
	assert.Equal(t, entity.JobRoleRegisteredNurse, f.notifier.Matching[0].JobRole)
}

func TestUnassign_OtroUsuarioEsForbidden(t *testing.T) {
	f := newShiftFixture(t)
	nurse := f.addUser(t, "n1", entity.JobRoleRegisteredNurse)
	other := f.addUser(t, "n2", entity.JobRoleRegisteredNurse)
	s := f.createShift(t, entity.JobRoleRegisteredNurse)
	_, err := f.uc.Book(context.Background(), actorOf(nurse), s.ID)
	require.NoError(t, err)

	_, err = f.uc.Unassign(context.Background(), actorOf(other), s.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Unassign(context.Background(), actorOf(nurse), s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{notification.TypeShiftAssigned}, f.notifier.Types(nurse.ID), "el propio asignado no recibe aviso")
}

func TestDelete_EnCursoNoSePuede(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()
	nurse := f.addUser(t, "n1", entity.JobRoleRegisteredNurse)
	s := f.createShift(t, entity.JobRoleRegisteredNurse)
	_, err := f.uc.Book(ctx, actorOf(nurse), s.ID)
	require.NoError(t, err)
	_, err = f.uc.CheckIn(ctx, actorOf(nurse), s.ID, entity.Coordinates{})
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.Delete(ctx, s.ID), domain.ErrInvalidState)
}

func TestAvailability_FiltraDiaYPuesto(t *testing.T) {
	f := newShiftFixture(t)
	nurse := f.addUser(t, "n1", entity.JobRoleRegisteredNurse)
	f.createShift(t, entity.JobRoleRegisteredNurse)
	f.createShift(t, entity.JobRoleSupportWorker)

	out, err := f.uc.Availability(context.Background(), actorOf(nurse), "2026-05-04")
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = f.uc.Availability(context.Background(), actorOf(nurse), "2026-05-05")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = f.uc.Availability(context.Background(), actorOf(nurse), "mañana")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExportReport_GeneraPDF(t *testing.T) {
	f := newShiftFixture(t)
	f.createShift(t, entity.JobRoleRegisteredNurse)

	pdf, err := f.uc.ExportReport(context.Background(), "2026-05-01", "2026-05-10")
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, f.pdf.Reports)

	_, err = f.uc.ExportReport(context.Background(), "2026-05-10", "2026-05-01")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
