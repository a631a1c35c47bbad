package notification_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whizkidefos/employee-management-api/internal/application/notification"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/testutil"
)

type fixture struct {
	users    *testutil.UserRepo
	realtime *testutil.Channel
	email    *testutil.Channel
	sms      *testutil.Channel
	push     *testutil.Channel
	d        *notification.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    testutil.NewUserRepo(),
		realtime: &testutil.Channel{Connected: map[string]bool{}},
		email:    &testutil.Channel{},
		sms:      &testutil.Channel{},
		push:     &testutil.Channel{},
	}
	f.d = notification.NewDispatcher(f.users, notification.Channels{
		Realtime: f.realtime, Email: f.email, SMS: f.sms, Push: f.push,
	}, zerolog.Nop())
	return f
}

func (f *fixture) addUser(t *testing.T, id string, tokens ...string) *entity.User {
	t.Helper()
	u := &entity.User{
		ID: id, Email: id + "@example.com", PhoneNumber: "+44700000" + id,
		JobRole: entity.JobRoleRegisteredNurse, DeviceTokens: tokens, IsVerified: true,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func TestDispatch_UsuarioInexistenteNoIntentaCanales(t *testing.T) {
	f := newFixture(t)

	report, err := f.d.Dispatch(context.Background(), "fantasma", notification.Event{Subject: "x", Urgent: true})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, report)
	assert.Zero(t, f.email.CallCount()+f.sms.CallCount()+f.push.CallCount()+f.realtime.CallCount())
}

func TestDispatch_SeleccionDeCanales(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "1", "tok-a")

	report, err := f.d.Dispatch(context.Background(), "1", notification.Event{Type: "T", Subject: "Hola"})
	require.NoError(t, err)

	assert.False(t, report.Tried(notification.ChannelRealtime), "sin conexión no se intenta tiempo real")
	assert.True(t, report.Tried(notification.ChannelEmail))
	assert.False(t, report.Tried(notification.ChannelSMS), "SMS solo para urgentes")
	assert.True(t, report.Tried(notification.ChannelPush))
}

func TestDispatch_UrgenteSinEmailConConexion(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "1")
	f.realtime.Connected["1"] = true

	report, err := f.d.Dispatch(context.Background(), "1", notification.Event{Urgent: true, SkipEmail: true})
	require.NoError(t, err)

	assert.True(t, report.Tried(notification.ChannelRealtime))
	assert.True(t, report.Tried(notification.ChannelSMS))
	assert.False(t, report.Tried(notification.ChannelEmail))
	assert.False(t, report.Tried(notification.ChannelPush), "sin tokens no hay push")
}

func TestDispatch_FalloDeCanalNoAfectaAOtros(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "1", "tok-a")
	f.sms.Err = testutil.ErrFake

	report, err := f.d.Dispatch(context.Background(), "1", notification.Event{Urgent: true})

	require.NoError(t, err, "los fallos de canal no llegan al llamador")
	assert.ErrorIs(t, report.Failed[notification.ChannelSMS], testutil.ErrFake)
	assert.True(t, report.Tried(notification.ChannelEmail))
	assert.True(t, report.Tried(notification.ChannelPush))
	assert.NotContains(t, report.Failed, notification.ChannelEmail)
}

func TestDispatch_PodaTokensInvalidos(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "1", "ok", "muerto")
	f.push.Invalid = []string{"muerto"}

	report, err := f.d.Dispatch(context.Background(), "1", notification.Event{})
	require.NoError(t, err)

	assert.Equal(t, []string{"muerto"}, report.PrunedTokens)
	u, _ := f.users.GetByID(context.Background(), "1")
	assert.Equal(t, []string{"ok"}, u.DeviceTokens)
}

func TestDispatchMatching_FiltraPorUbicacionYVerificacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.addUser(t, "1")
	a.PreferredLocations = []string{"St Thomas"}
	require.NoError(t, f.users.Update(ctx, a))

	b := f.addUser(t, "2")
	b.PreferredLocations = []string{"Guy's"}
	require.NoError(t, f.users.Update(ctx, b))

	c := f.addUser(t, "3")
	c.PreferredLocations = []string{"st thomas"}
	c.IsVerified = false
	require.NoError(t, f.users.Update(ctx, c))

	sent := f.d.DispatchMatching(ctx, entity.JobRoleRegisteredNurse, "St Thomas", notification.Event{})

	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"email:1@example.com"}, f.email.Calls)
}
