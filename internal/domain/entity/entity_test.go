package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

func TestShift_HorasYPagoTotal(t *testing.T) {
	start := time.Date(2026, 1, 10, 20, 0, 0, 0, time.UTC)
	s := &entity.Shift{
		StartTime: start,
		EndTime:   start.Add(7*time.Hour + 30*time.Minute),
		PayRate:   decimal.RequireFromString("18.40"),
	}

	assert.Equal(t, "7.5", s.Hours().String())
	assert.Equal(t, "138", s.TotalPay().String())
}

func TestShift_VentanaInvertidaNoPaga(t *testing.T) {
	start := time.Now()
	s := &entity.Shift{StartTime: start, EndTime: start.Add(-time.Hour), PayRate: decimal.NewFromInt(20)}
	assert.True(t, s.TotalPay().IsZero())
}

func TestUser_DeviceTokens(t *testing.T) {
	u := &entity.User{}
	assert.True(t, u.AddDeviceToken("a"))
	assert.True(t, u.AddDeviceToken("b"))
	assert.False(t, u.AddDeviceToken("a"), "no se duplican tokens")

	assert.Equal(t, 1, u.RemoveDeviceTokens("a", "zzz"))
	assert.Equal(t, []string{"b"}, u.DeviceTokens)
}

func TestUser_PrefersLocation(t *testing.T) {
	u := &entity.User{PreferredLocations: []string{"St Thomas Hospital"}}
	assert.True(t, u.PrefersLocation("st thomas  hospital"))
	assert.False(t, u.PrefersLocation("Guy's"))
}

func TestEnrollment_MarkModuleUnaVez(t *testing.T) {
	e := &entity.Enrollment{}
	assert.True(t, e.MarkModule("m1", time.Now()))
	assert.False(t, e.MarkModule("m1", time.Now()))
	assert.Len(t, e.CompletedModules, 1)
}

func TestCourse_IsFree(t *testing.T) {
	assert.True(t, (&entity.Course{Price: decimal.Zero}).IsFree())
	assert.False(t, (&entity.Course{Price: decimal.NewFromInt(30)}).IsFree())
}
