package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "secreto")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, "0.0.0.0:3000", cfg.HTTP.Addr())
	assert.Equal(t, 3001, cfg.WS.Port)
	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, "gbp", cfg.Stripe.Currency)
	assert.Equal(t, 30, cfg.Jobs.ExpiryReminderDays)
	assert.Equal(t, time.Hour, cfg.Storage.URLExpiry)
	assert.False(t, cfg.Storage.UseObjectStore())
	assert.False(t, cfg.Stripe.Enabled())
	assert.False(t, cfg.Twilio.Enabled())
}

func TestLoad_DerivaSecretosDeRefrescoYReset(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "secreto")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secreto:refresh", cfg.JWT.RefreshSecret)
	assert.Equal(t, "secreto:reset", cfg.JWT.ResetSecret)
}

func TestLoad_SinSecretoDeAcceso(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "secreto")
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestLoad_ListaDeOrigenesWS(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "secreto")
	t.Setenv("WS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.WS.AllowedOrigins)
	assert.True(t, cfg.Stripe.Enabled())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "staff", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/staff?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", c.ConnectionString())
}
