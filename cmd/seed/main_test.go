package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewAdmin_NormalizaYHashea(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	u, err := newAdmin(adminFlags{
		email:     "  Admin@Example.COM ",
		phone:     "+44 7700 900000",
		username:  "Admin",
		password:  "s3cret-pass",
		firstName: "System",
		lastName:  "Admin",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", u.Email)
	assert.True(t, u.IsAdmin)
	assert.True(t, u.IsVerified)
	assert.Empty(t, u.JobRole)
	assert.Equal(t, now, u.CreatedAt)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
}

func TestNewAdmin_ContraseñaCorta(t *testing.T) {
	_, err := newAdmin(adminFlags{email: "a@b.c", phone: "+447700900000", password: "short"}, time.Now())
	assert.Error(t, err)
}
