package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWhere_NumeraPlaceholders(t *testing.T) {
	w := newWhere().
		addIf(`data->>'status' = ?`, "open").
		addIf(`data->>'requiredRole' = ?`, "").
		add(`data->>'assignedTo' = ?`, "u1")

	assert.Equal(t, ` WHERE data->>'status' = $1 AND data->>'assignedTo' = $2`, w.sql())
	assert.Equal(t, []any{"open", "u1"}, w.args)
}

func TestWhere_VacioSinClausula(t *testing.T) {
	assert.Empty(t, newWhere().sql())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_x`, escapeLike("50% off_x"))
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})

	assert.True(t, isUniqueViolation(dup))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
