package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/whizkidefos/employee-management-api/internal/domain"
)

// table acceso genérico a una tabla (id, version, data JSONB).
type table[T any] struct {
	pool    *pgxpool.Pool
	name    string
	id      func(*T) string
	version func(*T) *int64
}

func newTable[T any](pool *pgxpool.Pool, name string, id func(*T) string, version func(*T) *int64) *table[T] {
	return &table[T]{pool: pool, name: name, id: id, version: version}
}

func (t *table[T]) insert(ctx context.Context, v *T) error {
	*t.version(v) = 1
	data, err := json.Marshal(v)
	if err != nil {
		*t.version(v) = 0
		return fmt.Errorf("marshal %s: %w", t.name, err)
	}
	query := `INSERT INTO ` + t.name + ` (id, version, data) VALUES ($1, 1, $2)`
	if _, err := t.pool.Exec(ctx, query, t.id(v), data); err != nil {
		*t.version(v) = 0
		if isUniqueViolation(err) {
			return domain.Conflict("ya existe un registro con esos datos únicos")
		}
		return fmt.Errorf("insert %s: %w", t.name, err)
	}
	return nil
}

// update escribe solo si la versión en base coincide con la leída.
func (t *table[T]) update(ctx context.Context, v *T) error {
	expected := *t.version(v)
	*t.version(v) = expected + 1
	data, err := json.Marshal(v)
	if err != nil {
		*t.version(v) = expected
		return fmt.Errorf("marshal %s: %w", t.name, err)
	}
	query := `UPDATE ` + t.name + ` SET version = version + 1, data = $3 WHERE id = $1 AND version = $2`
	tag, err := t.pool.Exec(ctx, query, t.id(v), expected, data)
	if err != nil {
		*t.version(v) = expected
		if isUniqueViolation(err) {
			return domain.Conflict("ya existe un registro con esos datos únicos")
		}
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	if tag.RowsAffected() == 0 {
		*t.version(v) = expected
		var exists bool
		if err := t.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+t.name+` WHERE id = $1)`, t.id(v)).Scan(&exists); err != nil {
			return fmt.Errorf("exists %s: %w", t.name, err)
		}
		if !exists {
			return domain.NotFound("registro no encontrado")
		}
		return domain.Conflict("el registro fue modificado por otra operación")
	}
	return nil
}

func (t *table[T]) delete(ctx context.Context, id string) error {
	if _, err := t.pool.Exec(ctx, `DELETE FROM `+t.name+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return nil
}

// one devuelve (nil, nil) si no hay fila.
func (t *table[T]) one(ctx context.Context, where string, args ...any) (*T, error) {
	var data []byte
	err := t.pool.QueryRow(ctx, `SELECT data FROM `+t.name+` WHERE `+where+` LIMIT 1`, args...).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", t.name, err)
	}
	return t.decode(data)
}

func (t *table[T]) byID(ctx context.Context, id string) (*T, error) {
	return t.one(ctx, `id = $1`, id)
}

func (t *table[T]) many(ctx context.Context, w *where, orderBy string, limit, offset int) ([]*T, error) {
	query := `SELECT data FROM ` + t.name + w.sql() + ` ORDER BY ` + orderBy
	args := w.args
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}
	rows, err := t.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()
	out := make([]*T, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		v, err := t.decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (t *table[T]) page(ctx context.Context, w *where, orderBy string, limit, offset int) ([]*T, int64, error) {
	var total int64
	if err := t.pool.QueryRow(ctx, `SELECT count(*) FROM `+t.name+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	items, err := t.many(ctx, w, orderBy, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (t *table[T]) decode(data []byte) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", t.name, err)
	}
	return v, nil
}

// where acumula condiciones con placeholders numerados.
type where struct {
	conds []string
	args  []any
}

func newWhere() *where { return &where{} }

// add recibe la condición con "?" como marcador del argumento.
func (w *where) add(cond string, arg any) *where {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1))
	return w
}

func (w *where) addIf(cond, arg string) *where {
	if arg != "" {
		w.add(cond, arg)
	}
	return w
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
