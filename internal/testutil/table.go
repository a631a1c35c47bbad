// Package testutil reúne dobles de prueba compartidos: repositorios en memoria
// que respetan el contrato de los puertos (copias, versión optimista) y un reloj fijo.
package testutil

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/whizkidefos/employee-management-api/internal/domain"
)

// table almacén genérico en memoria. Guarda y devuelve copias para que los
// tests no compartan punteros con el "almacén".
type table[T any] struct {
	mu      sync.RWMutex
	rows    map[string]*T
	order   []string
	id      func(*T) string
	version func(*T) *int64
}

func newTable[T any](id func(*T) string, version func(*T) *int64) *table[T] {
	return &table[T]{rows: map[string]*T{}, id: id, version: version}
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		panic(err)
	}
	return out
}

func (t *table[T]) insert(v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := t.id(v)
	if _, ok := t.rows[key]; ok {
		return domain.Conflict("id duplicado")
	}
	*t.version(v) = 1
	t.rows[key] = clone(v)
	t.order = append(t.order, key)
	return nil
}

func (t *table[T]) get(id string) *T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return clone(t.rows[id])
}

func (t *table[T]) update(v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := t.id(v)
	cur, ok := t.rows[key]
	if !ok {
		return domain.NotFound("registro no encontrado")
	}
	if *t.version(cur) != *t.version(v) {
		return domain.Conflict("el registro fue modificado por otra operación")
	}
	*t.version(v)++
	t.rows[key] = clone(v)
	return nil
}

// mutate aplica fn sobre la copia almacenada sin control de versión.
func (t *table[T]) mutate(id string, fn func(*T)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.rows[id]; ok {
		fn(cur)
	}
}

func (t *table[T]) delete(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
	for i, k := range t.order {
		if k == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// filter devuelve copias en orden de inserción.
func (t *table[T]) filter(keep func(*T) bool) []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*T
	for _, k := range t.order {
		if v := t.rows[k]; keep(v) {
			out = append(out, clone(v))
		}
	}
	return out
}

func page[T any](rows []*T, limit, offset int) ([]*T, int64) {
	total := int64(len(rows))
	if offset >= len(rows) {
		return []*T{}, total
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, total
}

func sortBy[T any](rows []*T, less func(a, b *T) bool) {
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}
