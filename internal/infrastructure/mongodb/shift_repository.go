package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
)

var _ repository.ShiftRepository = (*ShiftRepo)(nil)

// ShiftRepo turnos sobre MongoDB.
type ShiftRepo struct {
	col *collection[entity.Shift]
}

func NewShiftRepository(db *mongo.Database) *ShiftRepo {
	return &ShiftRepo{col: newCollection(db, colShifts,
		func(s *entity.Shift) string { return s.ID },
		func(s *entity.Shift) *int64 { return &s.Version })}
}

func (r *ShiftRepo) Create(ctx context.Context, s *entity.Shift) error {
	return r.col.insert(ctx, s)
}

func (r *ShiftRepo) GetByID(ctx context.Context, id string) (*entity.Shift, error) {
	return r.col.byID(ctx, id)
}

// Update condicionado a la versión leída: dos asignaciones concurrentes no
// pueden ganar ambas.
func (r *ShiftRepo) Update(ctx context.Context, s *entity.Shift) error {
	return r.col.replace(ctx, s)
}

func (r *ShiftRepo) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}

func (r *ShiftRepo) List(ctx context.Context, f repository.ShiftFilter) ([]*entity.Shift, int64, error) {
	q := newFilter().
		eqIf("status", f.Status).
		eqIf("requiredRole", f.RequiredRole).
		eqIf("assignedTo", f.AssignedTo).
		eqIf("location.name", f.Location)
	var from, to any
	if f.From != nil {
		from = *f.From
	}
	if f.To != nil {
		to = *f.To
	}
	q.rng("startTime", from, to)
	return r.col.page(ctx, q.build(), bson.D{{Key: "startTime", Value: 1}}, f.Limit, f.Offset)
}
