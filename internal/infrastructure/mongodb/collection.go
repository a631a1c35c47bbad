package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whizkidefos/employee-management-api/internal/domain"
)

// collection operaciones genéricas con control de versión optimista.
type collection[T any] struct {
	c       *mongo.Collection
	id      func(*T) string
	version func(*T) *int64
}

func newCollection[T any](db *mongo.Database, name string, id func(*T) string, version func(*T) *int64) *collection[T] {
	return &collection[T]{c: db.Collection(name), id: id, version: version}
}

// insert fija version = 1. Un índice único violado es domain.Conflict.
func (r *collection[T]) insert(ctx context.Context, v *T) error {
	*r.version(v) = 1
	if _, err := r.c.InsertOne(ctx, v); err != nil {
		*r.version(v) = 0
		if mongo.IsDuplicateKeyError(err) {
			return domain.Conflict("ya existe un registro con esos datos únicos")
		}
		return fmt.Errorf("insert %s: %w", r.c.Name(), err)
	}
	return nil
}

// findOne devuelve (nil, nil) si no hay coincidencias.
func (r *collection[T]) findOne(ctx context.Context, f bson.M, opts ...*options.FindOneOptions) (*T, error) {
	out := new(T)
	err := r.c.FindOne(ctx, f, opts...).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.c.Name(), err)
	}
	return out, nil
}

func (r *collection[T]) byID(ctx context.Context, id string) (*T, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// replace sustituye el documento solo si la versión almacenada coincide.
func (r *collection[T]) replace(ctx context.Context, v *T) error {
	id := r.id(v)
	expected := *r.version(v)
	*r.version(v) = expected + 1
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": id, "version": expected}, v)
	if err != nil {
		*r.version(v) = expected
		if mongo.IsDuplicateKeyError(err) {
			return domain.Conflict("ya existe un registro con esos datos únicos")
		}
		return fmt.Errorf("replace %s: %w", r.c.Name(), err)
	}
	if res.MatchedCount == 0 {
		*r.version(v) = expected
		n, err := r.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("count %s: %w", r.c.Name(), err)
		}
		if n == 0 {
			return domain.NotFound("registro no encontrado")
		}
		return domain.Conflict("el registro fue modificado por otra operación")
	}
	return nil
}

func (r *collection[T]) delete(ctx context.Context, id string) error {
	if _, err := r.c.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete %s: %w", r.c.Name(), err)
	}
	return nil
}

func (r *collection[T]) find(ctx context.Context, f bson.M, opts ...*options.FindOptions) ([]*T, error) {
	cur, err := r.c.Find(ctx, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.c.Name(), err)
	}
	defer cur.Close(ctx)
	out := make([]*T, 0)
	for cur.Next(ctx) {
		v := new(T)
		if err := cur.Decode(v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", r.c.Name(), err)
		}
		out = append(out, v)
	}
	return out, cur.Err()
}

// page cuenta el total y devuelve la página solicitada con el orden indicado.
func (r *collection[T]) page(ctx context.Context, f bson.M, sort bson.D, limit, offset int) ([]*T, int64, error) {
	total, err := r.c.CountDocuments(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.c.Name(), err)
	}
	opts := options.Find().SetSort(sort).SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	items, err := r.find(ctx, f, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
