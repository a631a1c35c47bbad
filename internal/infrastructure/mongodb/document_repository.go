package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos de cumplimiento sobre MongoDB.
type DocumentRepo struct {
	col *collection[entity.Document]
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepo {
	return &DocumentRepo{col: newCollection(db, colDocuments,
		func(d *entity.Document) string { return d.ID },
		func(d *entity.Document) *int64 { return &d.Version })}
}

func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	return r.col.insert(ctx, d)
}

func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.col.byID(ctx, id)
}

func (r *DocumentRepo) Update(ctx context.Context, d *entity.Document) error {
	return r.col.replace(ctx, d)
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) error { return r.col.delete(ctx, id) }

func (r *DocumentRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Document, error) {
	return r.col.find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}}))
}

func (r *DocumentRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Document, error) {
	q := newFilter().rng("expiryDate", from, to)
	return r.col.find(ctx, q.build(), options.Find().SetSort(bson.D{{Key: "expiryDate", Value: 1}}))
}
