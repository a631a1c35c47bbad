package mongodb

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos sobre MongoDB.
type PaymentRepo struct {
	col *collection[entity.Payment]
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepo {
	return &PaymentRepo{col: newCollection(db, colPayments,
		func(p *entity.Payment) string { return p.ID },
		func(p *entity.Payment) *int64 { return &p.Version })}
}

// Create un providerPaymentId repetido es Conflict (índice único disperso).
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	return r.col.insert(ctx, p)
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return r.col.byID(ctx, id)
}

func (r *PaymentRepo) GetByProviderID(ctx context.Context, providerPaymentID string) (*entity.Payment, error) {
	return r.col.findOne(ctx, bson.M{"providerPaymentId": providerPaymentID})
}

func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	return r.col.replace(ctx, p)
}

func (r *PaymentRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Payment, int64, error) {
	return r.col.page(ctx, bson.M{"userId": userID}, bson.D{{Key: "createdAt", Value: -1}}, limit, offset)
}

func (r *PaymentRepo) ListByShift(ctx context.Context, shiftID string) ([]*entity.Payment, error) {
	return r.col.find(ctx, bson.M{"shiftId": shiftID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

// TotalsByStatus $group por estado con suma Decimal128.
func (r *PaymentRepo) TotalsByStatus(ctx context.Context) (map[string]decimal.Decimal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
	cur, err := r.col.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate payments: %w", err)
	}
	defer cur.Close(ctx)
	var rows []struct {
		Status string          `bson:"_id"`
		Total  decimal.Decimal `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode totals: %w", err)
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}
