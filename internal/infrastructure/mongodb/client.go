// Package mongodb implementa los repositorios sobre MongoDB (almacén por defecto).
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whizkidefos/employee-management-api/pkg/config"
)

// Nombres de colecciones.
const (
	colUsers       = "users"
	colShifts      = "shifts"
	colCourses     = "courses"
	colEnrollments = "enrollments"
	colDocuments   = "documents"
	colPayments    = "payments"
)

// Connect abre el cliente con el codec de decimales registrado y verifica la conexión.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetRegistry(NewRegistry()).
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("conectar mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes crea los índices únicos y de consulta. Es idempotente.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "phoneNumber", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "jobRole", Value: 1}}},
		},
		colShifts: {
			{Keys: bson.D{{Key: "startTime", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "requiredRole", Value: 1}}},
			{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
		},
		colCourses: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}}},
		},
		colEnrollments: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "courseId", Value: 1}}},
			{Keys: bson.D{{Key: "paymentIntentId", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		colDocuments: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "expiryDate", Value: 1}}},
		},
		colPayments: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "shiftId", Value: 1}}},
			{Keys: bson.D{{Key: "providerPaymentId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("índices %s: %w", name, err)
		}
	}
	return nil
}
