// Package persistence abre el backend configurado (MongoDB o PostgreSQL) y
// devuelve los repositorios listos para inyectar.
package persistence

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/mongodb"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/postgres"
	"github.com/whizkidefos/employee-management-api/pkg/config"
)

// Repositories puertos de persistencia de todos los agregados.
type Repositories struct {
	Users       repository.UserRepository
	Shifts      repository.ShiftRepository
	Courses     repository.CourseRepository
	Enrollments repository.EnrollmentRepository
	Documents   repository.DocumentRepository
	Payments    repository.PaymentRepository

	close func(context.Context)
}

// Close libera la conexión subyacente.
func (r *Repositories) Close(ctx context.Context) {
	if r.close != nil {
		r.close(ctx)
	}
}

// Open conecta según cfg.Store.Driver y prepara el esquema (índices o migraciones).
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Repositories, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return openPostgres(ctx, cfg.DB, log)
	case "mongo", "":
		return openMongo(ctx, cfg.Mongo, log)
	default:
		return nil, fmt.Errorf("persistence: driver desconocido %q", cfg.Store.Driver)
	}
}

func openMongo(ctx context.Context, cfg config.MongoConfig, log zerolog.Logger) (*Repositories, error) {
	client, db, err := mongodb.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Database).Msg("MongoDB conectado")
	return &Repositories{
		Users:       mongodb.NewUserRepository(db),
		Shifts:      mongodb.NewShiftRepository(db),
		Courses:     mongodb.NewCourseRepository(db),
		Enrollments: mongodb.NewEnrollmentRepository(db),
		Documents:   mongodb.NewDocumentRepository(db),
		Payments:    mongodb.NewPaymentRepository(db),
		close: func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				log.Warn().Err(err).Msg("desconectar MongoDB")
			}
		},
	}, nil
}

func openPostgres(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*Repositories, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Str("database", cfg.DBName).Msg("PostgreSQL conectado")
	return &Repositories{
		Users:       postgres.NewUserRepository(pool),
		Shifts:      postgres.NewShiftRepository(pool),
		Courses:     postgres.NewCourseRepository(pool),
		Enrollments: postgres.NewEnrollmentRepository(pool),
		Documents:   postgres.NewDocumentRepository(pool),
		Payments:    postgres.NewPaymentRepository(pool),
		close:       func(context.Context) { pool.Close() },
	}, nil
}
