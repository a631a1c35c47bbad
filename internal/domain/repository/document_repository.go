package repository

import (
	"context"
	"time"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// DocumentRepository puerto de persistencia para Document.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	Update(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Document, error)
	// ListExpiringBetween documentos con expiryDate en [from, to).
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Document, error)
}
