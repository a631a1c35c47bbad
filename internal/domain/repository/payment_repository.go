package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// PaymentRepository puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	GetByProviderID(ctx context.Context, providerPaymentID string) (*entity.Payment, error)
	Update(ctx context.Context, p *entity.Payment) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Payment, int64, error)
	// ListByShift todos los pagos de un turno, del más antiguo al más reciente.
	ListByShift(ctx context.Context, shiftID string) ([]*entity.Payment, error)
	// TotalsByStatus suma importes agrupados por estado.
	TotalsByStatus(ctx context.Context) (map[string]decimal.Decimal, error)
}
