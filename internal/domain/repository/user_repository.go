package repository

import (
	"context"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// UserFilter criterios de listado para administración.
type UserFilter struct {
	JobRole  string
	Verified *bool
	Search   string // nombre, apellido, email o username
	Limit    int
	Offset   int
}

// UserRepository define el puerto de persistencia para User (DIP).
//
// Los Get devuelven (nil, nil) si no existe. Create devuelve domain.ErrConflict
// ante email, username o teléfono duplicados. Update es condicional a Version
// y la incrementa; si otro escritor ganó devuelve domain.ErrConflict.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, f UserFilter) ([]*entity.User, int64, error)
	ListByJobRole(ctx context.Context, jobRole string) ([]*entity.User, error)
	// RemoveDeviceTokens quita tokens sin pasar por el control de versión.
	RemoveDeviceTokens(ctx context.Context, userID string, tokens []string) error
	Delete(ctx context.Context, id string) error
}
