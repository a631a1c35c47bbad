package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/whizkidefos/employee-management-api/internal/application/auth"
	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
	"github.com/whizkidefos/employee-management-api/pkg/textnorm"
)

// UserUseCase administración de usuarios y tokens de dispositivo.
type UserUseCase struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, now: time.Now}
}

// List listado paginado con filtros de puesto, verificación y búsqueda.
func (uc *UserUseCase) List(ctx context.Context, q dto.UserListQuery) (*dto.UserListResponse, error) {
	q.Limit = limitOrDefault(q.Limit)
	f := repository.UserFilter{JobRole: q.JobRole, Search: q.Search, Limit: q.Limit, Offset: q.Offset}
	if q.Verified != "" {
		v, err := strconv.ParseBool(q.Verified)
		if err != nil {
			return nil, domain.Validation("filtro inválido", domain.FieldError{Field: "verified", Message: "true o false"})
		}
		f.Verified = &v
	}
	users, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.NewUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total}}, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(u)
	return &out, nil
}

// Create alta administrativa: el usuario nace verificado.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	u, err := auth.NewUserFromRegistration(in.RegisterRequest, uc.now())
	if err != nil {
		return nil, err
	}
	u.IsVerified = true
	u.IsAdmin = in.IsAdmin
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(u)
	return &out, nil
}

// Update edición administrativa, incluidos isVerified e isAdmin.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = textnorm.Phone(*in.PhoneNumber)
	}
	if in.JobRole != nil {
		if !entity.IsValidJobRole(*in.JobRole) {
			return nil, domain.Validation("puesto desconocido", domain.FieldError{Field: "jobRole", Message: "puesto desconocido"})
		}
		u.JobRole = *in.JobRole
	}
	if in.IsVerified != nil {
		u.IsVerified = *in.IsVerified
	}
	if in.IsAdmin != nil {
		u.IsAdmin = *in.IsAdmin
	}
	if in.RightToWork != nil {
		u.RightToWork = *in.RightToWork
	}
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(u)
	return &out, nil
}

// Delete elimina el usuario directamente.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// AddDeviceToken registra el token push del dispositivo del usuario.
func (uc *UserUseCase) AddDeviceToken(ctx context.Context, userID, token string) error {
	u, err := uc.load(ctx, userID)
	if err != nil {
		return err
	}
	if !u.AddDeviceToken(token) {
		return nil
	}
	u.UpdatedAt = uc.now()
	return uc.repo.Update(ctx, u)
}

// RemoveDeviceToken elimina el token (logout en el dispositivo).
func (uc *UserUseCase) RemoveDeviceToken(ctx context.Context, userID, token string) error {
	if _, err := uc.load(ctx, userID); err != nil {
		return err
	}
	return uc.repo.RemoveDeviceTokens(ctx, userID, []string{token})
}

func (uc *UserUseCase) load(ctx context.Context, id string) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("usuario no encontrado")
	}
	return u, nil
}
