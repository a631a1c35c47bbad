package usecase

import (
	"context"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
	"github.com/whizkidefos/employee-management-api/pkg/textnorm"
)

// MaxPhotoBytes tamaño máximo de la foto de perfil.
const MaxPhotoBytes = 5 << 20

var photoTypes = map[string]string{"image/jpeg": ".jpg", "image/png": ".png"}

// ProfileUseCase operaciones del usuario sobre su propio perfil.
type ProfileUseCase struct {
	users repository.UserRepository
	files ports.FileStore
	pdf   ports.PDFRenderer
	log   zerolog.Logger
	now   func() time.Time
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(users repository.UserRepository, files ports.FileStore, pdf ports.PDFRenderer, log zerolog.Logger) *ProfileUseCase {
	return &ProfileUseCase{users: users, files: files, pdf: pdf, log: log, now: time.Now}
}

// Get perfil del usuario.
func (uc *ProfileUseCase) Get(ctx context.Context, userID string) (*dto.UserResponse, error) {
	return uc.mutate(ctx, userID, nil)
}

// Update campos editables por el propio usuario.
func (uc *ProfileUseCase) Update(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	return uc.mutate(ctx, userID, func(u *entity.User) error {
		if in.FirstName != nil {
			u.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			u.LastName = *in.LastName
		}
		if in.Gender != nil {
			u.Gender = *in.Gender
		}
		if in.DateOfBirth != nil {
			u.DateOfBirth = in.DateOfBirth
		}
		if in.Address != nil {
			u.Address = entity.Address(*in.Address)
		}
		if in.CVDocument != nil {
			u.CVDocument = *in.CVDocument
		}
		return nil
	})
}

// UploadPhoto guarda la foto (jpeg/png, máx. 5 MB) y actualiza el perfil.
func (uc *ProfileUseCase) UploadPhoto(ctx context.Context, userID string, file dto.FileInput) (*dto.UserResponse, error) {
	ext, ok := photoTypes[file.MimeType]
	if !ok {
		return nil, domain.Validation("formato no admitido", domain.FieldError{Field: "photo", Message: "solo jpeg o png"})
	}
	if file.Size > MaxPhotoBytes {
		return nil, domain.Validation("archivo demasiado grande", domain.FieldError{Field: "photo", Message: "máximo 5 MB"})
	}
	if _, err := uc.load(ctx, userID); err != nil {
		return nil, err
	}
	key := path.Join("profile-photos", userID, uuid.New().String()+ext)
	obj, err := uc.files.Put(ctx, key, file.Content, file.Size, file.MimeType)
	if err != nil {
		return nil, err
	}
	var previous string
	out, err := uc.mutate(ctx, userID, func(u *entity.User) error {
		previous = u.ProfilePhoto
		u.ProfilePhoto = obj.URL
		return nil
	})
	if err != nil {
		_ = uc.files.Delete(ctx, key)
		return nil, err
	}
	if prevKey := photoKey(previous); prevKey != "" {
		if err := uc.files.Delete(ctx, prevKey); err != nil {
			uc.log.Warn().Err(err).Str("key", prevKey).Msg("no se pudo borrar la foto anterior")
		}
	}
	return out, nil
}

// photoKey recupera la clave de almacenamiento a partir de la URL guardada.
func photoKey(url string) string {
	i := strings.Index(url, "profile-photos/")
	if i < 0 {
		return ""
	}
	key := url[i:]
	if q := strings.IndexByte(key, '?'); q >= 0 {
		key = key[:q]
	}
	return key
}

// AddReference añade una referencia profesional.
func (uc *ProfileUseCase) AddReference(ctx context.Context, userID string, in dto.ReferenceInput) (*dto.UserResponse, error) {
	return uc.mutate(ctx, userID, func(u *entity.User) error {
		if len(u.References) >= 10 {
			return domain.Validation("demasiadas referencias", domain.FieldError{Field: "references", Message: "máximo 10"})
		}
		u.References = append(u.References, entity.Reference(in))
		return nil
	})
}

// ReplaceWorkHistory sustituye el historial laboral completo.
func (uc *ProfileUseCase) ReplaceWorkHistory(ctx context.Context, userID string, in dto.WorkHistoryRequest) (*dto.UserResponse, error) {
	entries := make([]entity.WorkHistoryEntry, 0, len(in.Entries))
	var fields []domain.FieldError
	for i, e := range in.Entries {
		if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
			fields = append(fields, domain.FieldError{Field: "entries[" + strconv.Itoa(i) + "].endDate", Message: "anterior a startDate"})
		}
		entries = append(entries, entity.WorkHistoryEntry(e))
	}
	if len(fields) > 0 {
		return nil, domain.Validation("historial inválido", fields...)
	}
	return uc.mutate(ctx, userID, func(u *entity.User) error {
		u.WorkHistory = entries
		return nil
	})
}

// UpdatePreferences ubicaciones preferidas, normalizadas y sin duplicados.
func (uc *ProfileUseCase) UpdatePreferences(ctx context.Context, userID string, in dto.PreferencesRequest) (*dto.UserResponse, error) {
	seen := map[string]struct{}{}
	locations := make([]string, 0, len(in.PreferredLocations))
	for _, l := range in.PreferredLocations {
		l = strings.TrimSpace(l)
		key := textnorm.Key(l)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		locations = append(locations, l)
	}
	return uc.mutate(ctx, userID, func(u *entity.User) error {
		u.PreferredLocations = locations
		return nil
	})
}

// GetBankDetails datos bancarios con el número de cuenta enmascarado.
func (uc *ProfileUseCase) GetBankDetails(ctx context.Context, userID string) (*dto.BankDetailsResponse, error) {
	u, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.BankDetails == nil {
		return nil, domain.NotFound("no hay datos bancarios registrados")
	}
	return maskBank(u.BankDetails), nil
}

// UpdateBankDetails reemplaza los datos bancarios.
func (uc *ProfileUseCase) UpdateBankDetails(ctx context.Context, userID string, in dto.BankDetailsRequest) (*dto.BankDetailsResponse, error) {
	bank := entity.BankDetails(in)
	if _, err := uc.mutate(ctx, userID, func(u *entity.User) error {
		u.BankDetails = &bank
		return nil
	}); err != nil {
		return nil, err
	}
	return maskBank(&bank), nil
}

// Export PDF con el perfil completo del usuario.
func (uc *ProfileUseCase) Export(ctx context.Context, userID string) ([]byte, error) {
	u, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.ProfileExport(u, uc.now())
}

func (uc *ProfileUseCase) load(ctx context.Context, id string) (*entity.User, error) {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("usuario no encontrado")
	}
	return u, nil
}

// mutate carga, aplica fn y persiste. Con fn nil solo lee.
func (uc *ProfileUseCase) mutate(ctx context.Context, userID string, fn func(*entity.User) error) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		if err := fn(u); err != nil {
			return nil, err
		}
		u.UpdatedAt = uc.now()
		if err := uc.users.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	out := dto.NewUserResponse(u)
	return &out, nil
}

func maskBank(b *entity.BankDetails) *dto.BankDetailsResponse {
	acc := b.AccountNumber
	if len(acc) > 4 {
		acc = strings.Repeat("*", len(acc)-4) + acc[len(acc)-4:]
	}
	return &dto.BankDetailsResponse{SortCode: b.SortCode, AccountNumber: acc, BankName: b.BankName}
}
