package dto

import (
	"time"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// AddressInput dirección postal.
type AddressInput struct {
	Postcode string `json:"postcode" validate:"required,max=10"`
	Street   string `json:"street" validate:"required,max=200"`
	Country  string `json:"country" validate:"required,max=100"`
}

// EnhancedDBSInput el documento es obligatorio cuando has = true.
type EnhancedDBSInput struct {
	Has      bool   `json:"has"`
	Document string `json:"document" validate:"required_if=Has true"`
}

// ReferenceInput referencia profesional.
type ReferenceInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Position string `json:"position" validate:"required,max=120"`
	Company  string `json:"company" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,e164"`
}

// WorkHistoryInput entrada de historial laboral.
type WorkHistoryInput struct {
	Employer    string     `json:"employer" validate:"required,max=120"`
	Position    string     `json:"position" validate:"required,max=120"`
	StartDate   time.Time  `json:"startDate" validate:"required"`
	EndDate     *time.Time `json:"endDate"`
	Description string     `json:"description" validate:"max=1000"`
}

// SignatureInput firma del formulario de alta.
type SignatureInput struct {
	Content string     `json:"content" validate:"required"`
	Date    *time.Time `json:"date"`
}

// RegisterRequest alta de un profesional. brpNumber y brpDocument son
// obligatorios cuando nationality = Other; consent debe ser true.
type RegisterRequest struct {
	FirstName               string             `json:"firstName" validate:"required,max=80"`
	LastName                string             `json:"lastName" validate:"required,max=80"`
	Email                   string             `json:"email" validate:"required,email"`
	PhoneNumber             string             `json:"phoneNumber" validate:"required,e164"`
	Username                string             `json:"username" validate:"required,min=3,max=40,alphanum"`
	Password                string             `json:"password" validate:"required,min=8,max=72"`
	JobRole                 string             `json:"jobRole" validate:"required,oneof='Registered Nurse' 'Healthcare Assistant' 'Support Worker'"`
	DateOfBirth             *time.Time         `json:"dateOfBirth"`
	Gender                  string             `json:"gender" validate:"omitempty,max=30"`
	Address                 AddressInput       `json:"address"`
	HasUnspentConvictions   bool               `json:"hasUnspentConvictions"`
	NationalInsuranceNumber string             `json:"nationalInsuranceNumber" validate:"required,max=13"`
	EnhancedDBS             EnhancedDBSInput   `json:"enhancedDBS"`
	Nationality             string             `json:"nationality" validate:"required,oneof=UK EU Other"`
	RightToWork             bool               `json:"rightToWork"`
	BRPNumber               string             `json:"brpNumber" validate:"required_if=Nationality Other"`
	BRPDocument             string             `json:"brpDocument" validate:"required_if=Nationality Other"`
	References              []ReferenceInput   `json:"references" validate:"dive"`
	WorkHistory             []WorkHistoryInput `json:"workHistory" validate:"dive"`
	Consent                 bool               `json:"consent" validate:"required"`
	Signature               *SignatureInput    `json:"signature"`
}

// CreateUserRequest alta administrativa: mismos campos que el registro, el usuario nace verificado.
type CreateUserRequest struct {
	RegisterRequest
	IsAdmin bool `json:"isAdmin"`
}

// UpdateUserRequest edición administrativa; los campos nil no se modifican.
type UpdateUserRequest struct {
	FirstName   *string `json:"firstName" validate:"omitempty,max=80"`
	LastName    *string `json:"lastName" validate:"omitempty,max=80"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,e164"`
	JobRole     *string `json:"jobRole" validate:"omitempty,oneof='Registered Nurse' 'Healthcare Assistant' 'Support Worker'"`
	IsVerified  *bool   `json:"isVerified"`
	IsAdmin     *bool   `json:"isAdmin"`
	RightToWork *bool   `json:"rightToWork"`
}

// UpdateProfileRequest campos que el propio usuario puede editar.
type UpdateProfileRequest struct {
	FirstName   *string       `json:"firstName" validate:"omitempty,max=80"`
	LastName    *string       `json:"lastName" validate:"omitempty,max=80"`
	Gender      *string       `json:"gender" validate:"omitempty,max=30"`
	DateOfBirth *time.Time    `json:"dateOfBirth"`
	Address     *AddressInput `json:"address"`
	CVDocument  *string       `json:"cvDocument"`
}

// WorkHistoryRequest reemplaza el historial completo.
type WorkHistoryRequest struct {
	Entries []WorkHistoryInput `json:"entries" validate:"dive"`
}

// PreferencesRequest ubicaciones preferidas (avisos de turnos disponibles).
type PreferencesRequest struct {
	PreferredLocations []string `json:"preferredLocations" validate:"max=20,dive,required,max=120"`
}

// DeviceTokenRequest token de push del dispositivo.
type DeviceTokenRequest struct {
	Token string `json:"token" validate:"required,max=4096"`
}

// BankDetailsRequest datos bancarios (UK).
type BankDetailsRequest struct {
	SortCode      string `json:"sortCode" validate:"required,len=6,numeric"`
	AccountNumber string `json:"accountNumber" validate:"required,len=8,numeric"`
	BankName      string `json:"bankName" validate:"required,max=120"`
}

// UserListQuery filtros del listado administrativo.
type UserListQuery struct {
	PageRequest
	JobRole  string `query:"jobRole"`
	Verified string `query:"verified" validate:"omitempty,oneof=true false"`
	Search   string `query:"search" validate:"max=100"`
}

// UserResponse salida de un usuario (sin hash de contraseña ni tokens de dispositivo).
type UserResponse struct {
	ID                      string                    `json:"id"`
	FirstName               string                    `json:"firstName"`
	LastName                string                    `json:"lastName"`
	Email                   string                    `json:"email"`
	PhoneNumber             string                    `json:"phoneNumber"`
	Username                string                    `json:"username"`
	JobRole                 string                    `json:"jobRole"`
	ProfilePhoto            string                    `json:"profilePhoto,omitempty"`
	DateOfBirth             *time.Time                `json:"dateOfBirth,omitempty"`
	Gender                  string                    `json:"gender,omitempty"`
	Address                 entity.Address            `json:"address"`
	HasUnspentConvictions   bool                      `json:"hasUnspentConvictions"`
	NationalInsuranceNumber string                    `json:"nationalInsuranceNumber"`
	EnhancedDBS             entity.EnhancedDBS        `json:"enhancedDBS"`
	Nationality             string                    `json:"nationality"`
	RightToWork             bool                      `json:"rightToWork"`
	BRPNumber               string                    `json:"brpNumber,omitempty"`
	References              []entity.Reference        `json:"references"`
	WorkHistory             []entity.WorkHistoryEntry `json:"workHistory"`
	Consent                 bool                      `json:"consent"`
	CVDocument              string                    `json:"cvDocument,omitempty"`
	Trainings               []entity.TrainingRecord   `json:"trainings"`
	PreferredLocations      []string                  `json:"preferredLocations"`
	HasBankDetails          bool                      `json:"hasBankDetails"`
	IsVerified              bool                      `json:"isVerified"`
	IsAdmin                 bool                      `json:"isAdmin"`
	CreatedAt               time.Time                 `json:"createdAt"`
	UpdatedAt               time.Time                 `json:"updatedAt"`
}

// UserListResponse listado paginado.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// BankDetailsResponse el número de cuenta se devuelve enmascarado.
type BankDetailsResponse struct {
	SortCode      string `json:"sortCode"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
}

// NewUserResponse proyecta la entidad a la salida pública.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:                      u.ID,
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		Email:                   u.Email,
		PhoneNumber:             u.PhoneNumber,
		Username:                u.Username,
		JobRole:                 u.JobRole,
		ProfilePhoto:            u.ProfilePhoto,
		DateOfBirth:             u.DateOfBirth,
		Gender:                  u.Gender,
		Address:                 u.Address,
		HasUnspentConvictions:   u.HasUnspentConvictions,
		NationalInsuranceNumber: u.NationalInsuranceNumber,
		EnhancedDBS:             u.EnhancedDBS,
		Nationality:             u.Nationality,
		RightToWork:             u.RightToWork,
		BRPNumber:               u.BRPNumber,
		References:              u.References,
		WorkHistory:             u.WorkHistory,
		Consent:                 u.Consent,
		CVDocument:              u.CVDocument,
		Trainings:               u.Trainings,
		PreferredLocations:      u.PreferredLocations,
		HasBankDetails:          u.BankDetails != nil,
		IsVerified:              u.IsVerified,
		IsAdmin:                 u.IsAdmin,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}
