package dto

import (
	"github.com/shopspring/decimal"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// CourseModuleInput módulo de un curso. Si ID viene vacío se genera.
type CourseModuleInput struct {
	ID          string `json:"id" validate:"omitempty,max=64"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Duration    int    `json:"duration" validate:"min=0"`
	Content     string `json:"content"`
	Order       int    `json:"order" validate:"min=0"`
}

// CreateCourseRequest alta de curso (admin).
type CreateCourseRequest struct {
	Title        string              `json:"title" validate:"required,max=200"`
	Description  string              `json:"description" validate:"required,max=5000"`
	Category     string              `json:"category" validate:"required,oneof=COSHH 'Conflict Resolution' 'Domestic Violence' 'Epilepsy Awareness' Other"`
	Price        decimal.Decimal     `json:"price"`
	Duration     int                 `json:"duration" validate:"min=0"`
	Modules      []CourseModuleInput `json:"modules" validate:"dive"`
	RequiredRole string              `json:"requiredRole" validate:"omitempty,oneof='Registered Nurse' 'Healthcare Assistant' 'Support Worker'"`
	Thumbnail    string              `json:"thumbnail" validate:"omitempty,url"`
	IsActive     *bool               `json:"isActive"`
}

// UpdateCourseRequest edición parcial de curso.
type UpdateCourseRequest struct {
	Title        *string             `json:"title" validate:"omitempty,max=200"`
	Description  *string             `json:"description" validate:"omitempty,max=5000"`
	Category     *string             `json:"category" validate:"omitempty,oneof=COSHH 'Conflict Resolution' 'Domestic Violence' 'Epilepsy Awareness' Other"`
	Price        *decimal.Decimal    `json:"price"`
	Duration     *int                `json:"duration" validate:"omitempty,min=0"`
	Modules      []CourseModuleInput `json:"modules" validate:"omitempty,dive"`
	RequiredRole *string             `json:"requiredRole"`
	Thumbnail    *string             `json:"thumbnail" validate:"omitempty,url"`
	IsActive     *bool               `json:"isActive"`
}

// CourseListQuery filtros de cursos.
type CourseListQuery struct {
	PageRequest
	Category string `query:"category"`
	All      bool   `query:"all"` // admin: incluir inactivos
}

// CourseListResponse listado paginado.
type CourseListResponse struct {
	Items []*entity.Course `json:"items"`
	Page  PageResponse     `json:"page"`
}

// EnrollResponse inscripción creada; ClientSecret solo en cursos de pago.
type EnrollResponse struct {
	Enrollment      *entity.Enrollment `json:"enrollment"`
	PaymentIntentID string             `json:"paymentIntentId,omitempty"`
	ClientSecret    string             `json:"clientSecret,omitempty"`
}

// ProgressRequest actualización de progreso. Progress fuera de [0,100] es un error de validación.
type ProgressRequest struct {
	Progress *int   `json:"progress" validate:"required"`
	ModuleID string `json:"moduleId" validate:"max=64"`
}

// EnrollmentResponse inscripción con datos básicos del curso.
type EnrollmentResponse struct {
	entity.Enrollment
	CourseTitle string `json:"courseTitle,omitempty"`
}

// CertificateResponse enlace de descarga del certificado.
type CertificateResponse struct {
	CertificateID string `json:"certificateId"`
	URL           string `json:"url"`
}
