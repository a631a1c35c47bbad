package repository

import (
	"context"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

type CourseFilter struct {
	Category   string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// CourseRepository puerto de persistencia para Course.
type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	Update(ctx context.Context, course *entity.Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f CourseFilter) ([]*entity.Course, int64, error)
}

// EnrollmentRepository puerto de persistencia para Enrollment.
type EnrollmentRepository interface {
	Create(ctx context.Context, e *entity.Enrollment) error
	GetByID(ctx context.Context, id string) (*entity.Enrollment, error)
	Update(ctx context.Context, e *entity.Enrollment) error
	// GetOpenByUserAndCourse devuelve la inscripción no cancelada, si existe.
	GetOpenByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Enrollment, error)
	GetByPaymentIntent(ctx context.Context, intentID string) (*entity.Enrollment, error)
	ListByUser(ctx context.Context, userID, status string) ([]*entity.Enrollment, error)
}
