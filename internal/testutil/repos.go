package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
)

var (
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.ShiftRepository      = (*ShiftRepo)(nil)
	_ repository.CourseRepository     = (*CourseRepo)(nil)
	_ repository.EnrollmentRepository = (*EnrollmentRepo)(nil)
	_ repository.DocumentRepository   = (*DocumentRepo)(nil)
	_ repository.PaymentRepository    = (*PaymentRepo)(nil)
)

// ─── Users ───────────────────────────────────────────────────────────────────

type UserRepo struct{ t *table[entity.User] }

func NewUserRepo() *UserRepo {
	return &UserRepo{t: newTable(func(u *entity.User) string { return u.ID }, func(u *entity.User) *int64 { return &u.Version })}
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	dup := r.t.filter(func(x *entity.User) bool {
		return x.Email == u.Email || (u.Username != "" && x.Username == u.Username) || (u.PhoneNumber != "" && x.PhoneNumber == u.PhoneNumber)
	})
	if len(dup) > 0 {
		return domain.Conflict("email, username o teléfono ya registrado")
	}
	return r.t.insert(u)
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.t.get(id), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return first(r.t.filter(func(u *entity.User) bool { return u.Email == email })), nil
}

func (r *UserRepo) GetByPhone(_ context.Context, phone string) (*entity.User, error) {
	return first(r.t.filter(func(u *entity.User) bool { return u.PhoneNumber == phone })), nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error { return r.t.update(u) }

func (r *UserRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, int64, error) {
	search := strings.ToLower(f.Search)
	rows := r.t.filter(func(u *entity.User) bool {
		if f.JobRole != "" && u.JobRole != f.JobRole {
			return false
		}
		if f.Verified != nil && u.IsVerified != *f.Verified {
			return false
		}
		if search != "" {
			hay := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email + " " + u.Username)
			if !strings.Contains(hay, search) {
				return false
			}
		}
		return true
	})
	out, total := page(rows, f.Limit, f.Offset)
	return out, total, nil
}

func (r *UserRepo) ListByJobRole(_ context.Context, jobRole string) ([]*entity.User, error) {
	return r.t.filter(func(u *entity.User) bool { return u.JobRole == jobRole }), nil
}

func (r *UserRepo) RemoveDeviceTokens(_ context.Context, userID string, tokens []string) error {
	r.t.mutate(userID, func(u *entity.User) { u.RemoveDeviceTokens(tokens...) })
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.t.delete(id)
	return nil
}

// ─── Shifts ──────────────────────────────────────────────────────────────────

type ShiftRepo struct{ t *table[entity.Shift] }

func NewShiftRepo() *ShiftRepo {
	return &ShiftRepo{t: newTable(func(s *entity.Shift) string { return s.ID }, func(s *entity.Shift) *int64 { return &s.Version })}
}

func (r *ShiftRepo) Create(_ context.Context, s *entity.Shift) error { return r.t.insert(s) }

func (r *ShiftRepo) GetByID(_ context.Context, id string) (*entity.Shift, error) {
	return r.t.get(id), nil
}

func (r *ShiftRepo) Update(_ context.Context, s *entity.Shift) error { return r.t.update(s) }

func (r *ShiftRepo) Delete(_ context.Context, id string) error {
	r.t.delete(id)
	return nil
}

func (r *ShiftRepo) List(_ context.Context, f repository.ShiftFilter) ([]*entity.Shift, int64, error) {
	rows := r.t.filter(func(s *entity.Shift) bool {
		switch {
		case f.From != nil && s.StartTime.Before(*f.From):
			return false
		case f.To != nil && !s.StartTime.Before(*f.To):
			return false
		case f.Status != "" && s.Status != f.Status:
			return false
		case f.RequiredRole != "" && s.RequiredRole != f.RequiredRole:
			return false
		case f.AssignedTo != "" && s.AssignedTo != f.AssignedTo:
			return false
		case f.Location != "" && s.Location.Name != f.Location:
			return false
		}
		return true
	})
	sortBy(rows, func(a, b *entity.Shift) bool { return a.StartTime.Before(b.StartTime) })
	out, total := page(rows, f.Limit, f.Offset)
	return out, total, nil
}

// ─── Courses / Enrollments ───────────────────────────────────────────────────

type CourseRepo struct{ t *table[entity.Course] }

func NewCourseRepo() *CourseRepo {
	return &CourseRepo{t: newTable(func(c *entity.Course) string { return c.ID }, func(c *entity.Course) *int64 { return &c.Version })}
}

func (r *CourseRepo) Create(_ context.Context, c *entity.Course) error { return r.t.insert(c) }

func (r *CourseRepo) GetByID(_ context.Context, id string) (*entity.Course, error) {
	return r.t.get(id), nil
}

func (r *CourseRepo) Update(_ context.Context, c *entity.Course) error { return r.t.update(c) }

func (r *CourseRepo) Delete(_ context.Context, id string) error {
	r.t.delete(id)
	return nil
}

func (r *CourseRepo) List(_ context.Context, f repository.CourseFilter) ([]*entity.Course, int64, error) {
	rows := r.t.filter(func(c *entity.Course) bool {
		if f.ActiveOnly && !c.IsActive {
			return false
		}
		return f.Category == "" || c.Category == f.Category
	})
	out, total := page(rows, f.Limit, f.Offset)
	return out, total, nil
}

type EnrollmentRepo struct{ t *table[entity.Enrollment] }

func NewEnrollmentRepo() *EnrollmentRepo {
	return &EnrollmentRepo{t: newTable(func(e *entity.Enrollment) string { return e.ID }, func(e *entity.Enrollment) *int64 { return &e.Version })}
}

func (r *EnrollmentRepo) Create(_ context.Context, e *entity.Enrollment) error { return r.t.insert(e) }

func (r *EnrollmentRepo) GetByID(_ context.Context, id string) (*entity.Enrollment, error) {
	return r.t.get(id), nil
}

func (r *EnrollmentRepo) Update(_ context.Context, e *entity.Enrollment) error { return r.t.update(e) }

func (r *EnrollmentRepo) GetOpenByUserAndCourse(_ context.Context, userID, courseID string) (*entity.Enrollment, error) {
	return first(r.t.filter(func(e *entity.Enrollment) bool {
		return e.UserID == userID && e.CourseID == courseID && e.Status != entity.EnrollmentCancelled
	})), nil
}

func (r *EnrollmentRepo) GetByPaymentIntent(_ context.Context, intentID string) (*entity.Enrollment, error) {
	return first(r.t.filter(func(e *entity.Enrollment) bool { return e.PaymentIntentID == intentID })), nil
}

func (r *EnrollmentRepo) ListByUser(_ context.Context, userID, status string) ([]*entity.Enrollment, error) {
	return r.t.filter(func(e *entity.Enrollment) bool {
		return e.UserID == userID && (status == "" || e.Status == status)
	}), nil
}

// ─── Documents ───────────────────────────────────────────────────────────────

type DocumentRepo struct{ t *table[entity.Document] }

func NewDocumentRepo() *DocumentRepo {
	return &DocumentRepo{t: newTable(func(d *entity.Document) string { return d.ID }, func(d *entity.Document) *int64 { return &d.Version })}
}

func (r *DocumentRepo) Create(_ context.Context, d *entity.Document) error { return r.t.insert(d) }

func (r *DocumentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	return r.t.get(id), nil
}

func (r *DocumentRepo) Update(_ context.Context, d *entity.Document) error { return r.t.update(d) }

func (r *DocumentRepo) Delete(_ context.Context, id string) error {
	r.t.delete(id)
	return nil
}

func (r *DocumentRepo) ListByUser(_ context.Context, userID string) ([]*entity.Document, error) {
	return r.t.filter(func(d *entity.Document) bool { return d.UserID == userID }), nil
}

func (r *DocumentRepo) ListExpiringBetween(_ context.Context, from, to time.Time) ([]*entity.Document, error) {
	return r.t.filter(func(d *entity.Document) bool {
		return d.ExpiryDate != nil && !d.ExpiryDate.Before(from) && d.ExpiryDate.Before(to)
	}), nil
}

// ─── Payments ────────────────────────────────────────────────────────────────

type PaymentRepo struct{ t *table[entity.Payment] }

func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{t: newTable(func(p *entity.Payment) string { return p.ID }, func(p *entity.Payment) *int64 { return &p.Version })}
}

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error { return r.t.insert(p) }

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	return r.t.get(id), nil
}

func (r *PaymentRepo) GetByProviderID(_ context.Context, providerID string) (*entity.Payment, error) {
	return first(r.t.filter(func(p *entity.Payment) bool { return p.ProviderPaymentID == providerID })), nil
}

func (r *PaymentRepo) Update(_ context.Context, p *entity.Payment) error { return r.t.update(p) }

func (r *PaymentRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Payment, int64, error) {
	rows := r.t.filter(func(p *entity.Payment) bool { return p.UserID == userID })
	out, total := page(rows, limit, offset)
	return out, total, nil
}

func (r *PaymentRepo) ListByShift(_ context.Context, shiftID string) ([]*entity.Payment, error) {
	return r.t.filter(func(p *entity.Payment) bool { return p.ShiftID == shiftID }), nil
}

func (r *PaymentRepo) TotalsByStatus(_ context.Context) (map[string]decimal.Decimal, error) {
	totals := map[string]decimal.Decimal{}
	for _, p := range r.t.filter(func(*entity.Payment) bool { return true }) {
		totals[p.Status] = totals[p.Status].Add(p.Amount)
	}
	return totals, nil
}

// All devuelve todos los pagos (aserciones de tests).
func (r *PaymentRepo) All() []*entity.Payment {
	return r.t.filter(func(*entity.Payment) bool { return true })
}

func first[T any](rows []*T) *T {
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}
