package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

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

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	t *table[entity.User]
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{t: newTable(pool, "users",
		func(u *entity.User) string { return u.ID },
		func(u *entity.User) *int64 { return &u.Version })}
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error { return r.t.insert(ctx, u) }

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.t.byID(ctx, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.t.one(ctx, `data->>'email' = $1`, email)
}

func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return r.t.one(ctx, `data->>'phoneNumber' = $1`, phone)
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error { return r.t.update(ctx, u) }

func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int64, error) {
	w := newWhere().addIf(`data->>'jobRole' = ?`, f.JobRole)
	if f.Verified != nil {
		w.add(`(data->>'isVerified')::boolean = ?`, *f.Verified)
	}
	if f.Search != "" {
		w.add(`concat_ws(' ', data->>'firstName', data->>'lastName', data->>'email', data->>'username') ILIKE '%' || ?::text || '%'`, escapeLike(f.Search))
	}
	return r.t.page(ctx, w, `data->>'lastName', data->>'firstName'`, f.Limit, f.Offset)
}

func (r *UserRepo) ListByJobRole(ctx context.Context, jobRole string) ([]*entity.User, error) {
	return r.t.many(ctx, newWhere().add(`data->>'jobRole' = ?`, jobRole), `id`, 0, 0)
}

// RemoveDeviceTokens filtra el array sin tocar la versión.
func (r *UserRepo) RemoveDeviceTokens(ctx context.Context, userID string, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	_, err := r.t.pool.Exec(ctx, `
		UPDATE users SET data = jsonb_set(data, '{deviceTokens}', COALESCE((
			SELECT jsonb_agg(tok) FROM jsonb_array_elements(data->'deviceTokens') tok
			WHERE NOT (tok #>> '{}' = ANY($2))
		), '[]'::jsonb))
		WHERE id = $1 AND jsonb_typeof(data->'deviceTokens') = 'array'`, userID, tokens)
	if err != nil {
		return fmt.Errorf("remove device tokens: %w", err)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error { return r.t.delete(ctx, id) }

// ShiftRepo turnos sobre PostgreSQL.
type ShiftRepo struct {
	t *table[entity.Shift]
}

func NewShiftRepository(pool *pgxpool.Pool) *ShiftRepo {
	return &ShiftRepo{t: newTable(pool, "shifts",
		func(s *entity.Shift) string { return s.ID },
		func(s *entity.Shift) *int64 { return &s.Version })}
}

func (r *ShiftRepo) Create(ctx context.Context, s *entity.Shift) error { return r.t.insert(ctx, s) }

func (r *ShiftRepo) GetByID(ctx context.Context, id string) (*entity.Shift, error) {
	return r.t.byID(ctx, id)
}

func (r *ShiftRepo) Update(ctx context.Context, s *entity.Shift) error { return r.t.update(ctx, s) }

func (r *ShiftRepo) Delete(ctx context.Context, id string) error { return r.t.delete(ctx, id) }

func (r *ShiftRepo) List(ctx context.Context, f repository.ShiftFilter) ([]*entity.Shift, int64, error) {
	w := newWhere().
		addIf(`data->>'status' = ?`, f.Status).
		addIf(`data->>'requiredRole' = ?`, f.RequiredRole).
		addIf(`data->>'assignedTo' = ?`, f.AssignedTo).
		addIf(`data->'location'->>'name' = ?`, f.Location)
	if f.From != nil {
		w.add(`(data->>'startTime')::timestamptz >= ?`, *f.From)
	}
	if f.To != nil {
		w.add(`(data->>'startTime')::timestamptz < ?`, *f.To)
	}
	return r.t.page(ctx, w, `(data->>'startTime')::timestamptz`, f.Limit, f.Offset)
}

// CourseRepo cursos sobre PostgreSQL.
type CourseRepo struct {
	t *table[entity.Course]
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{t: newTable(pool, "courses",
		func(c *entity.Course) string { return c.ID },
		func(c *entity.Course) *int64 { return &c.Version })}
}

func (r *CourseRepo) Create(ctx context.Context, c *entity.Course) error { return r.t.insert(ctx, c) }

func (r *CourseRepo) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	return r.t.byID(ctx, id)
}

func (r *CourseRepo) Update(ctx context.Context, c *entity.Course) error { return r.t.update(ctx, c) }

func (r *CourseRepo) Delete(ctx context.Context, id string) error { return r.t.delete(ctx, id) }

func (r *CourseRepo) List(ctx context.Context, f repository.CourseFilter) ([]*entity.Course, int64, error) {
	w := newWhere().addIf(`data->>'category' = ?`, f.Category)
	if f.ActiveOnly {
		w.add(`(data->>'isActive')::boolean = ?`, true)
	}
	return r.t.page(ctx, w, `data->>'title'`, f.Limit, f.Offset)
}

// EnrollmentRepo inscripciones sobre PostgreSQL.
type EnrollmentRepo struct {
	t *table[entity.Enrollment]
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepo {
	return &EnrollmentRepo{t: newTable(pool, "enrollments",
		func(e *entity.Enrollment) string { return e.ID },
		func(e *entity.Enrollment) *int64 { return &e.Version })}
}

func (r *EnrollmentRepo) Create(ctx context.Context, e *entity.Enrollment) error {
	return r.t.insert(ctx, e)
}

func (r *EnrollmentRepo) GetByID(ctx context.Context, id string) (*entity.Enrollment, error) {
	return r.t.byID(ctx, id)
}

func (r *EnrollmentRepo) Update(ctx context.Context, e *entity.Enrollment) error {
	return r.t.update(ctx, e)
}

func (r *EnrollmentRepo) GetOpenByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	return r.t.one(ctx, `data->>'userId' = $1 AND data->>'courseId' = $2 AND data->>'status' <> $3`,
		userID, courseID, entity.EnrollmentCancelled)
}

func (r *EnrollmentRepo) GetByPaymentIntent(ctx context.Context, intentID string) (*entity.Enrollment, error) {
	return r.t.one(ctx, `data->>'paymentIntentId' = $1`, intentID)
}

func (r *EnrollmentRepo) ListByUser(ctx context.Context, userID, status string) ([]*entity.Enrollment, error) {
	w := newWhere().add(`data->>'userId' = ?`, userID).addIf(`data->>'status' = ?`, status)
	return r.t.many(ctx, w, `(data->>'startDate')::timestamptz DESC`, 0, 0)
}

// DocumentRepo documentos de cumplimiento sobre PostgreSQL.
type DocumentRepo struct {
	t *table[entity.Document]
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{t: newTable(pool, "documents",
		func(d *entity.Document) string { return d.ID },
		func(d *entity.Document) *int64 { return &d.Version })}
}

func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	return r.t.insert(ctx, d)
}

func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.t.byID(ctx, id)
}

func (r *DocumentRepo) Update(ctx context.Context, d *entity.Document) error {
	return r.t.update(ctx, d)
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) error { return r.t.delete(ctx, id) }

func (r *DocumentRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Document, error) {
	return r.t.many(ctx, newWhere().add(`data->>'userId' = ?`, userID), `(data->>'uploadedAt')::timestamptz DESC`, 0, 0)
}

func (r *DocumentRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Document, error) {
	w := newWhere().
		add(`(data->>'expiryDate')::timestamptz >= ?`, from).
		add(`(data->>'expiryDate')::timestamptz < ?`, to)
	return r.t.many(ctx, w, `(data->>'expiryDate')::timestamptz`, 0, 0)
}

// PaymentRepo pagos sobre PostgreSQL.
type PaymentRepo struct {
	t *table[entity.Payment]
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{t: newTable(pool, "payments",
		func(p *entity.Payment) string { return p.ID },
		func(p *entity.Payment) *int64 { return &p.Version })}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error { return r.t.insert(ctx, p) }

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return r.t.byID(ctx, id)
}

func (r *PaymentRepo) GetByProviderID(ctx context.Context, providerPaymentID string) (*entity.Payment, error) {
	return r.t.one(ctx, `data->>'providerPaymentId' = $1`, providerPaymentID)
}

func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error { return r.t.update(ctx, p) }

func (r *PaymentRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Payment, int64, error) {
	return r.t.page(ctx, newWhere().add(`data->>'userId' = ?`, userID), `(data->>'createdAt')::timestamptz DESC`, limit, offset)
}

func (r *PaymentRepo) ListByShift(ctx context.Context, shiftID string) ([]*entity.Payment, error) {
	return r.t.many(ctx, newWhere().add(`data->>'shiftId' = ?`, shiftID), `(data->>'createdAt')::timestamptz ASC`, 0, 0)
}

// TotalsByStatus el importe se guarda como string decimal; se suma como NUMERIC.
func (r *PaymentRepo) TotalsByStatus(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.t.pool.Query(ctx, `
		SELECT data->>'status', COALESCE(SUM((data->>'amount')::numeric), 0)
		FROM payments GROUP BY data->>'status'`)
	if err != nil {
		return nil, fmt.Errorf("totals by status: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			status string
			total  decimal.Decimal
		)
		if err := rows.Scan(&status, &total); err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}
		out[status] = total
	}
	return out, rows.Err()
}
