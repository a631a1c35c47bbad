package usecase

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/notification"
	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
	"github.com/whizkidefos/employee-management-api/pkg/money"
)

// TrainingUseCase cursos, inscripciones, progreso y certificados.
type TrainingUseCase struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	users       repository.UserRepository
	gateway     ports.PaymentGateway // nil si los pagos no están configurados
	files       ports.FileStore
	pdf         ports.PDFRenderer
	notifier    notification.Notifier
	currency    string
	log         zerolog.Logger
	now         func() time.Time
}

// TrainingDeps dependencias de TrainingUseCase.
type TrainingDeps struct {
	Courses     repository.CourseRepository
	Enrollments repository.EnrollmentRepository
	Users       repository.UserRepository
	Gateway     ports.PaymentGateway
	Files       ports.FileStore
	PDF         ports.PDFRenderer
	Notifier    notification.Notifier
	Currency    string
}

// NewTrainingUseCase construye el caso de uso.
func NewTrainingUseCase(d TrainingDeps, log zerolog.Logger) *TrainingUseCase {
	currency := d.Currency
	if currency == "" {
		currency = "gbp"
	}
	return &TrainingUseCase{
		courses:     d.Courses,
		enrollments: d.Enrollments,
		users:       d.Users,
		gateway:     d.Gateway,
		files:       d.Files,
		pdf:         d.PDF,
		notifier:    d.Notifier,
		currency:    currency,
		log:         log,
		now:         time.Now,
	}
}

// WithClock sustituye el reloj (tests).
func (uc *TrainingUseCase) WithClock(now func() time.Time) *TrainingUseCase {
	uc.now = now
	return uc
}

// ─── Cursos ──────────────────────────────────────────────────────────────────

// CreateCourse alta de curso; el administrador queda como instructor.
func (uc *TrainingUseCase) CreateCourse(ctx context.Context, actor Actor, in dto.CreateCourseRequest) (*entity.Course, error) {
	if in.Price.IsNegative() {
		return nil, domain.Validation("precio inválido", domain.FieldError{Field: "price", Message: "debe ser >= 0"})
	}
	now := uc.now()
	c := &entity.Course{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Price:        in.Price.Round(2),
		Duration:     in.Duration,
		Modules:      toModules(in.Modules),
		RequiredRole: in.RequiredRole,
		InstructorID: actor.UserID,
		Thumbnail:    in.Thumbnail,
		IsActive:     in.IsActive == nil || *in.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.courses.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCourse edición parcial.
func (uc *TrainingUseCase) UpdateCourse(ctx context.Context, id string, in dto.UpdateCourseRequest) (*entity.Course, error) {
	c, err := uc.loadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Category != nil {
		c.Category = *in.Category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.Validation("precio inválido", domain.FieldError{Field: "price", Message: "debe ser >= 0"})
		}
		c.Price = in.Price.Round(2)
	}
	if in.Duration != nil {
		c.Duration = *in.Duration
	}
	if in.Modules != nil {
		c.Modules = toModules(in.Modules)
	}
	if in.RequiredRole != nil {
		if *in.RequiredRole != "" && !entity.IsValidJobRole(*in.RequiredRole) {
			return nil, domain.Validation("puesto desconocido", domain.FieldError{Field: "requiredRole", Message: "puesto desconocido"})
		}
		c.RequiredRole = *in.RequiredRole
	}
	if in.Thumbnail != nil {
		c.Thumbnail = *in.Thumbnail
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	c.UpdatedAt = uc.now()
	if err := uc.courses.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCourse elimina el curso. Las inscripciones existentes se conservan.
func (uc *TrainingUseCase) DeleteCourse(ctx context.Context, id string) error {
	if _, err := uc.loadCourse(ctx, id); err != nil {
		return err
	}
	return uc.courses.Delete(ctx, id)
}

// GetCourse los cursos inactivos solo son visibles para administradores.
func (uc *TrainingUseCase) GetCourse(ctx context.Context, actor Actor, id string) (*entity.Course, error) {
	c, err := uc.loadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive && !actor.Admin {
		return nil, domain.NotFound("curso no encontrado")
	}
	return c, nil
}

// ListCourses listado por categoría; all=true (solo admin) incluye inactivos.
func (uc *TrainingUseCase) ListCourses(ctx context.Context, actor Actor, q dto.CourseListQuery) (*dto.CourseListResponse, error) {
	q.Limit = limitOrDefault(q.Limit)
	items, total, err := uc.courses.List(ctx, repository.CourseFilter{
		Category:   q.Category,
		ActiveOnly: !(actor.Admin && q.All),
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CourseListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total}}, nil
}

// ─── Inscripciones ───────────────────────────────────────────────────────────

// Enroll inscribe al usuario. Los cursos de pago crean una intención de pago y
// la inscripción queda pending hasta que llega el webhook.
func (uc *TrainingUseCase) Enroll(ctx context.Context, actor Actor, courseID string) (*dto.EnrollResponse, error) {
	c, err := uc.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, domain.InvalidState("el curso no está activo")
	}
	if c.RequiredRole != "" && c.RequiredRole != actor.JobRole {
		return nil, domain.RoleMismatch(fmt.Sprintf("el curso requiere el puesto %q", c.RequiredRole))
	}
	open, err := uc.enrollments.GetOpenByUserAndCourse(ctx, actor.UserID, c.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.Conflict("ya existe una inscripción en este curso")
	}
	if !c.IsFree() && uc.gateway == nil {
		return nil, domain.Unavailable("los pagos no están configurados")
	}

	now := uc.now()
	e := &entity.Enrollment{
		ID:            uuid.New().String(),
		UserID:        actor.UserID,
		CourseID:      c.ID,
		Status:        entity.EnrollmentActive,
		PaymentStatus: entity.EnrollmentPaymentNotRequired,
		StartDate:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	out := &dto.EnrollResponse{Enrollment: e}
	if !c.IsFree() {
		intent, err := uc.gateway.CreatePaymentIntent(ctx, ports.PaymentIntentInput{
			AmountMinor:    money.ToMinorUnits(c.Price),
			Currency:       uc.currency,
			Description:    "Inscripción: " + c.Title,
			IdempotencyKey: "enrollment-" + e.ID,
			Metadata: map[string]string{
				"userId":       actor.UserID,
				"enrollmentId": e.ID,
				"courseId":     c.ID,
				"type":         "course_enrollment",
			},
		})
		if err != nil {
			return nil, err
		}
		e.Status = entity.EnrollmentPending
		e.PaymentStatus = entity.EnrollmentPaymentPending
		e.PaymentIntentID = intent.ID
		out.PaymentIntentID = intent.ID
		out.ClientSecret = intent.ClientSecret
	}
	if err := uc.enrollments.Create(ctx, e); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Te has inscrito en %q.", c.Title)
	if e.Status == entity.EnrollmentPending {
		msg = fmt.Sprintf("Tu inscripción en %q se activará al confirmarse el pago de %s.", c.Title, money.FormatGBP(c.Price))
	}
	notify(ctx, uc.notifier, uc.log, actor.UserID, notification.Event{
		Type:    notification.TypeCourseEnrolled,
		Subject: "Inscripción en curso",
		Message: msg,
		Data:    map[string]string{"courseId": c.ID, "enrollmentId": e.ID},
	})
	return out, nil
}

// Withdraw cancela la inscripción propia. Una inscripción completada no se cancela.
func (uc *TrainingUseCase) Withdraw(ctx context.Context, actor Actor, enrollmentID string) (*entity.Enrollment, error) {
	e, err := uc.ownEnrollment(ctx, actor, enrollmentID, false)
	if err != nil {
		return nil, err
	}
	switch e.Status {
	case entity.EnrollmentCompleted:
		return nil, domain.InvalidState("el curso ya está completado")
	case entity.EnrollmentCancelled:
		return nil, domain.InvalidState("la inscripción ya está cancelada")
	}
	e.Status = entity.EnrollmentCancelled
	e.UpdatedAt = uc.now()
	if err := uc.enrollments.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// MyEnrollments inscripciones del usuario, opcionalmente filtradas por estado.
func (uc *TrainingUseCase) MyEnrollments(ctx context.Context, userID, status string) ([]dto.EnrollmentResponse, error) {
	items, err := uc.enrollments.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	titles := map[string]string{}
	out := make([]dto.EnrollmentResponse, 0, len(items))
	for _, e := range items {
		title, ok := titles[e.CourseID]
		if !ok {
			if c, err := uc.courses.GetByID(ctx, e.CourseID); err == nil && c != nil {
				title = c.Title
			}
			titles[e.CourseID] = title
		}
		out = append(out, dto.EnrollmentResponse{Enrollment: *e, CourseTitle: title})
	}
	return out, nil
}

// History cursos completados.
func (uc *TrainingUseCase) History(ctx context.Context, userID string) ([]dto.EnrollmentResponse, error) {
	return uc.MyEnrollments(ctx, userID, entity.EnrollmentCompleted)
}

// UpdateProgress actualiza el progreso. Al llegar a 100 emite el certificado
// una única vez; después el progreso no puede bajar.
func (uc *TrainingUseCase) UpdateProgress(ctx context.Context, actor Actor, enrollmentID string, in dto.ProgressRequest) (*entity.Enrollment, error) {
	if in.Progress == nil || *in.Progress < 0 || *in.Progress > 100 {
		return nil, domain.Validation("progreso inválido", domain.FieldError{Field: "progress", Message: "debe estar entre 0 y 100"})
	}
	progress := *in.Progress
	e, err := uc.ownEnrollment(ctx, actor, enrollmentID, false)
	if err != nil {
		return nil, err
	}
	switch e.Status {
	case entity.EnrollmentPending:
		return nil, domain.InvalidState("la inscripción está pendiente de pago")
	case entity.EnrollmentCancelled:
		return nil, domain.InvalidState("la inscripción está cancelada")
	case entity.EnrollmentCompleted:
		if progress < 100 {
			return nil, domain.InvalidState("el curso ya está completado")
		}
	}
	c, err := uc.loadCourse(ctx, e.CourseID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if in.ModuleID != "" {
		if !c.HasModule(in.ModuleID) {
			return nil, domain.Validation("módulo desconocido", domain.FieldError{Field: "moduleId", Message: "no pertenece al curso"})
		}
		e.MarkModule(in.ModuleID, now)
	}
	if e.IsCompleted() {
		e.UpdatedAt = now
		if err := uc.enrollments.Update(ctx, e); err != nil {
			return nil, err
		}
		return e, nil
	}

	e.Progress = progress
	e.UpdatedAt = now
	if progress < 100 {
		if err := uc.enrollments.Update(ctx, e); err != nil {
			return nil, err
		}
		return e, nil
	}
	if err := uc.complete(ctx, e, c, now); err != nil {
		return nil, err
	}
	return e, nil
}

// complete emite el certificado y persiste la inscripción completada. Si otro
// escritor completó antes, el objeto subido se elimina y se devuelve Conflict.
func (uc *TrainingUseCase) complete(ctx context.Context, e *entity.Enrollment, c *entity.Course, now time.Time) error {
	user, err := uc.users.GetByID(ctx, e.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NotFound("usuario no encontrado")
	}
	certID := ksuid.New().String()
	pdf, err := uc.pdf.Certificate(ports.CertificateData{
		CertificateID: certID,
		HolderName:    user.FullName(),
		CourseTitle:   c.Title,
		Category:      c.Category,
		DurationMin:   c.Duration,
		CompletedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("generar certificado: %w", err)
	}
	key := path.Join("certificates", e.UserID, certID+".pdf")
	obj, err := uc.files.Put(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf")
	if err != nil {
		return err
	}

	e.Status = entity.EnrollmentCompleted
	e.CompletionDate = &now
	e.CertificateID = certID
	e.CertificateKey = obj.Key
	e.CertificateURL = obj.URL
	if err := uc.enrollments.Update(ctx, e); err != nil {
		if delErr := uc.files.Delete(ctx, key); delErr != nil {
			uc.log.Warn().Err(delErr).Str("key", key).Msg("no se pudo borrar el certificado huérfano")
		}
		return err
	}

	user.Trainings = append(user.Trainings, entity.TrainingRecord{
		CourseID:       c.ID,
		Name:           c.Title,
		Passed:         true,
		DatePassed:     &now,
		CertificateURL: obj.URL,
	})
	user.UpdatedAt = now
	if err := uc.users.Update(ctx, user); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo añadir la formación al perfil")
	}

	notify(ctx, uc.notifier, uc.log, e.UserID, notification.Event{
		Type:    notification.TypeCourseCompleted,
		Subject: "Curso completado",
		Message: fmt.Sprintf("Has completado %q. Tu certificado %s ya está disponible.", c.Title, certID),
		Data:    map[string]string{"courseId": c.ID, "enrollmentId": e.ID, "certificateId": certID},
	})
	return nil
}

// Certificate URL firmada del certificado (propietario o admin).
func (uc *TrainingUseCase) Certificate(ctx context.Context, actor Actor, enrollmentID string) (*dto.CertificateResponse, error) {
	e, err := uc.ownEnrollment(ctx, actor, enrollmentID, true)
	if err != nil {
		return nil, err
	}
	if !e.IsCompleted() || e.CertificateKey == "" {
		return nil, domain.InvalidState("el curso no está completado")
	}
	url, err := uc.files.URL(ctx, e.CertificateKey)
	if err != nil {
		return nil, err
	}
	return &dto.CertificateResponse{CertificateID: e.CertificateID, URL: url}, nil
}

func (uc *TrainingUseCase) loadCourse(ctx context.Context, id string) (*entity.Course, error) {
	c, err := uc.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("curso no encontrado")
	}
	return c, nil
}

func (uc *TrainingUseCase) ownEnrollment(ctx context.Context, actor Actor, id string, adminAllowed bool) (*entity.Enrollment, error) {
	e, err := uc.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.NotFound("inscripción no encontrada")
	}
	if e.UserID != actor.UserID && !(adminAllowed && actor.Admin) {
		return nil, domain.Forbidden("la inscripción pertenece a otro usuario")
	}
	return e, nil
}

func toModules(in []dto.CourseModuleInput) []entity.CourseModule {
	out := make([]entity.CourseModule, 0, len(in))
	for i, m := range in {
		id := m.ID
		if id == "" {
			id = uuid.New().String()
		}
		order := m.Order
		if order == 0 {
			order = i + 1
		}
		out = append(out, entity.CourseModule{
			ID:          id,
			Title:       m.Title,
			Description: m.Description,
			Duration:    m.Duration,
			Content:     m.Content,
			Order:       order,
		})
	}
	return out
}
