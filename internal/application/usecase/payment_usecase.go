package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/notification"
	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
	"github.com/whizkidefos/employee-management-api/pkg/money"
)

// webhookDedupTTL tiempo que se recuerda un evento de webhook ya procesado.
const webhookDedupTTL = 72 * time.Hour

// PaymentUseCase intenciones de pago, webhook de la pasarela, historial y reembolsos.
type PaymentUseCase struct {
	payments    repository.PaymentRepository
	shifts      repository.ShiftRepository
	enrollments repository.EnrollmentRepository
	gateway     ports.PaymentGateway   // nil si los pagos no están configurados
	idempotency ports.IdempotencyStore // nil: se deduplica por id de la pasarela
	notifier    notification.Notifier
	currency    string
	log         zerolog.Logger
	now         func() time.Time
}

// PaymentDeps dependencias de PaymentUseCase.
type PaymentDeps struct {
	Payments    repository.PaymentRepository
	Shifts      repository.ShiftRepository
	Enrollments repository.EnrollmentRepository
	Gateway     ports.PaymentGateway
	Idempotency ports.IdempotencyStore
	Notifier    notification.Notifier
	Currency    string
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(d PaymentDeps, log zerolog.Logger) *PaymentUseCase {
	currency := d.Currency
	if currency == "" {
		currency = "gbp"
	}
	return &PaymentUseCase{
		payments:    d.Payments,
		shifts:      d.Shifts,
		enrollments: d.Enrollments,
		gateway:     d.Gateway,
		idempotency: d.Idempotency,
		notifier:    d.Notifier,
		currency:    currency,
		log:         log,
		now:         time.Now,
	}
}

// WithClock sustituye el reloj (tests).
func (uc *PaymentUseCase) WithClock(now func() time.Time) *PaymentUseCase {
	uc.now = now
	return uc
}

// CreateIntent crea una intención de pago en la pasarela. El Payment se
// registra cuando llega el webhook.
func (uc *PaymentUseCase) CreateIntent(ctx context.Context, actor Actor, in dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	if uc.gateway == nil {
		return nil, domain.Unavailable("los pagos no están configurados")
	}
	if !in.Amount.IsPositive() {
		return nil, domain.Validation("importe inválido", domain.FieldError{Field: "amount", Message: "debe ser mayor que 0"})
	}
	meta := map[string]string{"userId": actor.UserID, "type": "payment"}
	if in.ShiftID != "" {
		meta["shiftId"] = in.ShiftID
	}
	amount := in.Amount.Round(2)
	var key string
	if in.IdempotencyKey != "" {
		key = "payment-" + actor.UserID + "-" + in.IdempotencyKey
	}
	intent, err := uc.gateway.CreatePaymentIntent(ctx, ports.PaymentIntentInput{
		AmountMinor:    money.ToMinorUnits(amount),
		Currency:       uc.currency,
		Description:    in.Description,
		Metadata:       meta,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, err
	}
	return &dto.PaymentIntentResponse{PaymentIntentID: intent.ID, ClientSecret: intent.ClientSecret, Amount: amount, Currency: uc.currency}, nil
}

// HandleWebhook procesa un evento firmado de la pasarela. El Payment se
// persiste primero; la inscripción y la notificación son posteriores y sus
// fallos solo se registran.
func (uc *PaymentUseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookResponse, error) {
	if uc.gateway == nil {
		return nil, domain.Unavailable("los pagos no están configurados")
	}
	ev, err := uc.gateway.ParseEvent(payload, signature)
	if err != nil {
		return nil, domain.Validation("firma de webhook inválida: " + err.Error())
	}
	var status string
	switch ev.Type {
	case ports.EventPaymentSucceeded:
		status = entity.PaymentCompleted
	case ports.EventPaymentFailed:
		status = entity.PaymentFailed
	default:
		uc.log.Debug().Str("event", ev.Type).Msg("evento de pago ignorado")
		return &dto.WebhookResponse{Received: true}, nil
	}

	var dedupKey string
	if uc.idempotency != nil {
		dedupKey = "webhook:" + ev.ID
		fresh, err := uc.idempotency.Claim(ctx, dedupKey, webhookDedupTTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return &dto.WebhookResponse{Received: true, Duplicate: true}, nil
		}
	}

	p, duplicate, err := uc.recordEvent(ctx, ev, status)
	if err != nil {
		// La clave se libera para que el reintento de la pasarela vuelva a procesar el evento.
		if dedupKey != "" {
			if relErr := uc.idempotency.Release(context.WithoutCancel(ctx), dedupKey); relErr != nil {
				uc.log.Error().Err(relErr).Str("event", ev.ID).Msg("no se pudo liberar la clave de idempotencia")
			}
		}
		return nil, err
	}
	if duplicate {
		return &dto.WebhookResponse{Received: true, Duplicate: true}, nil
	}

	uc.settleEnrollment(ctx, ev, status)

	if p.UserID == "" {
		uc.log.Warn().Str("intent", ev.IntentID).Msg("pago sin userId en metadata")
		return &dto.WebhookResponse{Received: true}, nil
	}
	ne := notification.Event{
		Type:    notification.TypePaymentReceived,
		Subject: "Pago recibido",
		Message: fmt.Sprintf("Hemos recibido tu pago de %s.", money.FormatGBP(p.Amount)),
		Data:    map[string]string{"paymentId": p.ID},
	}
	if status == entity.PaymentFailed {
		ne.Type = notification.TypePaymentFailed
		ne.Subject = "Pago rechazado"
		ne.Message = fmt.Sprintf("Tu pago de %s no se ha podido completar.", money.FormatGBP(p.Amount))
		if ev.FailureMessage != "" {
			ne.Message += " " + ev.FailureMessage
		}
	}
	notify(ctx, uc.notifier, uc.log, p.UserID, ne)
	return &dto.WebhookResponse{Received: true}, nil
}

// recordEvent persiste el evento salvo que el pago ya refleje ese resultado.
func (uc *PaymentUseCase) recordEvent(ctx context.Context, ev *ports.PaymentEvent, status string) (*entity.Payment, bool, error) {
	p, err := uc.payments.GetByProviderID(ctx, ev.IntentID)
	if err != nil {
		return nil, false, err
	}
	if p != nil && (p.Status == status || p.Status == entity.PaymentRefunded || p.Status == entity.PaymentCompleted) {
		return p, true, nil
	}
	p, err = uc.persistEvent(ctx, p, ev, status)
	if err != nil {
		return nil, false, err
	}
	return p, false, nil
}

func (uc *PaymentUseCase) persistEvent(ctx context.Context, p *entity.Payment, ev *ports.PaymentEvent, status string) (*entity.Payment, error) {
	now := uc.now()
	if p == nil {
		p = &entity.Payment{
			ID:                uuid.New().String(),
			UserID:            ev.Metadata["userId"],
			ShiftID:           ev.Metadata["shiftId"],
			EnrollmentID:      ev.Metadata["enrollmentId"],
			Amount:            money.FromMinorUnits(ev.AmountMinor),
			Currency:          ev.Currency,
			Method:            entity.PaymentMethodStripe,
			ProviderPaymentID: ev.IntentID,
			Metadata:          ev.Metadata,
			CreatedAt:         now,
		}
		if p.Currency == "" {
			p.Currency = uc.currency
		}
	}
	p.Status = status
	p.UpdatedAt = now
	if status == entity.PaymentCompleted {
		paid := ev.Created
		if paid.IsZero() {
			paid = now
		}
		p.PaidAt = &paid
	}
	if p.Version == 0 {
		return p, uc.payments.Create(ctx, p)
	}
	return p, uc.payments.Update(ctx, p)
}

// settleEnrollment activa o marca como fallida la inscripción asociada al pago.
func (uc *PaymentUseCase) settleEnrollment(ctx context.Context, ev *ports.PaymentEvent, status string) {
	if uc.enrollments == nil {
		return
	}
	var (
		e   *entity.Enrollment
		err error
	)
	if id := ev.Metadata["enrollmentId"]; id != "" {
		e, err = uc.enrollments.GetByID(ctx, id)
	} else {
		e, err = uc.enrollments.GetByPaymentIntent(ctx, ev.IntentID)
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("intent", ev.IntentID).Msg("no se pudo cargar la inscripción del pago")
		return
	}
	if e == nil || e.PaymentStatus == entity.EnrollmentPaymentPaid {
		return
	}
	if status == entity.PaymentCompleted {
		e.PaymentStatus = entity.EnrollmentPaymentPaid
		if e.Status == entity.EnrollmentPending {
			e.Status = entity.EnrollmentActive
		}
	} else {
		e.PaymentStatus = entity.EnrollmentPaymentFailed
	}
	e.UpdatedAt = uc.now()
	if err := uc.enrollments.Update(ctx, e); err != nil {
		uc.log.Warn().Err(err).Str("enrollment_id", e.ID).Msg("no se pudo actualizar la inscripción del pago")
	}
}

// History pagos del usuario, más recientes primero según el almacén.
func (uc *PaymentUseCase) History(ctx context.Context, userID string, q dto.PageRequest) (*dto.PaymentListResponse, error) {
	q.Limit = limitOrDefault(q.Limit)
	items, total, err := uc.payments.ListByUser(ctx, userID, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total}}, nil
}

// Get pago propio o cualquiera para un admin.
func (uc *PaymentUseCase) Get(ctx context.Context, actor Actor, id string) (*entity.Payment, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != actor.UserID && !actor.Admin {
		return nil, domain.Forbidden("el pago pertenece a otro usuario")
	}
	return p, nil
}

// RecordShiftPayment registra la transferencia por un turno completado. El
// importe es el total del turno; un turno solo se paga una vez.
func (uc *PaymentUseCase) RecordShiftPayment(ctx context.Context, shiftID, reference string) (*entity.Payment, error) {
	s, err := uc.shifts.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("turno no encontrado")
	}
	if s.Status != entity.ShiftCompleted || s.AssignedTo == "" {
		return nil, domain.InvalidState("solo se pagan turnos completados")
	}
	previous, err := uc.payments.ListByShift(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	for _, prev := range previous {
		if prev.Status != entity.PaymentRefunded && prev.Status != entity.PaymentFailed {
			return nil, domain.Conflict("el turno ya tiene un pago registrado")
		}
	}
	// La referencia es única por intento: shift_<id>, shift_<id>_2, ...
	providerID := "shift_" + s.ID
	if len(previous) > 0 {
		providerID = fmt.Sprintf("%s_%d", providerID, len(previous)+1)
	}
	now := uc.now()
	p := &entity.Payment{
		ID:                uuid.New().String(),
		UserID:            s.AssignedTo,
		ShiftID:           s.ID,
		Amount:            s.TotalPay(),
		Currency:          uc.currency,
		Status:            entity.PaymentCompleted,
		Method:            entity.PaymentMethodBankTransfer,
		ProviderPaymentID: providerID,
		Description:       fmt.Sprintf("Turno %q del %s", s.Title, s.StartTime.Format("02/01/2006")),
		PaidAt:            &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if reference != "" {
		p.Metadata = map[string]string{"reference": reference}
	}
	if err := uc.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	notify(ctx, uc.notifier, uc.log, p.UserID, notification.Event{
		Type:    notification.TypePaymentReceived,
		Subject: "Pago de turno",
		Message: fmt.Sprintf("Se ha registrado el pago de %s por el turno %q.", money.FormatGBP(p.Amount), s.Title),
		Data:    map[string]string{"paymentId": p.ID, "shiftId": s.ID},
	})
	return p, nil
}

// Refund reembolsa un pago completado. Los pagos de la pasarela se
// reembolsan también allí.
func (uc *PaymentUseCase) Refund(ctx context.Context, id, reason string) (*entity.Payment, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != entity.PaymentCompleted {
		return nil, domain.InvalidState("solo se reembolsan pagos completados")
	}
	if p.Method == entity.PaymentMethodStripe {
		if uc.gateway == nil {
			return nil, domain.Unavailable("los pagos no están configurados")
		}
		refundID, err := uc.gateway.Refund(ctx, p.ProviderPaymentID)
		if err != nil {
			return nil, err
		}
		if p.Metadata == nil {
			p.Metadata = map[string]string{}
		}
		p.Metadata["refundId"] = refundID
	}
	now := uc.now()
	p.Status = entity.PaymentRefunded
	p.RefundReason = reason
	p.RefundedAt = &now
	p.UpdatedAt = now
	if err := uc.payments.Update(ctx, p); err != nil {
		return nil, err
	}
	notify(ctx, uc.notifier, uc.log, p.UserID, notification.Event{
		Type:    notification.TypePaymentRefunded,
		Subject: "Pago reembolsado",
		Message: fmt.Sprintf("Se ha reembolsado tu pago de %s.", money.FormatGBP(p.Amount)),
		Data:    map[string]string{"paymentId": p.ID},
	})
	return p, nil
}

// Summary totales por estado; los estados sin pagos aparecen a cero.
func (uc *PaymentUseCase) Summary(ctx context.Context) (*dto.PaymentSummaryResponse, error) {
	totals, err := uc.payments.TotalsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.PaymentSummaryResponse{
		Totals:    make(map[string]decimal.Decimal, len(entity.PaymentStatuses)),
		Formatted: make(map[string]string, len(entity.PaymentStatuses)),
	}
	for _, st := range entity.PaymentStatuses {
		v := totals[st]
		out.Totals[st] = v
		out.Formatted[st] = money.FormatGBP(v)
	}
	return out, nil
}

func (uc *PaymentUseCase) load(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := uc.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("pago no encontrado")
	}
	return p, nil
}
