package entity

import "time"

// Estados de Enrollment.
const (
	EnrollmentPending   = "pending"
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentCancelled = "cancelled"
)

// Estados de pago de una inscripción.
const (
	EnrollmentPaymentNotRequired = "not_required"
	EnrollmentPaymentPending     = "pending"
	EnrollmentPaymentPaid        = "paid"
	EnrollmentPaymentFailed      = "failed"
)

type CompletedModule struct {
	ModuleID    string    `json:"moduleId" bson:"moduleId"`
	CompletedAt time.Time `json:"completedAt" bson:"completedAt"`
}

// Enrollment relación usuario-curso con progreso y certificado.
type Enrollment struct {
	ID               string            `json:"id" bson:"_id"`
	UserID           string            `json:"userId" bson:"userId"`
	CourseID         string            `json:"courseId" bson:"courseId"`
	Status           string            `json:"status" bson:"status"`
	Progress         int               `json:"progress" bson:"progress"`
	CompletedModules []CompletedModule `json:"completedModules" bson:"completedModules"`
	PaymentStatus    string            `json:"paymentStatus" bson:"paymentStatus"`
	PaymentIntentID  string            `json:"paymentIntentId,omitempty" bson:"paymentIntentId,omitempty"`
	StartDate        time.Time         `json:"startDate" bson:"startDate"`
	CompletionDate   *time.Time        `json:"completionDate,omitempty" bson:"completionDate,omitempty"`
	CertificateID    string            `json:"certificateId,omitempty" bson:"certificateId,omitempty"`
	CertificateKey   string            `json:"certificateKey,omitempty" bson:"certificateKey,omitempty"`
	CertificateURL   string            `json:"certificateUrl,omitempty" bson:"certificateUrl,omitempty"`
	Version          int64             `json:"version" bson:"version"`
	CreatedAt        time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// IsCompleted indica si el certificado ya fue emitido.
func (e *Enrollment) IsCompleted() bool {
	return e.Status == EnrollmentCompleted
}

// MarkModule registra un módulo completado una sola vez.
func (e *Enrollment) MarkModule(moduleID string, at time.Time) bool {
	for _, m := range e.CompletedModules {
		if m.ModuleID == moduleID {
			return false
		}
	}
	e.CompletedModules = append(e.CompletedModules, CompletedModule{ModuleID: moduleID, CompletedAt: at})
	return true
}
