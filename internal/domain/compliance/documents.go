// Package compliance define el catálogo de documentos de cumplimiento y el
// estado efectivo de cada documento.
package compliance

import (
	"math"
	"time"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// DocumentType entrada del catálogo. ValidityMonths 0 = sin caducidad.
type DocumentType struct {
	Name           string `json:"name"`
	Required       bool   `json:"required"`
	ValidityMonths int    `json:"validityMonths,omitempty"`
}

// Types catálogo fijo de tipos de documento.
var Types = []DocumentType{
	{Name: "Enhanced DBS", Required: true, ValidityMonths: 36},
	{Name: "Right to Work", Required: true},
	{Name: "Professional Registration", Required: true, ValidityMonths: 12},
	{Name: "Training Certificate", Required: false, ValidityMonths: 12},
	{Name: "ID Document", Required: true},
	{Name: "Proof of Address", Required: true, ValidityMonths: 3},
	{Name: "Reference", Required: true, ValidityMonths: 12},
	{Name: "Immunization Record", Required: true, ValidityMonths: 12},
	{Name: "Insurance Certificate", Required: true, ValidityMonths: 12},
}

// StatusMissing estado del resumen cuando no hay documento de ese tipo.
const StatusMissing = "missing"

// LookupType devuelve la definición de un tipo.
func LookupType(name string) (DocumentType, bool) {
	for _, t := range Types {
		if t.Name == name {
			return t, true
		}
	}
	return DocumentType{}, false
}

// RequiredTypes filtra los tipos obligatorios.
func RequiredTypes() []DocumentType {
	out := make([]DocumentType, 0, len(Types))
	for _, t := range Types {
		if t.Required {
			out = append(out, t)
		}
	}
	return out
}

// EffectiveStatus devuelve "expired" si la fecha de caducidad ya pasó,
// y el estado guardado en caso contrario. No modifica el documento.
func EffectiveStatus(d *entity.Document, now time.Time) string {
	if d.ExpiryDate != nil && d.ExpiryDate.Before(now) {
		return entity.DocumentExpired
	}
	return d.Status
}

// DaysUntilExpiry días completos restantes (negativo si ya caducó); nil sin caducidad.
func DaysUntilExpiry(d *entity.Document, now time.Time) *int {
	if d.ExpiryDate == nil {
		return nil
	}
	days := int(math.Ceil(d.ExpiryDate.Sub(now).Hours() / 24))
	return &days
}

// TypeStatus fila del resumen de cumplimiento.
type TypeStatus struct {
	Type            string     `json:"type"`
	Required        bool       `json:"required"`
	Status          string     `json:"status"`
	DocumentID      string     `json:"documentId,omitempty"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty"`
	DaysUntilExpiry *int       `json:"daysUntilExpiry,omitempty"`
}

// Summary resume el estado por tipo usando el documento más reciente de cada tipo.
func Summary(docs []*entity.Document, now time.Time) []TypeStatus {
	latest := make(map[string]*entity.Document, len(docs))
	for _, d := range docs {
		if cur, ok := latest[d.Type]; !ok || d.UploadedAt.After(cur.UploadedAt) {
			latest[d.Type] = d
		}
	}
	out := make([]TypeStatus, 0, len(Types))
	for _, t := range Types {
		row := TypeStatus{Type: t.Name, Required: t.Required, Status: StatusMissing}
		if d, ok := latest[t.Name]; ok {
			row.Status = EffectiveStatus(d, now)
			row.DocumentID = d.ID
			row.ExpiryDate = d.ExpiryDate
			row.DaysUntilExpiry = DaysUntilExpiry(d, now)
		}
		out = append(out, row)
	}
	return out
}

// IsCompliant indica si todos los tipos obligatorios tienen un documento aprobado y vigente.
func IsCompliant(summary []TypeStatus) bool {
	for _, row := range summary {
		if row.Required && row.Status != entity.DocumentApproved {
			return false
		}
	}
	return true
}
