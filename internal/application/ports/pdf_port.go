package ports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// CertificateData contenido del certificado de un curso completado.
type CertificateData struct {
	CertificateID string
	HolderName    string
	CourseTitle   string
	Category      string
	DurationMin   int
	CompletedAt   time.Time
}

// ShiftReportRow fila del informe de turnos (turno con el nombre del asignado ya resuelto).
type ShiftReportRow struct {
	Shift        *entity.Shift
	AssigneeName string
}

// ShiftReportData informe de turnos de un periodo.
type ShiftReportData struct {
	From       time.Time
	To         time.Time
	Rows       []ShiftReportRow
	TotalHours decimal.Decimal
	TotalPay   decimal.Decimal
	Generated  time.Time
}

// PDFRenderer genera los documentos PDF de la aplicación.
type PDFRenderer interface {
	Certificate(data CertificateData) ([]byte, error)
	ShiftReport(data ShiftReportData) ([]byte, error)
	ProfileExport(user *entity.User, generated time.Time) ([]byte, error)
}
