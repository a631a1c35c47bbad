package dto

import (
	"io"
	"time"

	"github.com/whizkidefos/employee-management-api/internal/domain/compliance"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// FileInput archivo recibido por multipart.
type FileInput struct {
	FileName string
	MimeType string
	Size     int64
	Content  io.Reader
}

// UploadDocumentInput archivo de cumplimiento más sus metadatos.
type UploadDocumentInput struct {
	FileInput
	Type        string
	Description string
	ExpiryDate  *time.Time
}

// ReviewDocumentRequest revisión administrativa. "expired" no es un estado asignable.
type ReviewDocumentRequest struct {
	Status  string `json:"status" validate:"required,oneof=pending approved rejected"`
	Comment string `json:"comment" validate:"max=1000"`
}

// DocumentResponse documento con el estado efectivo calculado al leer.
type DocumentResponse struct {
	entity.Document
	EffectiveStatus string `json:"effectiveStatus"`
	DaysUntilExpiry *int   `json:"daysUntilExpiry,omitempty"`
}

// ComplianceStatusResponse resumen de cumplimiento por tipo.
type ComplianceStatusResponse struct {
	Compliant bool                    `json:"compliant"`
	Types     []compliance.TypeStatus `json:"types"`
}

// DownloadResponse URL temporal de descarga.
type DownloadResponse struct {
	URL string `json:"url"`
}
