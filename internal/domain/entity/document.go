package entity

import "time"

// Estados de revisión. DocumentExpired nunca se persiste: se deriva al leer.
const (
	DocumentPending  = "pending"
	DocumentApproved = "approved"
	DocumentRejected = "rejected"
	DocumentExpired  = "expired"
)

// Document archivo de cumplimiento subido por un usuario.
type Document struct {
	ID            string     `json:"id" bson:"_id"`
	UserID        string     `json:"userId" bson:"userId"`
	Type          string     `json:"type" bson:"type"`
	Description   string     `json:"description,omitempty" bson:"description,omitempty"`
	FileURL       string     `json:"fileUrl" bson:"fileUrl"`
	StorageKey    string     `json:"storageKey" bson:"storageKey"`
	FileName      string     `json:"fileName" bson:"fileName"`
	MimeType      string     `json:"mimeType" bson:"mimeType"`
	Size          int64      `json:"size" bson:"size"`
	Status        string     `json:"status" bson:"status"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
	ReviewedBy    string     `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	ReviewComment string     `json:"reviewComment,omitempty" bson:"reviewComment,omitempty"`
	UploadedAt    time.Time  `json:"uploadedAt" bson:"uploadedAt"`
	Version       int64      `json:"version" bson:"version"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}
