package usecase

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/notification"
	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/compliance"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
)

// MaxDocumentBytes tamaño máximo de un documento.
const MaxDocumentBytes = 10 << 20

var documentTypes = map[string]string{
	"image/jpeg":         ".jpg",
	"image/png":          ".png",
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// DocumentUseCase documentos de cumplimiento y su revisión.
type DocumentUseCase struct {
	docs     repository.DocumentRepository
	users    repository.UserRepository
	files    ports.FileStore
	notifier notification.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(docs repository.DocumentRepository, users repository.UserRepository, files ports.FileStore, notifier notification.Notifier, log zerolog.Logger) *DocumentUseCase {
	return &DocumentUseCase{docs: docs, users: users, files: files, notifier: notifier, log: log, now: time.Now}
}

// WithClock sustituye el reloj (tests).
func (uc *DocumentUseCase) WithClock(now func() time.Time) *DocumentUseCase {
	uc.now = now
	return uc
}

// Upload guarda el archivo y crea el documento en estado pending.
func (uc *DocumentUseCase) Upload(ctx context.Context, userID string, in dto.UploadDocumentInput) (*dto.DocumentResponse, error) {
	var fields []domain.FieldError
	ext, okMime := documentTypes[strings.ToLower(in.MimeType)]
	if !okMime {
		fields = append(fields, domain.FieldError{Field: "document", Message: "formato no admitido (jpeg, png, pdf, doc, docx)"})
	}
	if in.Size > MaxDocumentBytes {
		fields = append(fields, domain.FieldError{Field: "document", Message: "máximo 10 MB"})
	}
	if _, ok := compliance.LookupType(in.Type); !ok {
		fields = append(fields, domain.FieldError{Field: "type", Message: "tipo de documento desconocido"})
	}
	if len(fields) > 0 {
		return nil, domain.Validation("documento inválido", fields...)
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("usuario no encontrado")
	}

	id := uuid.New().String()
	key := path.Join("documents", userID, id+ext)
	obj, err := uc.files.Put(ctx, key, in.Content, in.Size, in.MimeType)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	doc := &entity.Document{
		ID:          id,
		UserID:      userID,
		Type:        in.Type,
		Description: in.Description,
		FileURL:     obj.URL,
		StorageKey:  obj.Key,
		FileName:    filepath.Base(in.FileName),
		MimeType:    in.MimeType,
		Size:        in.Size,
		Status:      entity.DocumentPending,
		ExpiryDate:  in.ExpiryDate,
		UploadedAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.docs.Create(ctx, doc); err != nil {
		_ = uc.files.Delete(ctx, key)
		return nil, err
	}
	notify(ctx, uc.notifier, uc.log, userID, notification.Event{
		Type:      notification.TypeDocumentUploaded,
		Subject:   "Documento recibido",
		Message:   fmt.Sprintf("Hemos recibido tu documento %q. Está pendiente de revisión.", doc.Type),
		Data:      map[string]string{"documentId": doc.ID},
		SkipEmail: true,
	})
	return uc.response(doc), nil
}

// List documentos del usuario con su estado efectivo.
func (uc *DocumentUseCase) List(ctx context.Context, userID string) ([]dto.DocumentResponse, error) {
	docs, err := uc.docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, *uc.response(d))
	}
	return out, nil
}

// ListForUser listado administrativo de los documentos de un usuario.
func (uc *DocumentUseCase) ListForUser(ctx context.Context, userID string) ([]dto.DocumentResponse, error) {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("usuario no encontrado")
	}
	return uc.List(ctx, userID)
}

// Get propietario o admin.
func (uc *DocumentUseCase) Get(ctx context.Context, actor Actor, id string) (*dto.DocumentResponse, error) {
	d, err := uc.load(ctx, actor, id, true)
	if err != nil {
		return nil, err
	}
	return uc.response(d), nil
}

// Download URL temporal del archivo.
func (uc *DocumentUseCase) Download(ctx context.Context, actor Actor, id string) (*dto.DownloadResponse, error) {
	d, err := uc.load(ctx, actor, id, true)
	if err != nil {
		return nil, err
	}
	url, err := uc.files.URL(ctx, d.StorageKey)
	if err != nil {
		return nil, err
	}
	return &dto.DownloadResponse{URL: url}, nil
}

// Delete solo el propietario; borra también el objeto almacenado.
func (uc *DocumentUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	d, err := uc.load(ctx, actor, id, false)
	if err != nil {
		return err
	}
	if err := uc.docs.Delete(ctx, id); err != nil {
		return err
	}
	if err := uc.files.Delete(ctx, d.StorageKey); err != nil {
		uc.log.Warn().Err(err).Str("key", d.StorageKey).Msg("no se pudo borrar el archivo del documento")
	}
	return nil
}

// Review revisión administrativa y aviso al propietario.
func (uc *DocumentUseCase) Review(ctx context.Context, actor Actor, id string, in dto.ReviewDocumentRequest) (*dto.DocumentResponse, error) {
	switch in.Status {
	case entity.DocumentPending, entity.DocumentApproved, entity.DocumentRejected:
	default:
		return nil, domain.Validation("estado inválido", domain.FieldError{Field: "status", Message: "pending, approved o rejected"})
	}
	d, err := uc.load(ctx, actor, id, true)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	d.Status = in.Status
	d.ReviewComment = in.Comment
	d.ReviewedBy = actor.UserID
	d.ReviewedAt = &now
	d.UpdatedAt = now
	if err := uc.docs.Update(ctx, d); err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Tu documento %q ha sido revisado: %s.", d.Type, d.Status)
	if in.Comment != "" {
		msg += " Comentario: " + in.Comment
	}
	notify(ctx, uc.notifier, uc.log, d.UserID, notification.Event{
		Type:    notification.TypeDocumentReviewed,
		Subject: "Documento revisado",
		Message: msg,
		Data:    map[string]string{"documentId": d.ID, "status": d.Status},
	})
	return uc.response(d), nil
}

// Types catálogo completo de tipos.
func (uc *DocumentUseCase) Types() []compliance.DocumentType {
	return compliance.Types
}

// Required tipos obligatorios.
func (uc *DocumentUseCase) Required() []compliance.DocumentType {
	return compliance.RequiredTypes()
}

// Status resumen de cumplimiento del usuario.
func (uc *DocumentUseCase) Status(ctx context.Context, userID string) (*dto.ComplianceStatusResponse, error) {
	docs, err := uc.docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := compliance.Summary(docs, uc.now())
	return &dto.ComplianceStatusResponse{Compliant: compliance.IsCompliant(summary), Types: summary}, nil
}

// SendExpiryReminders avisa de los documentos que caducan en los próximos
// days días. No modifica los documentos. Devuelve el número de avisos enviados.
func (uc *DocumentUseCase) SendExpiryReminders(ctx context.Context, days int) (int, error) {
	if uc.notifier == nil {
		return 0, nil
	}
	now := uc.now()
	docs, err := uc.docs.ListExpiringBetween(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, d := range docs {
		left := compliance.DaysUntilExpiry(d, now)
		n := 0
		if left != nil {
			n = *left
		}
		if _, err := uc.notifier.Dispatch(ctx, d.UserID, notification.Event{
			Type:    notification.TypeDocumentExpiring,
			Subject: "Documento próximo a caducar",
			Message: fmt.Sprintf("Tu documento %q caduca el %s (%d días). Sube una versión actualizada.", d.Type, d.ExpiryDate.Format("02/01/2006"), n),
			Data:    map[string]string{"documentId": d.ID, "type": d.Type},
		}); err != nil {
			uc.log.Warn().Err(err).Str("document_id", d.ID).Msg("aviso de caducidad no entregado")
			continue
		}
		sent++
	}
	return sent, nil
}

func (uc *DocumentUseCase) load(ctx context.Context, actor Actor, id string, adminAllowed bool) (*entity.Document, error) {
	d, err := uc.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NotFound("documento no encontrado")
	}
	if d.UserID != actor.UserID && !(adminAllowed && actor.Admin) {
		return nil, domain.Forbidden("el documento pertenece a otro usuario")
	}
	return d, nil
}

func (uc *DocumentUseCase) response(d *entity.Document) *dto.DocumentResponse {
	now := uc.now()
	return &dto.DocumentResponse{
		Document:        *d,
		EffectiveStatus: compliance.EffectiveStatus(d, now),
		DaysUntilExpiry: compliance.DaysUntilExpiry(d, now),
	}
}
