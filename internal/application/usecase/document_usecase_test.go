package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/notification"
	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/compliance"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/testutil"
)

type documentFixture struct {
	docs     *testutil.DocumentRepo
	users    *testutil.UserRepo
	files    *testutil.FileStore
	notifier *testutil.RecordingNotifier
	clock    *testutil.Clock
	uc       *usecase.DocumentUseCase
	owner    usecase.Actor
	admin    usecase.Actor
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()
	f := &documentFixture{
		docs:     testutil.NewDocumentRepo(),
		users:    testutil.NewUserRepo(),
		files:    testutil.NewFileStore(),
		notifier: &testutil.RecordingNotifier{},
		clock:    testutil.NewClock(t0),
	}
	f.uc = usecase.NewDocumentUseCase(f.docs, f.users, f.files, f.notifier, zerolog.Nop()).WithClock(f.clock.Now)
	u := &entity.User{ID: "owner", Email: "owner@example.com", PhoneNumber: "+447000000002", Username: "owner", IsVerified: true}
	require.NoError(t, f.users.Create(context.Background(), u))
	f.owner = usecase.ActorFrom(u)
	f.admin = usecase.Actor{UserID: "admin", Admin: true}
	return f
}

func upload(docType, mime string, expiry *time.Time) dto.UploadDocumentInput {
	body := "contenido"
	return dto.UploadDocumentInput{
		FileInput:  dto.FileInput{FileName: "dbs.pdf", MimeType: mime, Size: int64(len(body)), Content: strings.NewReader(body)},
		Type:       docType,
		ExpiryDate: expiry,
	}
}

func (f *documentFixture) upload(t *testing.T, docType string, expiry *time.Time) *dto.DocumentResponse {
	t.Helper()
	out, err := f.uc.Upload(context.Background(), f.owner.UserID, upload(docType, "application/pdf", expiry))
	require.NoError(t, err)
	return out
}

func TestUpload_PendienteYAvisoSinEmail(t *testing.T) {
	f := newDocumentFixture(t)

	out := f.upload(t, "Enhanced DBS", nil)

	assert.Equal(t, entity.DocumentPending, out.Status)
	assert.Equal(t, entity.DocumentPending, out.EffectiveStatus)
	assert.True(t, f.files.Has(out.StorageKey))
	assert.True(t, strings.HasPrefix(out.StorageKey, "documents/owner/"))
	require.Len(t, f.notifier.Sent, 1)
	assert.Equal(t, notification.TypeDocumentUploaded, f.notifier.Sent[0].Event.Type)
	assert.True(t, f.notifier.Sent[0].Event.SkipEmail)
}

func TestUpload_Validaciones(t *testing.T) {
	f := newDocumentFixture(t)
	big := upload("Enhanced DBS", "application/pdf", nil)
	big.Size = usecase.MaxDocumentBytes + 1

	tests := []struct {
		name string
		in   dto.UploadDocumentInput
	}{
		{"tipo desconocido", upload("Pasaporte galáctico", "application/pdf", nil)},
		{"mime no admitido", upload("Enhanced DBS", "text/plain", nil)},
		{"demasiado grande", big},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Upload(context.Background(), f.owner.UserID, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Empty(t, f.files.Objects)
}

func TestEffectiveStatus_CaducadoDerivadoSinEscribir(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	expiry := t0.Add(48 * time.Hour)
	doc := f.upload(t, "Proof of Address", &expiry)
	_, err := f.uc.Review(ctx, f.admin, doc.ID, dto.ReviewDocumentRequest{Status: entity.DocumentApproved})
	require.NoError(t, err)

	f.clock.Advance(72 * time.Hour)
	first, err := f.uc.Get(ctx, f.owner, doc.ID)
	require.NoError(t, err)
	second, err := f.uc.Get(ctx, f.owner, doc.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentExpired, first.EffectiveStatus)
	assert.Equal(t, first.EffectiveStatus, second.EffectiveStatus)
	stored, _ := f.docs.GetByID(ctx, doc.ID)
	assert.Equal(t, entity.DocumentApproved, stored.Status)
}

func TestReview_AvisaAlPropietario(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	doc := f.upload(t, "Enhanced DBS", nil)

	out, err := f.uc.Review(ctx, f.admin, doc.ID, dto.ReviewDocumentRequest{Status: entity.DocumentRejected, Comment: "ilegible"})

	require.NoError(t, err)
	assert.Equal(t, entity.DocumentRejected, out.Status)
	assert.Equal(t, "admin", out.ReviewedBy)
	assert.Equal(t, []string{notification.TypeDocumentUploaded, notification.TypeDocumentReviewed}, f.notifier.Types("owner"))

	_, err = f.uc.Review(ctx, f.admin, doc.ID, dto.ReviewDocumentRequest{Status: entity.DocumentExpired})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDocument_AccesoPorPropietario(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	doc := f.upload(t, "Enhanced DBS", nil)
	stranger := usecase.Actor{UserID: "otro"}

	_, err := f.uc.Get(ctx, stranger, doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	dl, err := f.uc.Download(ctx, f.admin, doc.ID)
	require.NoError(t, err)
	assert.Contains(t, dl.URL, doc.StorageKey)

	err = f.uc.Delete(ctx, f.admin, doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.uc.Delete(ctx, f.owner, doc.ID))
	assert.False(t, f.files.Has(doc.StorageKey))
	_, err = f.uc.Get(ctx, f.owner, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatus_Cumplimiento(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	for _, typ := range compliance.RequiredTypes() {
		doc := f.upload(t, typ.Name, nil)
		_, err := f.uc.Review(ctx, f.admin, doc.ID, dto.ReviewDocumentRequest{Status: entity.DocumentApproved})
		require.NoError(t, err)
	}

	out, err := f.uc.Status(ctx, f.owner.UserID)

	require.NoError(t, err)
	assert.True(t, out.Compliant)
	assert.Len(t, out.Types, len(compliance.Types))
}

func TestStatus_FaltanDocumentos(t *testing.T) {
	f := newDocumentFixture(t)
	f.upload(t, "Enhanced DBS", nil)

	out, err := f.uc.Status(context.Background(), f.owner.UserID)

	require.NoError(t, err)
	assert.False(t, out.Compliant)
	for _, row := range out.Types {
		if row.Type == "Right to Work" {
			assert.Equal(t, compliance.StatusMissing, row.Status)
		}
		if row.Type == "Enhanced DBS" {
			assert.Equal(t, entity.DocumentPending, row.Status)
		}
	}
}

func TestSendExpiryReminders_SoloVentana(t *testing.T) {
	f := newDocumentFixture(t)
	soon := t0.AddDate(0, 0, 10)
	later := t0.AddDate(0, 0, 45)
	past := t0.AddDate(0, 0, -1)
	inWindow := f.upload(t, "Enhanced DBS", &soon)
	f.upload(t, "Reference", &later)
	f.upload(t, "Insurance Certificate", &past)
	f.upload(t, "Right to Work", nil)

	sent, err := f.uc.SendExpiryReminders(context.Background(), 30)

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	last := f.notifier.Sent[len(f.notifier.Sent)-1]
	assert.Equal(t, notification.TypeDocumentExpiring, last.Event.Type)
	assert.Equal(t, inWindow.ID, last.Event.Data["documentId"])
	stored, _ := f.docs.GetByID(context.Background(), inWindow.ID)
	assert.Equal(t, int64(1), stored.Version)
}
