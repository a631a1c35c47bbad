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
	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/testutil"
)

func registration(email, phone, username string) dto.RegisterRequest {
	return dto.RegisterRequest{
		FirstName:               "Mary",
		LastName:                "Seacole",
		Email:                   email,
		PhoneNumber:             phone,
		Username:                username,
		Password:                "s3cret-pass",
		JobRole:                 entity.JobRoleHealthcareAssistant,
		Address:                 dto.AddressInput{Postcode: "SE1 7EH", Street: "Lambeth Palace Rd", Country: "UK"},
		NationalInsuranceNumber: "QQ123456C",
		Nationality:             entity.NationalityUK,
		RightToWork:             true,
		Consent:                 true,
	}
}

func TestUserUseCase_CreateVerificadoYDuplicado(t *testing.T) {
	repo := testutil.NewUserRepo()
	uc := usecase.NewUserUseCase(repo)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateUserRequest{RegisterRequest: registration("Mary@Example.com", "+447700900001", "mary"), IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, out.IsVerified)
	assert.True(t, out.IsAdmin)
	assert.Equal(t, "mary@example.com", out.Email)

	_, err = uc.Create(ctx, dto.CreateUserRequest{RegisterRequest: registration("mary@example.com", "+447700900002", "mary2")})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserUseCase_ListFiltraYValida(t *testing.T) {
	repo := testutil.NewUserRepo()
	uc := usecase.NewUserUseCase(repo)
	ctx := context.Background()
	for i, role := range []string{entity.JobRoleHealthcareAssistant, entity.JobRoleRegisteredNurse} {
		in := registration("u"+string(rune('a'+i))+"@example.com", "+44770090010"+string(rune('0'+i)), "user"+string(rune('a'+i)))
		in.JobRole = role
		_, err := uc.Create(ctx, dto.CreateUserRequest{RegisterRequest: in})
		require.NoError(t, err)
	}

	out, err := uc.List(ctx, dto.UserListQuery{JobRole: entity.JobRoleRegisteredNurse, Verified: "true"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Page.Total)
	assert.Equal(t, 20, out.Page.Limit)

	_, err = uc.List(ctx, dto.UserListQuery{Verified: "quizá"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserUseCase_UpdateYDelete(t *testing.T) {
	repo := testutil.NewUserRepo()
	uc := usecase.NewUserUseCase(repo)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateUserRequest{RegisterRequest: registration("a@example.com", "+447700900003", "alice")})
	require.NoError(t, err)

	verified := false
	bad := "Astronaut"
	_, err = uc.Update(ctx, created.ID, dto.UpdateUserRequest{JobRole: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	out, err := uc.Update(ctx, created.ID, dto.UpdateUserRequest{IsVerified: &verified})
	require.NoError(t, err)
	assert.False(t, out.IsVerified)

	require.NoError(t, uc.Delete(ctx, created.ID))
	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestUserUseCase_DeviceTokens(t *testing.T) {
	repo := testutil.NewUserRepo()
	uc := usecase.NewUserUseCase(repo)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "u1@example.com", PhoneNumber: "+1", Username: "u1"}))

	require.NoError(t, uc.AddDeviceToken(ctx, "u1", "tok-1"))
	require.NoError(t, uc.AddDeviceToken(ctx, "u1", "tok-1"))
	require.NoError(t, uc.AddDeviceToken(ctx, "u1", "tok-2"))
	require.NoError(t, uc.RemoveDeviceToken(ctx, "u1", "tok-1"))

	u, _ := repo.GetByID(ctx, "u1")
	assert.Equal(t, []string{"tok-2"}, u.DeviceTokens)
}

type profileFixture struct {
	users *testutil.UserRepo
	files *testutil.FileStore
	pdf   *testutil.PDF
	uc    *usecase.ProfileUseCase
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	f := &profileFixture{users: testutil.NewUserRepo(), files: testutil.NewFileStore(), pdf: &testutil.PDF{}}
	f.uc = usecase.NewProfileUseCase(f.users, f.files, f.pdf, zerolog.Nop())
	require.NoError(t, f.users.Create(context.Background(), &entity.User{ID: "me", Email: "me@example.com", PhoneNumber: "+2", Username: "me"}))
	return f
}

func photo(mime string, size int64) dto.FileInput {
	return dto.FileInput{FileName: "yo.png", MimeType: mime, Size: size, Content: strings.NewReader("png")}
}

func TestProfile_UploadPhotoReemplazaAnterior(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	first, err := f.uc.UploadPhoto(ctx, "me", photo("image/png", 3))
	require.NoError(t, err)
	second, err := f.uc.UploadPhoto(ctx, "me", photo("image/jpeg", 3))
	require.NoError(t, err)

	assert.NotEqual(t, first.ProfilePhoto, second.ProfilePhoto)
	assert.True(t, strings.HasSuffix(second.ProfilePhoto, ".jpg"))
	assert.Len(t, f.files.Objects, 1)

	_, err = f.uc.UploadPhoto(ctx, "me", photo("image/gif", 3))
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.uc.UploadPhoto(ctx, "me", photo("image/png", usecase.MaxPhotoBytes+1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProfile_BancoEnmascarado(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	_, err := f.uc.GetBankDetails(ctx, "me")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := f.uc.UpdateBankDetails(ctx, "me", dto.BankDetailsRequest{SortCode: "401276", AccountNumber: "12345678", BankName: "HSBC"})
	require.NoError(t, err)
	assert.Equal(t, "****5678", out.AccountNumber)

	u, _ := f.users.GetByID(ctx, "me")
	assert.Equal(t, "12345678", u.BankDetails.AccountNumber)
}

func TestProfile_PreferenciasSinDuplicados(t *testing.T) {
	f := newProfileFixture(t)

	out, err := f.uc.UpdatePreferences(context.Background(), "me", dto.PreferencesRequest{
		PreferredLocations: []string{"St Thomas", " st thomas ", "Guy's", ""},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"St Thomas", "Guy's"}, out.PreferredLocations)
}

func TestProfile_HistorialYReferencias(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, -1, 0)

	_, err := f.uc.ReplaceWorkHistory(ctx, "me", dto.WorkHistoryRequest{Entries: []dto.WorkHistoryInput{
		{Employer: "NHS", Position: "HCA", StartDate: start, EndDate: &before},
	}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	out, err := f.uc.ReplaceWorkHistory(ctx, "me", dto.WorkHistoryRequest{Entries: []dto.WorkHistoryInput{
		{Employer: "NHS", Position: "HCA", StartDate: start},
	}})
	require.NoError(t, err)
	assert.Len(t, out.WorkHistory, 1)

	out, err = f.uc.AddReference(ctx, "me", dto.ReferenceInput{Name: "Dr. Who", Position: "Lead", Company: "NHS", Email: "who@nhs.uk", Phone: "+447700900999"})
	require.NoError(t, err)
	assert.Len(t, out.References, 1)
}

func TestProfile_Export(t *testing.T) {
	f := newProfileFixture(t)

	pdf, err := f.uc.Export(context.Background(), "me")

	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, f.pdf.Profiles)

	_, err = f.uc.Export(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
