package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whizkidefos/employee-management-api/internal/application/auth"
	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/testutil"
	"github.com/whizkidefos/employee-management-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{
	AccessSecret:   "access-secret",
	RefreshSecret:  "refresh-secret",
	ResetSecret:    "reset-secret",
	AccessMinutes:  15,
	RefreshMinutes: 60,
	ResetMinutes:   60,
	Issuer:         "test",
	ClientURL:      "http://client",
}

func validRegistration() dto.RegisterRequest {
	return dto.RegisterRequest{
		FirstName:               "Ada",
		LastName:                "Lovelace",
		Email:                   "  Ada@Example.com ",
		PhoneNumber:             "+44 7700 900123",
		Username:                "ada",
		Password:                "supersecret",
		JobRole:                 entity.JobRoleRegisteredNurse,
		NationalInsuranceNumber: "QQ123456C",
		Nationality:             entity.NationalityUK,
		RightToWork:             true,
		Consent:                 true,
	}
}

func newUseCase(verifier *testutil.Verifier, mailer *testutil.Channel) (*auth.AuthUseCase, *testutil.UserRepo) {
	users := testutil.NewUserRepo()
	var uc *auth.AuthUseCase
	// Los puertos nil deben llegar como interfaz nil, no como puntero nil tipado.
	switch {
	case verifier != nil && mailer != nil:
		uc = auth.NewAuthUseCase(users, verifier, mailer, jwtCfg, zerolog.Nop())
	case verifier != nil:
		uc = auth.NewAuthUseCase(users, verifier, nil, jwtCfg, zerolog.Nop())
	case mailer != nil:
		uc = auth.NewAuthUseCase(users, nil, mailer, jwtCfg, zerolog.Nop())
	default:
		uc = auth.NewAuthUseCase(users, nil, nil, jwtCfg, zerolog.Nop())
	}
	return uc, users
}

func TestRegister_NormalizaYQuedaSinVerificar(t *testing.T) {
	verifier := &testutil.Verifier{Code: "123456"}
	uc, users := newUseCase(verifier, nil)

	out, err := uc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.True(t, out.VerificationRequired)
	assert.Equal(t, "ada@example.com", out.User.Email)
	assert.Equal(t, []string{"+447700900123"}, verifier.Started)

	stored, _ := users.GetByEmail(context.Background(), "ada@example.com")
	require.NotNil(t, stored)
	assert.False(t, stored.IsVerified)
	assert.NotEqual(t, "supersecret", stored.PasswordHash)
}

func TestRegister_FalloDeSMSNoImpideElAlta(t *testing.T) {
	uc, _ := newUseCase(&testutil.Verifier{Err: testutil.ErrFake}, nil)

	_, err := uc.Register(context.Background(), validRegistration())
	assert.NoError(t, err)
}

func TestRegister_ReglasCondicionales(t *testing.T) {
	uc, _ := newUseCase(nil, nil)
	in := validRegistration()
	in.Consent = false
	in.Nationality = entity.NationalityOther
	in.EnhancedDBS = dto.EnhancedDBSInput{Has: true}

	_, err := uc.Register(context.Background(), in)

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindValidation, de.Kind)
	var fields []string
	for _, f := range de.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"consent", "brpNumber", "brpDocument", "enhancedDBS.document"}, fields)
}

func TestRegister_EmailDuplicadoEsConflict(t *testing.T) {
	uc, _ := newUseCase(nil, nil)
	_, err := uc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	in := validRegistration()
	in.Username = "otra"
	in.PhoneNumber = "+447700900999"
	_, err = uc.Register(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogin_NoVerificadoEsForbidden(t *testing.T) {
	uc, _ := newUseCase(&testutil.Verifier{Code: "123456"}, nil)
	ctx := context.Background()
	_, err := uc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyPhone_ActivaLaCuentaYPermiteLogin(t *testing.T) {
	uc, _ := newUseCase(&testutil.Verifier{Code: "123456"}, nil)
	ctx := context.Background()
	_, err := uc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = uc.VerifyPhone(ctx, dto.VerifyPhoneRequest{PhoneNumber: "+447700900123", Code: "000000"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	tokens, err := uc.VerifyPhone(ctx, dto.VerifyPhoneRequest{PhoneNumber: "+447700900123", Code: "123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	user, err := uc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ADA@example.com", Password: "supersecret"})
	assert.NoError(t, err)
}

func TestAuthenticate_RechazaUsuarioNoVerificado(t *testing.T) {
	uc, users := newUseCase(nil, nil)
	ctx := context.Background()
	out, err := uc.Register(ctx, validRegistration())
	require.NoError(t, err)

	tokens, err := uc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "supersecret"})
	require.NoError(t, err)

	u, _ := users.GetByID(ctx, out.User.ID)
	u.IsVerified = false
	require.NoError(t, users.Update(ctx, u))

	_, err = uc.Authenticate(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_NoAceptaTokenDeAcceso(t *testing.T) {
	uc, _ := newUseCase(nil, nil)
	ctx := context.Background()
	_, err := uc.Register(ctx, validRegistration())
	require.NoError(t, err)
	tokens, err := uc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = uc.Refresh(ctx, dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	out, err := uc.Refresh(ctx, dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	_, err = jwt.Parse(jwtCfg.AccessSecret, out.AccessToken, jwt.KindAccess)
	assert.NoError(t, err)
}

func TestPasswordReset_EnlaceDeUnSoloUso(t *testing.T) {
	mailer := &testutil.Channel{}
	uc, users := newUseCase(nil, mailer)
	clock := testutil.NewClock(time.Now().Add(time.Hour))
	uc.WithClock(clock.Now)
	ctx := context.Background()
	out, err := uc.Register(ctx, validRegistration())
	require.NoError(t, err)

	require.NoError(t, uc.RequestPasswordReset(ctx, dto.PasswordResetRequest{Email: "nadie@example.com"}))
	assert.Zero(t, mailer.CallCount(), "emails desconocidos no generan envío")

	require.NoError(t, uc.RequestPasswordReset(ctx, dto.PasswordResetRequest{Email: "ada@example.com"}))
	assert.Equal(t, []string{"email:ada@example.com"}, mailer.Calls)

	u, _ := users.GetByID(ctx, out.User.ID)
	token, err := jwt.Generate(jwtCfg.ResetSecret, jwt.Subject{UserID: u.ID}, jwt.KindReset, "test", 60)
	require.NoError(t, err)

	require.NoError(t, uc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, Password: "nuevaclave1"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "nuevaclave1"})
	require.NoError(t, err)

	// El reloj del caso de uso va una hora por delante: el token emitido "antes" del cambio queda invalidado.
	err = uc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, Password: "otraclave22"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
