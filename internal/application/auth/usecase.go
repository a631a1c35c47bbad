package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
	"github.com/whizkidefos/employee-management-api/pkg/jwt"
	"github.com/whizkidefos/employee-management-api/pkg/textnorm"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	AccessSecret   string
	RefreshSecret  string
	ResetSecret    string
	AccessMinutes  int
	RefreshMinutes int
	ResetMinutes   int
	Issuer         string
	ClientURL      string // base del enlace de restablecimiento
}

// AuthUseCase casos de uso de autenticación: registro, verificación, login y contraseñas.
type AuthUseCase struct {
	userRepo repository.UserRepository
	verifier ports.PhoneVerifier // nil: sin verificación por SMS, el alta queda verificada
	mailer   ports.EmailSender   // nil: el enlace de restablecimiento solo se registra en log
	jwtCfg   JWTConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, verifier ports.PhoneVerifier, mailer ports.EmailSender, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, verifier: verifier, mailer: mailer, jwtCfg: jwtCfg, log: log, now: time.Now}
}

// WithClock sustituye el reloj (tests).
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

// Register crea un usuario sin verificar y envía el código por SMS. Un fallo
// al enviar el código se registra y no impide el alta.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	user, err := NewUserFromRegistration(in, uc.now())
	if err != nil {
		return nil, err
	}
	user.IsVerified = uc.verifier == nil
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	msg := "registro completado"
	if uc.verifier != nil {
		msg = "registro completado, revisa el SMS para verificar tu teléfono"
		if err := uc.verifier.StartVerification(ctx, user.PhoneNumber); err != nil {
			uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo enviar el código de verificación")
		}
	}
	return &dto.RegisterResponse{
		User:                 dto.NewUserResponse(user),
		VerificationRequired: !user.IsVerified,
		Message:              msg,
	}, nil
}

// VerifyPhone valida el código SMS, marca al usuario como verificado y devuelve tokens.
func (uc *AuthUseCase) VerifyPhone(ctx context.Context, in dto.VerifyPhoneRequest) (*dto.TokenResponse, error) {
	if uc.verifier == nil {
		return nil, domain.Unavailable("la verificación por SMS no está configurada")
	}
	phone := textnorm.Phone(in.PhoneNumber)
	user, err := uc.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("no hay usuario con ese teléfono")
	}
	ok, err := uc.verifier.CheckVerification(ctx, phone, in.Code)
	if err != nil {
		return nil, fmt.Errorf("verificar código: %w", err)
	}
	if !ok {
		return nil, domain.Validation("código de verificación incorrecto", domain.FieldError{Field: "code", Message: "incorrecto o caducado"})
	}
	if !user.IsVerified {
		user.IsVerified = true
		user.UpdatedAt = uc.now()
		if err := uc.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return uc.issueTokens(user)
}

// ResendVerification reenvía el código a un usuario aún no verificado.
func (uc *AuthUseCase) ResendVerification(ctx context.Context, in dto.ResendVerificationRequest) error {
	if uc.verifier == nil {
		return domain.Unavailable("la verificación por SMS no está configurada")
	}
	phone := textnorm.Phone(in.PhoneNumber)
	user, err := uc.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NotFound("no hay usuario con ese teléfono")
	}
	if user.IsVerified {
		return domain.InvalidState("el teléfono ya está verificado")
	}
	if err := uc.verifier.StartVerification(ctx, phone); err != nil {
		return domain.Unavailable("no se pudo enviar el código de verificación")
	}
	return nil
}

// Login verifica email/password y retorna tokens. Un usuario sin verificar recibe Forbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, textnorm.Email(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthorized("credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.Unauthorized("credenciales inválidas")
	}
	if !user.IsVerified {
		return nil, domain.Forbidden("la cuenta no está verificada")
	}
	return uc.issueTokens(user)
}

// Refresh emite un nuevo token de acceso a partir de un refresh token vigente.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.RefreshSecret, in.RefreshToken, jwt.KindRefresh)
	if err != nil {
		return nil, domain.Unauthorized("refresh token inválido o expirado")
	}
	user, err := uc.loadVerified(ctx, claims)
	if err != nil {
		return nil, err
	}
	access, err := uc.sign(user, jwt.KindAccess)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: access, User: dto.NewUserResponse(user)}, nil
}

// RequestPasswordReset envía el enlace de restablecimiento. Para emails
// desconocidos responde igual, sin revelar si la cuenta existe.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, in dto.PasswordResetRequest) error {
	user, err := uc.userRepo.GetByEmail(ctx, textnorm.Email(in.Email))
	if err != nil {
		return err
	}
	if user == nil {
		uc.log.Debug().Str("email", in.Email).Msg("restablecimiento solicitado para email desconocido")
		return nil
	}
	token, err := uc.sign(user, jwt.KindReset)
	if err != nil {
		return err
	}
	link := uc.jwtCfg.ClientURL + "/reset-password?token=" + url.QueryEscape(token)
	if uc.mailer == nil {
		uc.log.Info().Str("user_id", user.ID).Str("link", link).Msg("SMTP no configurado: enlace de restablecimiento")
		return nil
	}
	body := fmt.Sprintf("Hola %s,\n\nPara restablecer tu contraseña abre este enlace (válido %d minutos):\n%s\n\nSi no lo solicitaste, ignora este mensaje.",
		user.FirstName, uc.jwtCfg.ResetMinutes, link)
	if err := uc.mailer.SendEmail(ctx, user.Email, "Restablecer contraseña", body); err != nil {
		return domain.Unavailable("no se pudo enviar el email de restablecimiento")
	}
	return nil
}

// ResetPassword cambia la contraseña con un token de restablecimiento. El token
// deja de valer en cuanto la contraseña cambia.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	claims, err := jwt.Parse(uc.jwtCfg.ResetSecret, in.Token, jwt.KindReset)
	if err != nil {
		return domain.Unauthorized("token de restablecimiento inválido o expirado")
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.Unauthorized("token de restablecimiento inválido o expirado")
	}
	if user.PasswordChangedAt != nil && claims.IssuedAt != nil &&
		claims.IssuedAt.Time.Before(user.PasswordChangedAt.Truncate(time.Second)) {
		return domain.Unauthorized("el token ya fue utilizado")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := uc.now()
	user.PasswordHash = string(hash)
	user.PasswordChangedAt = &now
	user.UpdatedAt = now
	return uc.userRepo.Update(ctx, user)
}

// Authenticate valida un token de acceso y vuelve a cargar el usuario; rechaza
// usuarios inexistentes o sin verificar. Lo usan el middleware HTTP y el canal WebSocket.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := jwt.Parse(uc.jwtCfg.AccessSecret, token, jwt.KindAccess)
	if err != nil {
		return nil, domain.Unauthorized("token inválido o expirado")
	}
	return uc.loadVerified(ctx, claims)
}

func (uc *AuthUseCase) loadVerified(ctx context.Context, claims *jwt.Claims) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthorized("el usuario del token ya no existe")
	}
	if !user.IsVerified {
		return nil, domain.Unauthorized("la cuenta no está verificada")
	}
	return user, nil
}

func (uc *AuthUseCase) issueTokens(user *entity.User) (*dto.TokenResponse, error) {
	access, err := uc.sign(user, jwt.KindAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := uc.sign(user, jwt.KindRefresh)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: access, RefreshToken: refresh, User: dto.NewUserResponse(user)}, nil
}

func (uc *AuthUseCase) sign(user *entity.User, kind jwt.Kind) (string, error) {
	sub := jwt.Subject{UserID: user.ID, Role: user.JobRole, Admin: user.IsAdmin}
	switch kind {
	case jwt.KindRefresh:
		return jwt.Generate(uc.jwtCfg.RefreshSecret, sub, kind, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshMinutes)
	case jwt.KindReset:
		return jwt.Generate(uc.jwtCfg.ResetSecret, sub, kind, uc.jwtCfg.Issuer, uc.jwtCfg.ResetMinutes)
	default:
		return jwt.Generate(uc.jwtCfg.AccessSecret, sub, kind, uc.jwtCfg.Issuer, uc.jwtCfg.AccessMinutes)
	}
}

// NewUserFromRegistration valida las reglas condicionales del alta, hashea la
// contraseña con bcrypt y construye la entidad. La usan el registro y el alta administrativa.
func NewUserFromRegistration(in dto.RegisterRequest, now time.Time) (*entity.User, error) {
	if err := ValidateRegistration(in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.Validation("contraseña demasiado larga", domain.FieldError{Field: "password", Message: "máximo 72 bytes"})
		}
		return nil, err
	}
	user := &entity.User{
		ID:                      uuid.New().String(),
		FirstName:               in.FirstName,
		LastName:                in.LastName,
		Email:                   textnorm.Email(in.Email),
		PhoneNumber:             textnorm.Phone(in.PhoneNumber),
		Username:                textnorm.Key(in.Username),
		JobRole:                 in.JobRole,
		PasswordHash:            string(hash),
		DateOfBirth:             in.DateOfBirth,
		Gender:                  in.Gender,
		Address:                 entity.Address(in.Address),
		HasUnspentConvictions:   in.HasUnspentConvictions,
		NationalInsuranceNumber: in.NationalInsuranceNumber,
		EnhancedDBS:             entity.EnhancedDBS(in.EnhancedDBS),
		Nationality:             in.Nationality,
		RightToWork:             in.RightToWork,
		BRPNumber:               in.BRPNumber,
		BRPDocument:             in.BRPDocument,
		Consent:                 in.Consent,
		References:              make([]entity.Reference, 0, len(in.References)),
		WorkHistory:             make([]entity.WorkHistoryEntry, 0, len(in.WorkHistory)),
		Trainings:               []entity.TrainingRecord{},
		PreferredLocations:      []string{},
		DeviceTokens:            []string{},
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	for _, r := range in.References {
		user.References = append(user.References, entity.Reference(r))
	}
	for _, w := range in.WorkHistory {
		user.WorkHistory = append(user.WorkHistory, entity.WorkHistoryEntry(w))
	}
	if in.Signature != nil {
		date := in.Signature.Date
		if date == nil {
			date = &now
		}
		user.Signature = &entity.Signature{Content: in.Signature.Content, Date: date}
	}
	return user, nil
}

// ValidateRegistration reglas que dependen de otros campos del alta.
func ValidateRegistration(in dto.RegisterRequest) error {
	var fields []domain.FieldError
	if !entity.IsValidJobRole(in.JobRole) {
		fields = append(fields, domain.FieldError{Field: "jobRole", Message: "puesto desconocido"})
	}
	if !in.Consent {
		fields = append(fields, domain.FieldError{Field: "consent", Message: "debe aceptarse"})
	}
	if in.EnhancedDBS.Has && in.EnhancedDBS.Document == "" {
		fields = append(fields, domain.FieldError{Field: "enhancedDBS.document", Message: "requerido cuando enhancedDBS.has es true"})
	}
	if in.Nationality == entity.NationalityOther {
		if in.BRPNumber == "" {
			fields = append(fields, domain.FieldError{Field: "brpNumber", Message: "requerido para nacionalidad Other"})
		}
		if in.BRPDocument == "" {
			fields = append(fields, domain.FieldError{Field: "brpDocument", Message: "requerido para nacionalidad Other"})
		}
	}
	if len(fields) > 0 {
		return domain.Validation("datos de registro inválidos", fields...)
	}
	return nil
}
