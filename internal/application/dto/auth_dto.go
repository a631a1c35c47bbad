package dto

// VerifyPhoneRequest código recibido por SMS.
type VerifyPhoneRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Code        string `json:"code" validate:"required,min=4,max=10,numeric"`
}

// ResendVerificationRequest reenvío del código.
type ResendVerificationRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest renovación del token de acceso.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// PasswordResetRequest solicitud de enlace de restablecimiento.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest nueva contraseña con el token del enlace.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// TokenResponse par de tokens más el usuario autenticado.
type TokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	User         UserResponse `json:"user"`
}

// RegisterResponse el alta no devuelve tokens hasta verificar el teléfono.
type RegisterResponse struct {
	User                 UserResponse `json:"user"`
	VerificationRequired bool         `json:"verificationRequired"`
	Message              string       `json:"message"`
}
