package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whizkidefos/employee-management-api/internal/application/auth"
	"github.com/whizkidefos/employee-management-api/internal/application/dto"
)

// AuthHandler registro, verificación, login y contraseñas.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar trabajador
// @Description  Crea el usuario sin verificar y envía un código por SMS.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "datos de registro"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// VerifyPhone godoc
// @Summary      Verificar teléfono
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyPhoneRequest  true  "teléfono y código"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/verify-phone [post]
func (h *AuthHandler) VerifyPhone(c *fiber.Ctx) error {
	var in dto.VerifyPhoneRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.VerifyPhone(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ResendVerification godoc
// @Summary      Reenviar código de verificación
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResendVerificationRequest  true  "teléfono"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var in dto.ResendVerificationRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := h.uc.ResendVerification(c.UserContext(), in); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "código de verificación enviado"})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Renovar token de acceso
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshTokenRequest  true  "refresh token"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh-token [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshTokenRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Refresh(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RequestPasswordReset godoc
// @Summary      Solicitar restablecimiento de contraseña
// @Description  La respuesta es la misma exista o no el email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PasswordResetRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/auth/request-password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var in dto.PasswordResetRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := h.uc.RequestPasswordReset(c.UserContext(), in); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "si el email existe recibirás un enlace de restablecimiento"})
}

// ResetPassword godoc
// @Summary      Restablecer contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "token y nueva contraseña"
// @Success      200   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := h.uc.ResetPassword(c.UserContext(), in); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "contraseña actualizada"})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Los tokens no tienen estado; el cliente los descarta.
// @Tags         auth
// @Produce      json
// @Security     Bearer
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(dto.MessageResponse{Message: "sesión cerrada"})
}
