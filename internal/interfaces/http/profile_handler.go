package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
)

// ProfileHandler perfil propio del usuario autenticado.
type ProfileHandler struct {
	uc *usecase.ProfileUseCase
}

// NewProfileHandler construye el handler de perfil.
func NewProfileHandler(uc *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener mi perfil
// @Tags         profile
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.UserResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar mi perfil
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.UpdateProfileRequest  true  "campos permitidos"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UploadPhoto godoc
// @Summary      Subir foto de perfil
// @Description  jpeg o png, máximo 5 MB.
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     Bearer
// @Param        photo  formData  file  true  "imagen"
// @Success      200    {object}  dto.UserResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/profile/photo [post]
func (h *ProfileHandler) UploadPhoto(c *fiber.Ctx) error {
	file, closer, err := formFile(c, "photo")
	if err != nil {
		return err
	}
	defer closer.Close()
	out, err := h.uc.UploadPhoto(c.UserContext(), GetUserID(c), file)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar mi perfil en PDF
// @Tags         profile
// @Produce      application/pdf
// @Security     Bearer
// @Success      200
// @Router       /api/profile/export [get]
func (h *ProfileHandler) Export(c *fiber.Ctx) error {
	pdf, err := h.uc.Export(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return sendPDF(c, fmt.Sprintf("profile-%s.pdf", GetUserID(c)), pdf)
}

// AddReference godoc
// @Summary      Añadir referencia profesional
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.ReferenceInput  true  "referencia"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile/references [post]
func (h *ProfileHandler) AddReference(c *fiber.Ctx) error {
	var in dto.ReferenceInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddReference(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReplaceWorkHistory godoc
// @Summary      Reemplazar historial laboral
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.WorkHistoryRequest  true  "entradas"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile/work-history [put]
func (h *ProfileHandler) ReplaceWorkHistory(c *fiber.Ctx) error {
	var in dto.WorkHistoryRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ReplaceWorkHistory(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdatePreferences godoc
// @Summary      Actualizar ubicaciones preferidas
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.PreferencesRequest  true  "preferencias"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/profile/preferences [put]
func (h *ProfileHandler) UpdatePreferences(c *fiber.Ctx) error {
	var in dto.PreferencesRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdatePreferences(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetBankDetails godoc
// @Summary      Ver mis datos bancarios
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.BankDetailsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/bank-details [get]
func (h *ProfileHandler) GetBankDetails(c *fiber.Ctx) error {
	out, err := h.uc.GetBankDetails(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateBankDetails godoc
// @Summary      Guardar mis datos bancarios
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.BankDetailsRequest  true  "datos bancarios"
// @Success      200   {object}  dto.BankDetailsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/payments/bank-details [put]
func (h *ProfileHandler) UpdateBankDetails(c *fiber.Ctx) error {
	var in dto.BankDetailsRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateBankDetails(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func sendPDF(c *fiber.Ctx, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}
