package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
	"github.com/whizkidefos/employee-management-api/internal/domain"
)

// DocumentHandler documentos de cumplimiento.
type DocumentHandler struct {
	uc *usecase.DocumentUseCase
}

func NewDocumentHandler(uc *usecase.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Upload godoc
// @Summary      Subir documento
// @Description  jpeg, png, pdf, doc o docx; máximo 10 MB.
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     Bearer
// @Param        document     formData  file    true   "archivo"
// @Param        type         formData  string  true   "tipo de documento"
// @Param        description  formData  string  false  "descripción"
// @Param        expiryDate   formData  string  false  "caducidad (YYYY-MM-DD)"
// @Success      201  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/documents/upload [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	file, closer, err := formFile(c, "document")
	if err != nil {
		return err
	}
	defer closer.Close()

	in := dto.UploadDocumentInput{
		FileInput:   file,
		Type:        c.FormValue("type"),
		Description: c.FormValue("description"),
	}
	if len(in.Description) > 500 {
		return domain.Validation("datos inválidos", domain.FieldError{Field: "description", Message: "máximo 500"})
	}
	if in.ExpiryDate, err = usecase.ParseDate("expiryDate", c.FormValue("expiryDate")); err != nil {
		return err
	}
	out, err := h.uc.Upload(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Mis documentos
// @Tags         documents
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Types godoc
// @Summary      Catálogo de tipos de documento
// @Tags         documents
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  compliance.DocumentType
// @Router       /api/documents/types [get]
func (h *DocumentHandler) Types(c *fiber.Ctx) error {
	return c.JSON(h.uc.Types())
}

// Required godoc
// @Summary      Tipos obligatorios
// @Tags         documents
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  compliance.DocumentType
// @Router       /api/documents/required [get]
func (h *DocumentHandler) Required(c *fiber.Ctx) error {
	return c.JSON(h.uc.Required())
}

// Status godoc
// @Summary      Mi estado de cumplimiento
// @Tags         documents
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.ComplianceStatusResponse
// @Router       /api/documents/status [get]
func (h *DocumentHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.Status(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener documento
// @Tags         documents
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      URL temporal de descarga
// @Tags         documents
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DownloadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/download [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	out, err := h.uc.Download(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar documento
// @Tags         documents
// @Security     Bearer
// @Param        id   path  string  true  "ID del documento"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Review godoc
// @Summary      Revisar documento
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                     true  "ID del documento"
// @Param        body  body  dto.ReviewDocumentRequest  true  "decisión"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/status [put]
func (h *DocumentHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewDocumentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Review(c.UserContext(), actor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
