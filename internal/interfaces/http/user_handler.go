package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
)

// UserHandler administración de usuarios y tokens de dispositivo.
type UserHandler struct {
	uc   *usecase.UserUseCase
	docs *usecase.DocumentUseCase
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc *usecase.UserUseCase, docs *usecase.DocumentUseCase) *UserHandler {
	return &UserHandler{uc: uc, docs: docs}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Security     Bearer
// @Param        jobRole   query  string  false  "puesto"
// @Param        verified  query  string  false  "true | false"
// @Param        search    query  string  false  "nombre, email o usuario"
// @Param        limit     query  int     false  "límite (máx. 100)"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var q dto.UserListQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario
// @Tags         users
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario (ya verificado)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateUserRequest  true  "datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "campos a modificar"
// @Success      200   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         users
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Documents godoc
// @Summary      Documentos de un usuario
// @Tags         users
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {array}   dto.DocumentResponse
// @Router       /api/users/{id}/documents [get]
func (h *UserHandler) Documents(c *fiber.Ctx) error {
	out, err := h.docs.ListForUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AddDeviceToken godoc
// @Summary      Registrar token push del dispositivo
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.DeviceTokenRequest  true  "token FCM"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/users/device-tokens [post]
func (h *UserHandler) AddDeviceToken(c *fiber.Ctx) error {
	var in dto.DeviceTokenRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := h.uc.AddDeviceToken(c.UserContext(), GetUserID(c), in.Token); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "token registrado"})
}

// RemoveDeviceToken godoc
// @Summary      Eliminar token push del dispositivo
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.DeviceTokenRequest  true  "token FCM"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/users/device-tokens [delete]
func (h *UserHandler) RemoveDeviceToken(c *fiber.Ctx) error {
	var in dto.DeviceTokenRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := h.uc.RemoveDeviceToken(c.UserContext(), GetUserID(c), in.Token); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "token eliminado"})
}
