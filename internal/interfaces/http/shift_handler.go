package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// ShiftHandler publicación, asignación y seguimiento de turnos.
type ShiftHandler struct {
	uc *usecase.ShiftUseCase
}

// NewShiftHandler construye el handler de turnos.
func NewShiftHandler(uc *usecase.ShiftUseCase) *ShiftHandler {
	return &ShiftHandler{uc: uc}
}

// List godoc
// @Summary      Listar turnos
// @Tags         shifts
// @Produce      json
// @Security     Bearer
// @Param        from        query  string  false  "desde (YYYY-MM-DD o RFC 3339)"
// @Param        to          query  string  false  "hasta"
// @Param        status      query  string  false  "open | assigned | in-progress | completed | cancelled"
// @Param        role        query  string  false  "puesto requerido"
// @Param        assignedTo  query  string  false  "ID del trabajador"
// @Param        location    query  string  false  "nombre del centro"
// @Param        limit       query  int     false  "límite"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ShiftListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/shifts [get]
func (h *ShiftHandler) List(c *fiber.Ctx) error {
	var q dto.ShiftListQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Mine godoc
// @Summary      Mis turnos
// @Tags         shifts
// @Produce      json
// @Security     Bearer
// @Param        status  query  string  false  "estado"
// @Success      200  {array}  dto.ShiftResponse
// @Router       /api/shifts/mine [get]
func (h *ShiftHandler) Mine(c *fiber.Ctx) error {
	out, err := h.uc.Mine(c.UserContext(), GetUserID(c), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Availability godoc
// @Summary      Turnos abiertos de un día para mi puesto
// @Tags         shifts
// @Produce      json
// @Security     Bearer
// @Param        date  path  string  true  "YYYY-MM-DD"
// @Success      200  {array}  dto.ShiftResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/shifts/availability/{date} [get]
func (h *ShiftHandler) Availability(c *fiber.Ctx) error {
	out, err := h.uc.Availability(c.UserContext(), actor(c), c.Params("date"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Informe PDF de turnos
// @Tags         shifts
// @Produce      application/pdf
// @Security     Bearer
// @Param        from  query  string  false  "desde"
// @Param        to    query  string  false  "hasta"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/shifts/export [get]
func (h *ShiftHandler) Export(c *fiber.Ctx) error {
	pdf, err := h.uc.ExportReport(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return err
	}
	return sendPDF(c, fmt.Sprintf("shifts-%s.pdf", time.Now().UTC().Format("20060102")), pdf)
}

// GetByID godoc
// @Summary      Obtener turno
// @Tags         shifts
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del turno"
// @Success      200  {object}  dto.ShiftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id} [get]
func (h *ShiftHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Publicar turno
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateShiftRequest  true  "turno"
// @Success      201   {object}  dto.ShiftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/shifts [post]
func (h *ShiftHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShiftRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), actor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Modificar turno
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                  true  "ID del turno"
// @Param        body  body  dto.UpdateShiftRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id} [put]
func (h *ShiftHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateShiftRequest
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
// @Summary      Eliminar turno
// @Tags         shifts
// @Security     Bearer
// @Param        id   path  string  true  "ID del turno"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id} [delete]
func (h *ShiftHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Assign godoc
// @Summary      Asignar turno a un trabajador
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                  true  "ID del turno"
// @Param        body  body  dto.AssignShiftRequest  true  "trabajador"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/assign [post]
func (h *ShiftHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignShiftRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Assign(c.UserContext(), c.Params("id"), in.UserID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Book godoc
// @Summary      Reservar un turno abierto
// @Tags         shifts
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del turno"
// @Success      200  {object}  dto.ShiftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/book [post]
func (h *ShiftHandler) Book(c *fiber.Ctx) error {
	out, err := h.uc.Book(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Unassign godoc
// @Summary      Liberar turno asignado
// @Tags         shifts
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del turno"
// @Success      200  {object}  dto.ShiftResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/unassign [post]
func (h *ShiftHandler) Unassign(c *fiber.Ctx) error {
	out, err := h.uc.Unassign(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar turno
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                  true   "ID del turno"
// @Param        body  body  dto.CancelShiftRequest  false  "motivo"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/cancel [post]
func (h *ShiftHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelShiftRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"), in.Reason)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CheckIn godoc
// @Summary      Fichar entrada
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string               true  "ID del turno"
// @Param        body  body  dto.LocationRequest  true  "posición actual"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/check-in [post]
func (h *ShiftHandler) CheckIn(c *fiber.Ctx) error {
	return h.track(c, h.uc.CheckIn)
}

// UpdateLocation godoc
// @Summary      Enviar posición durante el turno
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string               true  "ID del turno"
// @Param        body  body  dto.LocationRequest  true  "posición actual"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/location [post]
func (h *ShiftHandler) UpdateLocation(c *fiber.Ctx) error {
	return h.track(c, h.uc.UpdateLocation)
}

// CheckOut godoc
// @Summary      Fichar salida
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string               true  "ID del turno"
// @Param        body  body  dto.LocationRequest  true  "posición actual"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/check-out [post]
func (h *ShiftHandler) CheckOut(c *fiber.Ctx) error {
	return h.track(c, h.uc.CheckOut)
}

type trackFunc func(ctx context.Context, a usecase.Actor, id string, at entity.Coordinates) (*dto.ShiftResponse, error)

func (h *ShiftHandler) track(c *fiber.Ctx, fn trackFunc) error {
	var in dto.LocationRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := fn(c.UserContext(), actor(c), c.Params("id"), entity.Coordinates{Lat: in.Lat, Lng: in.Lng})
	if err != nil {
		return err
	}
	return c.JSON(out)
}
