package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
)

// TrainingHandler cursos, inscripciones y certificados.
type TrainingHandler struct {
	uc *usecase.TrainingUseCase
}

// NewTrainingHandler construye el handler de formación.
func NewTrainingHandler(uc *usecase.TrainingUseCase) *TrainingHandler {
	return &TrainingHandler{uc: uc}
}

// ListCourses godoc
// @Summary      Listar cursos
// @Tags         training
// @Produce      json
// @Security     Bearer
// @Param        category  query  string  false  "categoría"
// @Param        all       query  bool    false  "incluir inactivos (admin)"
// @Param        limit     query  int     false  "límite"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200  {object}  dto.CourseListResponse
// @Router       /api/training/courses [get]
func (h *TrainingHandler) ListCourses(c *fiber.Ctx) error {
	var q dto.CourseListQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.ListCourses(c.UserContext(), actor(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetCourse godoc
// @Summary      Obtener curso
// @Tags         training
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del curso"
// @Success      200  {object}  entity.Course
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/training/courses/{id} [get]
func (h *TrainingHandler) GetCourse(c *fiber.Ctx) error {
	out, err := h.uc.GetCourse(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CreateCourse godoc
// @Summary      Crear curso
// @Tags         training
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateCourseRequest  true  "curso"
// @Success      201   {object}  entity.Course
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/training/courses [post]
func (h *TrainingHandler) CreateCourse(c *fiber.Ctx) error {
	var in dto.CreateCourseRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateCourse(c.UserContext(), actor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCourse godoc
// @Summary      Modificar curso
// @Tags         training
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                   true  "ID del curso"
// @Param        body  body  dto.UpdateCourseRequest  true  "campos a modificar"
// @Success      200   {object}  entity.Course
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/training/courses/{id} [put]
func (h *TrainingHandler) UpdateCourse(c *fiber.Ctx) error {
	var in dto.UpdateCourseRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateCourse(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteCourse godoc
// @Summary      Eliminar curso
// @Tags         training
// @Security     Bearer
// @Param        id   path  string  true  "ID del curso"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/training/courses/{id} [delete]
func (h *TrainingHandler) DeleteCourse(c *fiber.Ctx) error {
	if err := h.uc.DeleteCourse(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Enroll godoc
// @Summary      Inscribirse en un curso
// @Description  En cursos de pago devuelve el client secret del intento de pago.
// @Tags         training
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del curso"
// @Success      201  {object}  dto.EnrollResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/training/courses/{id}/enroll [post]
func (h *TrainingHandler) Enroll(c *fiber.Ctx) error {
	out, err := h.uc.Enroll(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Withdraw godoc
// @Summary      Anular inscripción
// @Tags         training
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID de la inscripción"
// @Success      200  {object}  entity.Enrollment
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/training/enrollments/{id}/withdraw [post]
func (h *TrainingHandler) Withdraw(c *fiber.Ctx) error {
	out, err := h.uc.Withdraw(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// MyEnrollments godoc
// @Summary      Mis inscripciones
// @Tags         training
// @Produce      json
// @Security     Bearer
// @Param        status  query  string  false  "pending | active | completed | cancelled"
// @Success      200  {array}  dto.EnrollmentResponse
// @Router       /api/training/enrollments [get]
func (h *TrainingHandler) MyEnrollments(c *fiber.Ctx) error {
	out, err := h.uc.MyEnrollments(c.UserContext(), GetUserID(c), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Cursos completados
// @Tags         training
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  dto.EnrollmentResponse
// @Router       /api/training/history [get]
func (h *TrainingHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateProgress godoc
// @Summary      Actualizar progreso
// @Description  Al llegar a 100 se completa la inscripción y se emite el certificado.
// @Tags         training
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string               true  "ID de la inscripción"
// @Param        body  body  dto.ProgressRequest  true  "progreso 0-100"
// @Success      200   {object}  entity.Enrollment
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/training/enrollments/{id}/progress [put]
func (h *TrainingHandler) UpdateProgress(c *fiber.Ctx) error {
	var in dto.ProgressRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateProgress(c.UserContext(), actor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Certificate godoc
// @Summary      Enlace al certificado
// @Tags         training
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID de la inscripción"
// @Success      200  {object}  dto.CertificateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/training/enrollments/{id}/certificate [get]
func (h *TrainingHandler) Certificate(c *fiber.Ctx) error {
	out, err := h.uc.Certificate(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
