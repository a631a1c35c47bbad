package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/domain"
)

// statusFor traduce el Kind de dominio a código HTTP.
func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict, domain.KindInvalidState:
		return fiber.StatusConflict
	case domain.KindRoleMismatch:
		return fiber.StatusUnprocessableEntity
	case domain.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// NewErrorHandler ErrorHandler de Fiber: los handlers devuelven el error tal cual
// y aquí se escribe el dto.ErrorResponse. Con showInternal los errores no
// tipados incluyen su mensaje (solo development).
func NewErrorHandler(showInternal bool, log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var de *domain.Error
		if errors.As(err, &de) {
			return c.Status(statusFor(de.Kind)).JSON(dto.ErrorResponse{
				Code:    string(de.Kind),
				Message: de.Message,
				Fields:  de.Fields,
			})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message})
		}

		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", requestID(c)).
			Msg("error interno")
		msg := "error interno del servidor"
		if showInternal {
			msg = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: string(domain.KindInternal), Message: msg})
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return string(domain.KindNotFound)
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return string(domain.KindValidation)
	case fiber.StatusUnauthorized:
		return string(domain.KindUnauthorized)
	case fiber.StatusForbidden:
		return string(domain.KindForbidden)
	default:
		if status >= 500 {
			return string(domain.KindInternal)
		}
		return "HTTP_ERROR"
	}
}
