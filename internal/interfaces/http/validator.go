package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/whizkidefos/employee-management-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los nombres de campo en los errores son los del JSON (o del query string).
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateStruct valida in y devuelve domain.Validation con un error por campo.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Validation(err.Error())
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return domain.Validation("datos inválidos", fields...)
}

// fieldPath quita el nombre del struct raíz: "RegisterRequest.address.postcode" -> "address.postcode".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "es obligatorio"
	case "email":
		return "email inválido"
	case "e164":
		return "teléfono en formato internacional (+447700900123)"
	case "oneof":
		return "valor no permitido, opciones: " + fe.Param()
	case "min":
		return "mínimo " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "len":
		return fmt.Sprintf("debe tener %s caracteres", fe.Param())
	case "numeric":
		return "solo dígitos"
	case "alphanum":
		return "solo letras y números"
	case "url":
		return "URL inválida"
	default:
		return "inválido (" + fe.Tag() + ")"
	}
}

// parseBody decodifica el JSON del cuerpo en in y lo valida.
func parseBody(c *fiber.Ctx, in any) error {
	if err := c.BodyParser(in); err != nil {
		return domain.Validation("cuerpo inválido")
	}
	return validateStruct(in)
}

// parseQuery decodifica los parámetros de consulta en q y los valida.
func parseQuery(c *fiber.Ctx, q any) error {
	if err := c.QueryParser(q); err != nil {
		return domain.Validation("parámetros de consulta inválidos")
	}
	return validateStruct(q)
}

// parseOptionalBody como parseBody pero acepta un cuerpo vacío.
func parseOptionalBody(c *fiber.Ctx, in any) error {
	if len(c.Body()) == 0 {
		return validateStruct(in)
	}
	return parseBody(c, in)
}
