package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica un error de dominio. El conjunto es cerrado: la capa HTTP
// traduce cada Kind a un código de estado.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindConflict     Kind = "CONFLICT"
	KindInvalidState Kind = "INVALID_STATE"
	KindRoleMismatch Kind = "ROLE_MISMATCH"
	KindUnavailable  Kind = "SERVICE_UNAVAILABLE"
	KindInternal     Kind = "INTERNAL"
)

// FieldError error de validación asociado a un campo concreto.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error es el error etiquetado que atraviesa las capas de aplicación.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d campos)", e.Message, len(e.Fields))
}

// Is permite errors.Is(err, domain.ErrNotFound) para cualquier error del mismo Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errores de dominio (sin dependencias externas). Sirven como objetivo de errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "entrada inválida"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "recurso no encontrado"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "no autorizado"}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "acceso denegado"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflicto con el estado actual"}
	ErrInvalidState = &Error{Kind: KindInvalidState, Message: "operación no válida en el estado actual"}
	ErrRoleMismatch = &Error{Kind: KindRoleMismatch, Message: "el puesto del usuario no coincide"}
	ErrUnavailable  = &Error{Kind: KindUnavailable, Message: "servicio externo no disponible"}
)

// Validation crea un error de validación con errores por campo opcionales.
func Validation(msg string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// NotFound crea un error de recurso inexistente.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Unauthorized crea un error de credenciales.
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

// Forbidden crea un error de privilegios insuficientes.
func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

// Conflict crea un error de duplicado o de escritura concurrente.
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// InvalidState crea un error de transición no permitida.
func InvalidState(msg string) *Error { return &Error{Kind: KindInvalidState, Message: msg} }

// RoleMismatch crea un error de puesto no compatible.
func RoleMismatch(msg string) *Error { return &Error{Kind: KindRoleMismatch, Message: msg} }

// Unavailable crea un error de dependencia externa sin configurar.
func Unavailable(msg string) *Error { return &Error{Kind: KindUnavailable, Message: msg} }

// KindOf devuelve el Kind del primer *Error de la cadena, o KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
