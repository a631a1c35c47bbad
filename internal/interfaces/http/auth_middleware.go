package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// LocalUser clave de Locals con el *entity.User autenticado.
const LocalUser = "user"

// Authenticator valida un token de acceso y devuelve el usuario verificado.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token, recarga el usuario y lo deja en c.Locals.
// Usuarios no verificados o inexistentes reciben 401.
func AuthMiddleware(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return domain.Unauthorized("Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return domain.Unauthorized("formato: Bearer <token>")
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return domain.Unauthorized("token vacío")
		}
		user, err := authn.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// RequireAdmin corta con 403 si el usuario no es administrador.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil || !u.IsAdmin {
			return domain.Forbidden("se requieren permisos de administrador")
		}
		return c.Next()
	}
}

// RequireRole permite el paso a administradores y a usuarios cuyo puesto esté en roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return domain.Unauthorized("no autenticado")
		}
		if u.IsAdmin {
			return c.Next()
		}
		for _, r := range roles {
			if u.JobRole == r {
				return c.Next()
			}
		}
		return domain.Forbidden("tu puesto no tiene acceso a este recurso")
	}
}

// CurrentUser devuelve el usuario autenticado (después de AuthMiddleware).
func CurrentUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetUserID devuelve el id del usuario autenticado o "".
func GetUserID(c *fiber.Ctx) string {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}

func actor(c *fiber.Ctx) usecase.Actor {
	if u := CurrentUser(c); u != nil {
		return usecase.ActorFrom(u)
	}
	return usecase.Actor{}
}
