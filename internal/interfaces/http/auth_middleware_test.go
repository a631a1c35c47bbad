package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whizkidefos/employee-management-api/internal/application/auth"
	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	apphttp "github.com/whizkidefos/employee-management-api/internal/interfaces/http"
	"github.com/whizkidefos/employee-management-api/internal/testutil"
	pkgjwt "github.com/whizkidefos/employee-management-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testJWT = auth.JWTConfig{
	AccessSecret:   "test-access-secret",
	RefreshSecret:  "test-refresh-secret",
	ResetSecret:    "test-reset-secret",
	AccessMinutes:  15,
	RefreshMinutes: 60,
	ResetMinutes:   60,
	Issuer:         "carestaff-test",
}

// seedUser crea un usuario verificado (o no) en el repositorio en memoria.
func seedUser(t *testing.T, users *testutil.UserRepo, id, role string, admin, verified bool) *entity.User {
	t.Helper()
	u := &entity.User{
		ID:          id,
		FirstName:   id,
		LastName:    "Test",
		Email:       id + "@example.com",
		PhoneNumber: "+447700900" + id[:3],
		Username:    id,
		JobRole:     role,
		IsAdmin:     admin,
		IsVerified:  verified,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

// bearer genera el header Authorization con un token de acceso válido.
func bearer(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWT.AccessSecret, pkgjwt.Subject{UserID: u.ID, Role: u.JobRole, Admin: u.IsAdmin}, pkgjwt.KindAccess, testJWT.Issuer, testJWT.AccessMinutes)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// buildGateApp aplicación mínima: AuthMiddleware + gate + handler que devuelve el usuario.
func buildGateApp(users *testutil.UserRepo, gate fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(false, zerolog.Nop())})
	authUC := auth.NewAuthUseCase(users, nil, nil, testJWT, zerolog.Nop())
	app.Get("/protected",
		apphttp.AuthMiddleware(authUC),
		gate,
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "user_id": apphttp.GetUserID(c)})
		},
	)
	return app
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func passThrough(c *fiber.Ctx) error { return c.Next() }

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValidoCargaUsuario(t *testing.T) {
	users := testutil.NewUserRepo()
	nurse := seedUser(t, users, "nurse1", entity.JobRoleRegisteredNurse, false, true)
	app := buildGateApp(users, passThrough)

	resp := doGet(t, app, "/protected", bearer(t, nurse))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "nurse1", body["user_id"])
}

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := buildGateApp(testutil.NewUserRepo(), passThrough)

	resp := doGet(t, app, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)
}

func TestAuthMiddleware_FormatoIncorrecto_Retorna401(t *testing.T) {
	app := buildGateApp(testutil.NewUserRepo(), passThrough)

	for _, h := range []string{"Token abc", "Bearer", "Bearer    "} {
		resp := doGet(t, app, "/protected", h)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", h)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildGateApp(testutil.NewUserRepo(), passThrough)

	resp := doGet(t, app, "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_RefreshTokenNoSirveComoAcceso(t *testing.T) {
	users := testutil.NewUserRepo()
	nurse := seedUser(t, users, "nurse1", entity.JobRoleRegisteredNurse, false, true)
	app := buildGateApp(users, passThrough)
	tok, err := pkgjwt.Generate(testJWT.RefreshSecret, pkgjwt.Subject{UserID: nurse.ID}, pkgjwt.KindRefresh, testJWT.Issuer, 60)
	require.NoError(t, err)

	resp := doGet(t, app, "/protected", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_UsuarioNoVerificado_Retorna401(t *testing.T) {
	users := testutil.NewUserRepo()
	pending := seedUser(t, users, "pending", entity.JobRoleSupportWorker, false, false)
	app := buildGateApp(users, passThrough)

	resp := doGet(t, app, "/protected", bearer(t, pending))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_UsuarioBorrado_Retorna401(t *testing.T) {
	users := testutil.NewUserRepo()
	gone := &entity.User{ID: "ghost", JobRole: entity.JobRoleSupportWorker}
	app := buildGateApp(users, passThrough)

	resp := doGet(t, app, "/protected", bearer(t, gone))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireAdmin / RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAdmin_BloqueaTrabajador(t *testing.T) {
	users := testutil.NewUserRepo()
	nurse := seedUser(t, users, "nurse1", entity.JobRoleRegisteredNurse, false, true)
	app := buildGateApp(users, apphttp.RequireAdmin())

	resp := doGet(t, app, "/protected", bearer(t, nurse))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireAdmin_PermiteAdmin(t *testing.T) {
	users := testutil.NewUserRepo()
	admin := seedUser(t, users, "admin1", "", true, true)
	app := buildGateApp(users, apphttp.RequireAdmin())

	resp := doGet(t, app, "/protected", bearer(t, admin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// El token lleva isAdmin=true pero el usuario ya no es admin: manda la base de datos.
func TestRequireAdmin_UsaElUsuarioRecargado(t *testing.T) {
	users := testutil.NewUserRepo()
	demoted := seedUser(t, users, "demoted", entity.JobRoleSupportWorker, false, true)
	app := buildGateApp(users, apphttp.RequireAdmin())
	tok, err := pkgjwt.Generate(testJWT.AccessSecret, pkgjwt.Subject{UserID: demoted.ID, Admin: true}, pkgjwt.KindAccess, testJWT.Issuer, 15)
	require.NoError(t, err)

	resp := doGet(t, app, "/protected", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	users := testutil.NewUserRepo()
	nurse := seedUser(t, users, "nurse1", entity.JobRoleRegisteredNurse, false, true)
	hca := seedUser(t, users, "hca001", entity.JobRoleHealthcareAssistant, false, true)
	admin := seedUser(t, users, "admin1", "", true, true)
	app := buildGateApp(users, apphttp.RequireRole(entity.JobRoleRegisteredNurse))

	cases := []struct {
		name string
		user *entity.User
		want int
	}{
		{"puesto permitido", nurse, http.StatusOK},
		{"puesto distinto", hca, http.StatusForbidden},
		{"admin siempre pasa", admin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doGet(t, app, "/protected", bearer(t, tc.user))
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
