package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distingue el propósito del token; cada tipo se firma con su propio secreto.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
	KindReset   Kind = "reset"
)

// ErrWrongKind se devuelve cuando un token válido se usa para otro propósito.
var ErrWrongKind = errors.New("jwt: tipo de token incorrecto")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role es el puesto (jobRole) y Admin el nivel de administración; el middleware
// vuelve a consultar el usuario, así que ambos son informativos.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	Admin  bool   `json:"admin,omitempty"`
	Kind   Kind   `json:"kind"`
}

// Subject datos del usuario que se incrustan en el token.
type Subject struct {
	UserID string
	Role   string
	Admin  bool
}

// Generate genera un token firmado con HS256.
func Generate(secret string, sub Subject, kind Kind, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: sub.UserID,
		Role:   sub.Role,
		Admin:  sub.Admin,
		Kind:   kind,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y comprueba que el token sea del tipo esperado.
func Parse(secret, tokenString string, kind Kind) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("jwt: user_id vacío")
	}
	return claims, nil
}
