// Package textnorm normaliza identificadores introducidos por el usuario
// (email, username, ubicaciones) antes de guardarlos o compararlos.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Email devuelve el email en minúsculas, sin espacios y en forma NFC.
func Email(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// Key normaliza un texto libre para comparaciones (ubicaciones, usernames).
func Key(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(strings.ToLower(s)), " "))
}

// Phone elimina espacios y guiones de un número de teléfono.
func Phone(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return r.Replace(strings.TrimSpace(s))
}
