package http

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/domain"
)

// formFile abre el archivo del campo field. El tipo MIME se detecta por
// contenido; la cabecera del cliente no se usa. El llamador cierra el archivo.
func formFile(c *fiber.Ctx, field string) (dto.FileInput, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return dto.FileInput{}, nil, domain.Validation("archivo requerido", domain.FieldError{Field: field, Message: "es obligatorio"})
	}
	f, err := fh.Open()
	if err != nil {
		return dto.FileInput{}, nil, err
	}
	mime, err := detectMIME(f)
	if err != nil {
		_ = f.Close()
		return dto.FileInput{}, nil, err
	}
	return dto.FileInput{
		FileName: fh.Filename,
		MimeType: mime,
		Size:     fh.Size,
		Content:  f,
	}, f, nil
}

func detectMIME(f multipart.File) (string, error) {
	m, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	s, _, _ := strings.Cut(m.String(), ";")
	return s, nil
}
