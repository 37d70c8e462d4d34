package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// errResponded marca que el helper ya escribió la respuesta de error.
var errResponded = errors.New("respuesta ya enviada")

// bindJSON parsea el body y corre las reglas validate. Si falla ya respondió 400 y devuelve errResponded.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		_ = badRequest(c, "INVALID_BODY", "cuerpo inválido")
		return errResponded
	}
	if err := validate.Struct(out); err != nil {
		_ = badRequest(c, "VALIDATION", describeValidation(err))
		return errResponded
	}
	return nil
}

// describeValidation resume los errores de validator como "campo: regla".
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", lowerFirst(fe.Field()), rule))
	}
	return strings.Join(parts, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// handled convierte errResponded en nil para que fiber no escriba otra respuesta.
func handled(err error) error {
	if errors.Is(err, errResponded) {
		return nil
	}
	return err
}
