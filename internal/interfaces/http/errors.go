package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/domain"
)

// errorMapping traducción de un error de dominio a status y código.
type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: los errores tipados con Is a más de un sentinel deben resolverse primero.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrStockEntryNotFound, fiber.StatusNotFound, "STOCK_ENTRY_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientCentralStock, fiber.StatusConflict, "INSUFFICIENT_CENTRAL_STOCK"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrStateConflict, fiber.StatusConflict, "STATE_CONFLICT"},
	{domain.ErrWriteConflict, fiber.StatusConflict, "WRITE_CONFLICT"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
}

// writeError responde con dto.ErrorResponse según el error de dominio. Lo no mapeado es 500.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: message(err)})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// message usa el texto del error tipado (trae el detalle) y, para los sentinel envueltos, el propio error.
func message(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var se *domain.InsufficientStockError
	if errors.As(err, &se) {
		return se.Error()
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return "usuario o contraseña incorrectos"
	}
	return err.Error()
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
