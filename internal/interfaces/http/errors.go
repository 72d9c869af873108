package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/xiuxiu-stock/internal/application/dto"
	"github.com/jhoicas/xiuxiu-stock/internal/domain"
)

// writeError traduce los errores de dominio a respuestas HTTP.
// El orden importa: una tabla no inicializada también es ErrStoreUnavailable.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrVersionConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "VERSION_CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrTableNotInitialized):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_INITIALIZED", Message: "la tabla de inventario no existe; inicialícela con POST /api/stock/init"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrParse):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PARSE_ERROR", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
