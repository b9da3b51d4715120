package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ProjectLedger-api/internal/application/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/domain"
)

// ErrorStatus traduce un error de dominio a status HTTP y código de la respuesta.
// Los errores no reconocidos son INTERNAL.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidAmount):
		return fiber.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, domain.ErrAmountMismatch):
		return fiber.StatusBadRequest, "AMOUNT_MISMATCH"
	case errors.Is(err, domain.ErrMissingProductivityHours):
		return fiber.StatusBadRequest, "MISSING_PRODUCTIVITY_HOURS"
	case errors.Is(err, domain.ErrNotAssigned):
		return fiber.StatusUnprocessableEntity, "NOT_ASSIGNED"
	case errors.Is(err, domain.ErrOverpayment):
		return fiber.StatusConflict, "OVERPAYMENT"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, accounting.ErrNothingToExport):
		return fiber.StatusNotFound, "NOT_FOUND"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// fail escribe el ErrorResponse. Los errores internos se registran y no se exponen al cliente.
func fail(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, code := ErrorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		msg = "error interno del servidor"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
