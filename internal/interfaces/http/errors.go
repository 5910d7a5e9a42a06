package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/dto"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
)

// respondError maps domain errors onto HTTP statuses. Business-rule
// rejections answer 409 so clients can distinguish them from malformed
// input.
func respondError(c *fiber.Ctx, err error) error {
	var (
		insufficient *domain.InsufficientStockError
		overReturn   *domain.OverReturnError
		auditState   *domain.InvalidAuditStateError
		conflict     *domain.ConcurrencyConflictError
	)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrLocationUnchanged):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOCATION_UNCHANGED", Message: err.Error()})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.As(err, &overReturn):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVER_RETURN", Message: err.Error()})
	case errors.As(err, &auditState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_AUDIT_STATE", Message: err.Error()})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
