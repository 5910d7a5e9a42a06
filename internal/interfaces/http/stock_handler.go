package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/dto"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/stock"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
)

// StockHandler exposes the five ledger movements over HTTP (protected).
type StockHandler struct {
	engine *stock.Engine
}

// NewStockHandler builds the handler.
func NewStockHandler(engine *stock.Engine) *StockHandler {
	return &StockHandler{engine: engine}
}

// Receipt handles POST /api/stock/receipts.
func (h *StockHandler) Receipt(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	txn, err := h.engine.ApplyReceipt(c.Context(), stock.ReceiptInput{
		ItemID:    in.ItemID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Condition: entity.Condition(in.Condition),
		Notes:     in.Notes,
		CreatedBy: userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTransaction(txn))
}

// Issue handles POST /api/stock/issues.
func (h *StockHandler) Issue(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.IssueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	txn, err := h.engine.ApplyIssue(c.Context(), stock.IssueInput{
		ItemID:    in.ItemID,
		Condition: entity.Condition(in.Condition),
		Quantity:  in.Quantity,
		Correlation: stock.Correlation{
			EmployeeID:   in.EmployeeID,
			EquipmentID:  in.EquipmentID,
			ProjectID:    in.ProjectID,
			ToLocationID: in.ToLocationID,
		},
		Notes:     in.Notes,
		CreatedBy: userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTransaction(txn))
}

// Transfer handles POST /api/stock/transfers.
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	txn, err := h.engine.ApplyTransfer(c.Context(), stock.TransferInput{
		ItemID:       in.ItemID,
		ToLocationID: in.ToLocationID,
		Notes:        in.Notes,
		CreatedBy:    userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTransaction(txn))
}

// Return handles POST /api/stock/returns.
func (h *StockHandler) Return(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	txn, err := h.engine.ApplyReturn(c.Context(), stock.ReturnInput{
		OriginTransactionID: in.OriginTransactionID,
		Quantity:            in.Quantity,
		Notes:               in.Notes,
		CreatedBy:           userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTransaction(txn))
}

// Adjust handles POST /api/stock/adjustments. Manual corrections outside an
// audit; reconciliation sessions go through the audit endpoints instead.
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	txn, err := h.engine.ApplyAdjustment(c.Context(), stock.AdjustmentInput{
		ItemID:         in.ItemID,
		TargetQuantity: in.TargetQuantity,
		Notes:          in.Notes,
		CreatedBy:      userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	if txn == nil {
		// Target equals the current quantity: nothing to record.
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "quantity already at target"})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTransaction(txn))
}
