package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/catalog"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/dto"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// ItemHandler serves catalog lookups and ledger history (protected).
type ItemHandler struct {
	catalog *catalog.Service
}

// NewItemHandler builds the handler.
func NewItemHandler(svc *catalog.Service) *ItemHandler {
	return &ItemHandler{catalog: svc}
}

// GetByID handles GET /api/items/:id.
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.catalog.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromItem(item))
}

// GetByCode handles GET /api/items/code/:code.
func (h *ItemHandler) GetByCode(c *fiber.Ctx) error {
	item, err := h.catalog.GetItemByCode(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromItem(item))
}

// GetByBarcode handles GET /api/items/barcode/:barcode. Scanner lookup.
func (h *ItemHandler) GetByBarcode(c *fiber.Ctx) error {
	item, err := h.catalog.GetItemByBarcode(c.Context(), c.Params("barcode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromItem(item))
}

// History handles GET /api/items/:id/transactions with optional type, from,
// to (RFC 3339 or YYYY-MM-DD) and pagination query parameters.
func (h *ItemHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "invalid query"})
	}
	page.DefaultPage()

	filter := repository.TransactionFilter{
		Type:   c.Query("type"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if v := c.Query("from"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "invalid from date"})
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "invalid to date"})
		}
		filter.To = &t
	}

	list, err := h.catalog.History(c.Context(), c.Params("id"), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":        len(list),
		"transactions": dto.FromTransactions(list),
	})
}

// GetTransaction handles GET /api/transactions/:id.
func (h *ItemHandler) GetTransaction(c *fiber.Ctx) error {
	txn, err := h.catalog.GetTransaction(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromTransaction(txn))
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
