package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/audit"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/dto"
)

// AuditHandler drives count sessions over HTTP (protected).
type AuditHandler struct {
	engine *audit.Engine
}

// NewAuditHandler builds the handler.
func NewAuditHandler(engine *audit.Engine) *AuditHandler {
	return &AuditHandler{engine: engine}
}

// Start handles POST /api/audits.
func (h *AuditHandler) Start(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.StartAuditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	a, err := h.engine.Start(c.Context(), audit.StartInput{
		Type:       in.Type,
		CategoryID: in.CategoryID,
		LocationID: in.LocationID,
		ItemID:     in.ItemID,
		CreatedBy:  userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromAudit(a))
}

// Get handles GET /api/audits/:id.
func (h *AuditHandler) Get(c *fiber.Ctx) error {
	a, err := h.engine.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromAudit(a))
}

// List handles GET /api/audits.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "invalid query"})
	}
	page.DefaultPage()
	list, err := h.engine.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"audits": dto.FromAudits(list),
	})
}

// NextItem handles POST /api/audits/:id/next. Returns the next item to count
// or exhausted=true once the snapshot is walked.
func (h *AuditHandler) NextItem(c *fiber.Ctx) error {
	item, a, err := h.engine.NextItem(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.NextItemResponse{Exhausted: item == nil, Audit: dto.FromAudit(a)}
	if item != nil {
		ir := dto.FromItem(item)
		resp.Item = &ir
	}
	return c.JSON(resp)
}

// RecordCount handles POST /api/audits/:id/counts.
func (h *AuditHandler) RecordCount(c *fiber.Ctx) error {
	var in dto.RecordCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	line, err := h.engine.RecordCount(c.Context(), c.Params("id"), in.ItemID, in.ActualQuantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromAuditItem(line))
}

// Skip handles POST /api/audits/:id/skip.
func (h *AuditHandler) Skip(c *fiber.Ctx) error {
	a, err := h.engine.Skip(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromAudit(a))
}

// Cancel handles POST /api/audits/:id/cancel.
func (h *AuditHandler) Cancel(c *fiber.Ctx) error {
	a, err := h.engine.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromAudit(a))
}

// Apply handles POST /api/audits/:id/apply: writes corrective ADJUST
// transactions for every discrepant line and completes the session.
func (h *AuditHandler) Apply(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	a, err := h.engine.Apply(c.Context(), c.Params("id"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromAudit(a))
}

// ListItems handles GET /api/audits/:id/items.
func (h *AuditHandler) ListItems(c *fiber.Ctx) error {
	list, err := h.engine.ListItems(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": dto.FromAuditItems(list),
	})
}
