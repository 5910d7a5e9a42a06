package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/audit"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/catalog"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/stock"
)

// RouterDeps carries the router's dependencies.
type RouterDeps struct {
	Stock     *stock.Engine
	Audit     *audit.Engine
	Catalog   *catalog.Service
	JWTSecret string
}

// Router registers the API routes. Everything except /health requires a
// Bearer token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Stock movements
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Stock)
	stockGroup.Post("/receipts", stockHandler.Receipt)
	stockGroup.Post("/issues", stockHandler.Issue)
	stockGroup.Post("/transfers", stockHandler.Transfer)
	stockGroup.Post("/returns", stockHandler.Return)
	stockGroup.Post("/adjustments", stockHandler.Adjust)

	// Catalog lookups and ledger history
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.Catalog)
	items.Get("/code/:code", itemHandler.GetByCode)
	items.Get("/barcode/:barcode", itemHandler.GetByBarcode)
	items.Get("/:id", itemHandler.GetByID)
	items.Get("/:id/transactions", itemHandler.History)
	api.Get("/transactions/:id", itemHandler.GetTransaction)

	// Count sessions
	audits := api.Group("/audits")
	auditHandler := NewAuditHandler(deps.Audit)
	audits.Post("/", auditHandler.Start)
	audits.Get("/", auditHandler.List)
	audits.Get("/:id", auditHandler.Get)
	audits.Get("/:id/items", auditHandler.ListItems)
	audits.Post("/:id/next", auditHandler.NextItem)
	audits.Post("/:id/counts", auditHandler.RecordCount)
	audits.Post("/:id/skip", auditHandler.Skip)
	audits.Post("/:id/cancel", auditHandler.Cancel)
	audits.Post("/:id/apply", auditHandler.Apply)
}
