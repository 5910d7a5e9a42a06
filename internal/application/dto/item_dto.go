package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
)

// ItemResponse is the public view of a stock item.
type ItemResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Barcode        string          `json:"barcode,omitempty"`
	CategoryID     string          `json:"category_id,omitempty"`
	LocationID     string          `json:"location_id,omitempty"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	QtyNew         decimal.Decimal `json:"qty_new"`
	QtyUsed        decimal.Decimal `json:"qty_used"`
	QtyRefurbished decimal.Decimal `json:"qty_refurbished"`
	QtyImport      decimal.Decimal `json:"qty_import"`
	MinQuantity    decimal.Decimal `json:"min_quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalValue     decimal.Decimal `json:"total_value"`
	Active         bool            `json:"active"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FromItem maps the entity to its response shape.
func FromItem(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID:             i.ID,
		Code:           i.Code,
		Name:           i.Name,
		Barcode:        i.Barcode,
		CategoryID:     i.CategoryID,
		LocationID:     i.LocationID,
		Unit:           i.Unit,
		Quantity:       i.Quantity,
		QtyNew:         i.QtyNew,
		QtyUsed:        i.QtyUsed,
		QtyRefurbished: i.QtyRefurbished,
		QtyImport:      i.QtyImport,
		MinQuantity:    i.MinQuantity,
		UnitPrice:      i.UnitPrice,
		TotalValue:     i.TotalValue,
		Active:         i.Active,
		UpdatedAt:      i.UpdatedAt,
	}
}
