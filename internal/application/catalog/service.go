// Package catalog serves the read side of the item catalog: lookups by id,
// code or barcode and the per-item ledger history.
package catalog

import (
	"context"
	"fmt"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// Service wraps the catalog read paths.
type Service struct {
	items repository.ItemRepository
	txns  repository.TransactionRepository
}

// New builds the service.
func New(items repository.ItemRepository, txns repository.TransactionRepository) *Service {
	return &Service{items: items, txns: txns}
}

// GetItem fetches an item by id.
func (s *Service) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	return item, nil
}

// GetItemByCode fetches an item by its unique code.
func (s *Service) GetItemByCode(ctx context.Context, code string) (*entity.Item, error) {
	item, err := s.items.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get item by code: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item code %s", domain.ErrNotFound, code)
	}
	return item, nil
}

// GetItemByBarcode fetches an item by scanned barcode.
func (s *Service) GetItemByBarcode(ctx context.Context, barcode string) (*entity.Item, error) {
	if barcode == "" {
		return nil, fmt.Errorf("%w: empty barcode", domain.ErrValidation)
	}
	item, err := s.items.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("get item by barcode: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: barcode %s", domain.ErrNotFound, barcode)
	}
	return item, nil
}

// History returns the item's ledger, newest first.
func (s *Service) History(ctx context.Context, itemID string, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
	}
	list, err := s.txns.ListByItem(ctx, itemID, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}

// GetTransaction fetches one ledger row by id.
func (s *Service) GetTransaction(ctx context.Context, id string) (*entity.Transaction, error) {
	txn, err := s.txns.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if txn == nil {
		return nil, fmt.Errorf("%w: transaction %s", domain.ErrNotFound, id)
	}
	return txn, nil
}
