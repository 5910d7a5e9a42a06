// Package numbering generates the unique document numbers of the ledger:
// transaction numbers, audit numbers and item codes. Every number comes from
// an atomic per-key counter, never from counting existing rows.
package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

const dateLayout = "20060102"

// Service issues document numbers backed by a SequenceRepository. The same
// instance can be bound to a transaction-scoped repository so a number is
// only consumed when the enclosing mutation commits.
type Service struct {
	seqs repository.SequenceRepository
	now  func() time.Time
}

// New builds the numbering service.
func New(seqs repository.SequenceRepository) *Service {
	return &Service{seqs: seqs, now: time.Now}
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithSequences returns a copy of the service bound to another sequence
// repository, typically one tied to an open transaction.
func (s *Service) WithSequences(seqs repository.SequenceRepository) *Service {
	return &Service{seqs: seqs, now: s.now}
}

// NextTransactionNumber returns {TYPE}-{YYYYMMDD}-{seq}, unique per type per
// day.
func (s *Service) NextTransactionNumber(ctx context.Context, txnType string) (string, error) {
	if !entity.TransactionTypeValid(txnType) {
		return "", fmt.Errorf("%w: unknown transaction type %q", domain.ErrValidation, txnType)
	}
	date := s.now().Format(dateLayout)
	n, err := s.seqs.Next(ctx, fmt.Sprintf("txn:%s:%s", txnType, date), 0)
	if err != nil {
		return "", fmt.Errorf("next transaction number: %w", err)
	}
	return fmt.Sprintf("%s-%s-%04d", txnType, date, n), nil
}

// NextAuditNumber returns AUD-{YYYYMMDD}-{seq}, unique per day.
func (s *Service) NextAuditNumber(ctx context.Context) (string, error) {
	date := s.now().Format(dateLayout)
	n, err := s.seqs.Next(ctx, "audit:"+date, 0)
	if err != nil {
		return "", fmt.Errorf("next audit number: %w", err)
	}
	return fmt.Sprintf("AUD-%s-%04d", date, n), nil
}

// NextItemCode returns {PREFIX}-{5-digit seq}. The counter is seeded from the
// highest existing code under the prefix so numbering continues above codes
// created before the counter existed.
func (s *Service) NextItemCode(ctx context.Context, prefix string, items repository.ItemRepository) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty item code prefix", domain.ErrValidation)
	}
	seed, err := items.MaxCodeSequence(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("max code sequence: %w", err)
	}
	n, err := s.seqs.Next(ctx, "item:"+prefix, seed)
	if err != nil {
		return "", fmt.Errorf("next item code: %w", err)
	}
	return fmt.Sprintf("%s-%05d", prefix, n), nil
}
