package postgres

import (
	"context"
	"fmt"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo implements atomic per-key counters on a single-row upsert.
// Unlike counting rows created today, the upsert serializes concurrent
// writers on the counter row itself, so two callers can never draw the same
// number.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository builds the adapter.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next advances the counter for key and returns the new value, never less
// than seed+1.
func (r *SequenceRepo) Next(ctx context.Context, key string, seed int64) (int64, error) {
	var value int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO sequences (key, value) VALUES ($1, $2 + 1)
		ON CONFLICT (key)
		DO UPDATE SET value = GREATEST(sequences.value, $2) + 1
		RETURNING value`,
		key, seed,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", key, err)
	}
	return value, nil
}
