package repository

import "context"

// SequenceRepository is the port for atomic, collision-free counters keyed by
// string. Next must be safe under concurrent writers: counting existing rows
// is a race, not a counter.
type SequenceRepository interface {
	// Next advances the counter for key and returns the new value. seed is a
	// floor for the counter before incrementing, used to continue numbering
	// above pre-existing codes; pass 0 for plain daily sequences.
	Next(ctx context.Context, key string, seed int64) (int64, error)
}
