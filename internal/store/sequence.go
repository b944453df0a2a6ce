package store

import (
	"context"
	"database/sql"
	"fmt"
)

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sequenceCounter manages the global monotonic sequence number shared by
// attempts and LLM events. Creation timestamps can collide, so the sequence is
// what establishes a total order ("which attempt was created last?").
//
// Uses raw SQL because the counter is a single-row table updated with
// RETURNING, which makes each draw atomic in SQLite. There is no in-process
// lock: a draw inside a transaction must never wait on a draw outside it,
// or both sides stall until busy_timeout. Writers that draw a number should
// do so on the same transaction as the insert that uses it.
type sequenceCounter struct {
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	return sc.nextIn(ctx, sc.db)
}

// nextIn is Next executed on q, which lets a transaction draw sequence
// numbers without waiting on its own write lock.
func (sc *sequenceCounter) nextIn(ctx context.Context, q queryRower) (int64, error) {
	var seq int64
	err := q.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
