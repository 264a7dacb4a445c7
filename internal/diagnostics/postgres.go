package diagnostics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of *pgxpool.Pool the Postgres sink uses.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// CreateTableSQL creates the table PostgresSink writes to.
const CreateTableSQL = `CREATE TABLE IF NOT EXISTS dispatch_failures (
    id UUID PRIMARY KEY,
    kind TEXT NOT NULL,
    block_number BIGINT NOT NULL,
    extrinsic_index INTEGER NOT NULL,
    caller TEXT NOT NULL,
    error_kind TEXT NOT NULL,
    error TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
)`

const insertEventSQL = `INSERT INTO dispatch_failures
    (id, kind, block_number, extrinsic_index, caller, error_kind, error, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// PostgresSink records events in the dispatch_failures table.
type PostgresSink struct {
	db Execer
}

// NewPostgresSink builds a sink writing through db.
func NewPostgresSink(db Execer) *PostgresSink {
	return &PostgresSink{db: db}
}

// EnsureSchema creates the events table if it is missing.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, CreateTableSQL); err != nil {
		return fmt.Errorf("create dispatch_failures: %w", err)
	}
	return nil
}

// Report inserts the event.
func (s *PostgresSink) Report(ctx context.Context, event Event) error {
	id, err := uuid.Parse(event.ID)
	if err != nil {
		return fmt.Errorf("event id: %w", err)
	}
	_, err = s.db.Exec(ctx, insertEventSQL,
		id, event.Kind, int64(event.BlockNumber), event.Index,
		event.Caller, event.ErrorKind, event.Error, event.At.UTC())
	if err != nil {
		return fmt.Errorf("insert dispatch failure: %w", err)
	}
	return nil
}
