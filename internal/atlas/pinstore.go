package atlas

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sundialhq/sundial-platform/pkg/postgres"
)

// Pin is a durable record of a pinned band
type Pin struct {
	ID       uuid.UUID `json:"id"`
	Band     string    `json:"band"`
	PinnedAt time.Time `json:"pinned_at"`
}

// PinStore persists pinned bands in Postgres so pins survive restarts.
// Redis mirrors the same set for fast reads; Postgres is the source of
// truth at startup.
type PinStore struct {
	pg     postgres.Client
	logger *slog.Logger
}

const createPinsTable = `
CREATE TABLE IF NOT EXISTS atlas_pins (
	id UUID PRIMARY KEY,
	band TEXT NOT NULL UNIQUE,
	pinned_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPinStore creates a new pin store
func NewPinStore(pg postgres.Client, logger *slog.Logger) *PinStore {
	return &PinStore{
		pg:     pg,
		logger: logger,
	}
}

// EnsureSchema creates the pins table if it does not exist
func (s *PinStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pg.Exec(ctx, createPinsTable); err != nil {
		return fmt.Errorf("failed to create atlas_pins table: %w", err)
	}
	return nil
}

// Save inserts a pin for a band; saving an already-pinned band is a no-op
func (s *PinStore) Save(ctx context.Context, band string) (uuid.UUID, error) {
	id := uuid.New()

	result, err := s.pg.Exec(ctx,
		`INSERT INTO atlas_pins (id, band) VALUES ($1, $2)
		 ON CONFLICT (band) DO NOTHING`,
		id, band)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save pin for %s: %w", band, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		s.logger.Debug("Band already pinned", "band", band)
	}

	return id, nil
}

// Delete removes a band's pin
func (s *PinStore) Delete(ctx context.Context, band string) error {
	if _, err := s.pg.Exec(ctx, `DELETE FROM atlas_pins WHERE band = $1`, band); err != nil {
		return fmt.Errorf("failed to delete pin for %s: %w", band, err)
	}
	return nil
}

// List returns all durable pins ordered by pin time
func (s *PinStore) List(ctx context.Context) ([]Pin, error) {
	rows, err := s.pg.Query(ctx,
		`SELECT id, band, pinned_at FROM atlas_pins ORDER BY pinned_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}
	defer rows.Close()

	var pins []Pin
	for rows.Next() {
		var pin Pin
		if err := rows.Scan(&pin.ID, &pin.Band, &pin.PinnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pin row: %w", err)
		}
		pins = append(pins, pin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pin rows: %w", err)
	}

	return pins, nil
}
