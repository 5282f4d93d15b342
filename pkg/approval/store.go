// Package approval persists the client-local approval status of each card.
// The statuses never leave the machine; they gate board moves but are not an
// access control and are never sent to the backend.
package approval

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	// use the sqlite db driver.
	_ "github.com/mattn/go-sqlite3"
)

//go:embed base.sql
var baseSQL string

// Status is a card's local approval state.
type Status string

// The approval states a card can be in. Every card starts as pending.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusIssue    Status = "issue"
)

// cycle is the order Cycle advances through.
var cycle = []Status{StatusPending, StatusApproved, StatusRejected, StatusIssue}

// Store manages the sqlite connection and an in-memory copy of the statuses.
type Store struct {
	conn     *sql.DB
	statuses map[int64]Status
}

// NewStore connects to the sqlite database at the given filename, initializes
// the structure if not present, and loads existing statuses into memory.
func NewStore(ctx context.Context, filename string) (*Store, error) {
	conn, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("error connecting to sqlite db at %s: %w", filename, err)
	}

	store := Store{
		conn:     conn,
		statuses: map[int64]Status{},
	}

	if _, err := store.conn.ExecContext(ctx, baseSQL); err != nil {
		return nil, fmt.Errorf("error running base sql: %w", err)
	}

	if err := store.load(ctx); err != nil {
		return nil, err
	}

	return &store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.conn.QueryContext(ctx, `SELECT card_id, status FROM approval`)
	if err != nil {
		return fmt.Errorf("error loading approval statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cardID int64

		var status Status

		if err := rows.Scan(&cardID, &status); err != nil {
			return fmt.Errorf("error scanning approval status: %w", err)
		}

		s.statuses[cardID] = status
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error scanning approval statuses: %w", err)
	}

	return nil
}

// Get returns the card's status, defaulting to pending for unknown cards.
func (s *Store) Get(cardID int64) Status {
	if status, ok := s.statuses[cardID]; ok {
		return status
	}

	return StatusPending
}

// Set upserts the card's status.
func (s *Store) Set(ctx context.Context, cardID int64, status Status) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO approval (card_id, status, updated_datetime) VALUES ($1, $2, $3)
		 ON CONFLICT (card_id) DO UPDATE SET status = $2, updated_datetime = $3`,
		cardID, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("error setting approval status for card %d: %w", cardID, err)
	}

	s.statuses[cardID] = status

	return nil
}

// Cycle advances the card's status to the next state in the fixed order and
// returns the new status.
func (s *Store) Cycle(ctx context.Context, cardID int64) (Status, error) {
	current := s.Get(cardID)

	next := cycle[0]

	for i, status := range cycle {
		if status == current {
			next = cycle[(i+1)%len(cycle)]

			break
		}
	}

	if err := s.Set(ctx, cardID, next); err != nil {
		return current, err
	}

	return next, nil
}

// Approved reports whether board moves are permitted for the card.
func (s *Store) Approved(cardID int64) bool {
	return s.Get(cardID) == StatusApproved
}

// GateMove runs move only when the card is approved. Any other status calls
// refuse instead, before any backend request is built. Returns whether the
// move ran.
func GateMove(s *Store, cardID int64, move, refuse func()) bool {
	if !s.Approved(cardID) {
		refuse()

		return false
	}

	move()

	return true
}
