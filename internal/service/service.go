package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/goalit/internal/db"
	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func utcNow() time.Time {
	return time.Now().UTC()
}

// runInTx runs fn in a write transaction. A lock timeout is reported as
// league.ErrStoreBusy so callers can tell it apart from other failures.
func runInTx(ctx context.Context, database *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	err := db.RunInTx(ctx, database, fn)
	if err != nil && db.IsBusy(err) {
		return fmt.Errorf("%w: %w", league.ErrStoreBusy, err)
	}
	return err
}

// retryOnce repeats fn a single time when it failed on a lock timeout or a
// unique constraint. Only idempotent operations may go through it.
func retryOnce(fn func() error) error {
	err := fn()
	if err != nil && (errors.Is(err, league.ErrStoreBusy) || db.IsUniqueViolation(err)) {
		err = fn()
	}
	return err
}

func loadMatch(ctx context.Context, q sqlx.QueryerContext, matches *store.MatchStore, id uuid.UUID) (*league.Match, error) {
	match, err := matches.GetMatch(ctx, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.NotFound("match")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

func requireOrganizer(match *league.Match, profileID uuid.UUID, action string) error {
	if !match.IsOrganizer(profileID) {
		return &league.PermissionError{Action: action}
	}
	return nil
}
