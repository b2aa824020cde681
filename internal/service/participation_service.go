package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// ParticipationService runs the join / status / leave lifecycle of a player
// in a match.
type ParticipationService struct {
	db    *sqlx.DB
	store *store.MatchStore
	now   func() time.Time
}

func NewParticipationService(db *sqlx.DB, store *store.MatchStore) *ParticipationService {
	return &ParticipationService{db: db, store: store, now: utcNow}
}

type StatusResult struct {
	Participation *league.Participation
	Created       bool
	// Waitlisted is set when "going" was asked for but the match was full.
	Waitlisted bool
}

// Join creates the player's participation if needed and applies desired.
func (s *ParticipationService) Join(ctx context.Context, matchID, playerID uuid.UUID, desired string) (*StatusResult, error) {
	var result *StatusResult
	err := retryOnce(func() error {
		return runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
			match, status, err := s.openMatch(ctx, tx, matchID, desired)
			if err != nil {
				return err
			}

			p := &league.Participation{
				ID:        uuid.New(),
				MatchID:   matchID,
				PlayerID:  playerID,
				Status:    league.StatusGoing,
				CreatedAt: s.now(),
			}
			created, err := s.store.CreateParticipation(ctx, tx, p)
			if err != nil {
				return fmt.Errorf("failed to create participation: %w", err)
			}
			if !created {
				if p, err = s.store.GetPlayerParticipation(ctx, tx, matchID, playerID); err != nil {
					return fmt.Errorf("failed to get participation: %w", err)
				}
			}

			result, err = s.applyStatus(ctx, tx, match, p, status)
			if err != nil {
				return err
			}
			result.Created = created
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetStatus changes the status of an existing participation.
func (s *ParticipationService) SetStatus(ctx context.Context, matchID, playerID uuid.UUID, desired string) (*StatusResult, error) {
	var result *StatusResult
	err := runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		match, status, err := s.openMatch(ctx, tx, matchID, desired)
		if err != nil {
			return err
		}

		p, err := s.store.GetPlayerParticipation(ctx, tx, matchID, playerID)
		if errors.Is(err, sql.ErrNoRows) {
			return league.NotFound("participation")
		}
		if err != nil {
			return fmt.Errorf("failed to get participation: %w", err)
		}

		result, err = s.applyStatus(ctx, tx, match, p, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Leave deletes the player's participation and reports whether one existed.
func (s *ParticipationService) Leave(ctx context.Context, matchID, playerID uuid.UUID) (bool, error) {
	var removed bool
	err := runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		match, err := loadMatch(ctx, tx, s.store, matchID)
		if err != nil {
			return err
		}
		if match.Finalized {
			return league.ErrMatchFinalized
		}

		p, err := s.store.GetPlayerParticipation(ctx, tx, matchID, playerID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get participation: %w", err)
		}

		if removed, err = s.store.DeletePlayerParticipation(ctx, tx, matchID, playerID); err != nil {
			return fmt.Errorf("failed to delete participation: %w", err)
		}
		if removed && p.Status == league.StatusGoing {
			return s.promoteWaiting(ctx, tx, match)
		}
		return nil
	})
	return removed, err
}

// openMatch loads the match for a status change and validates the requested status.
func (s *ParticipationService) openMatch(ctx context.Context, tx *sqlx.Tx, matchID uuid.UUID, desired string) (*league.Match, league.Status, error) {
	match, err := loadMatch(ctx, tx, s.store, matchID)
	if err != nil {
		return nil, "", err
	}
	if match.Finalized {
		return nil, "", league.ErrMatchFinalized
	}
	status, err := league.ParseStatus(desired)
	if err != nil {
		return nil, "", err
	}
	return match, status, nil
}

// applyStatus enforces capacity: asking for "going" when max_players other
// participations are already going puts the player on the waiting list.
func (s *ParticipationService) applyStatus(ctx context.Context, tx *sqlx.Tx, match *league.Match, p *league.Participation, desired league.Status) (*StatusResult, error) {
	next := desired
	if desired == league.StatusGoing {
		confirmed, err := s.store.CountGoing(ctx, tx, match.ID, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count confirmed players: %w", err)
		}
		if confirmed >= match.MaxPlayers {
			next = league.StatusWaiting
		}
	}

	previous := p.Status
	if next != previous {
		now := s.now()
		if err := s.store.UpdateStatus(ctx, tx, p.ID, next, now); err != nil {
			return nil, fmt.Errorf("failed to update status: %w", err)
		}
		p.Status = next
		if next == league.StatusWaiting {
			p.WaitingSince = &now
		} else {
			p.WaitingSince = nil
		}
	}

	result := &StatusResult{Participation: p, Waitlisted: desired == league.StatusGoing && next == league.StatusWaiting}
	if result.Waitlisted {
		log.Ctx(ctx).Info().
			Str("match_id", match.ID.String()).
			Str("player_id", p.PlayerID.String()).
			Msg("Match is full, player put on the waiting list")
	}

	if previous == league.StatusGoing && next != league.StatusGoing {
		if err := s.promoteWaiting(ctx, tx, match); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// promoteWaiting moves the longest waiting players to "going" while there is room.
func (s *ParticipationService) promoteWaiting(ctx context.Context, tx *sqlx.Tx, match *league.Match) error {
	for {
		confirmed, err := s.store.CountGoing(ctx, tx, match.ID, uuid.Nil)
		if err != nil {
			return fmt.Errorf("failed to count confirmed players: %w", err)
		}
		if confirmed >= match.MaxPlayers {
			return nil
		}

		next, err := s.store.OldestWaiting(ctx, tx, match.ID)
		if err != nil {
			return fmt.Errorf("failed to get waiting list: %w", err)
		}
		if next == nil {
			return nil
		}
		if err := s.store.UpdateStatus(ctx, tx, next.ID, league.StatusGoing, s.now()); err != nil {
			return fmt.Errorf("failed to promote waiting player: %w", err)
		}
		log.Ctx(ctx).Info().
			Str("match_id", match.ID.String()).
			Str("player_id", next.PlayerID.String()).
			Msg("Promoted player from the waiting list")
	}
}
