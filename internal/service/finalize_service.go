package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// AttendanceRecord is the organizer's record of one participation. Played and
// NoShow are always written; nil stats keep their current value.
type AttendanceRecord struct {
	Played  bool
	NoShow  bool
	Goals   *int
	Assists *int
	MVP     *bool
	Paid    *bool
}

type FinalizeInput struct {
	TeamScores map[uuid.UUID]int
	Attendance map[uuid.UUID]AttendanceRecord
}

type FinalizeService struct {
	db    *sqlx.DB
	store *store.MatchStore
}

func NewFinalizeService(db *sqlx.DB, store *store.MatchStore) *FinalizeService {
	return &FinalizeService{db: db, store: store}
}

// Finalize locks the match result. Team scores, attendance and the finalized
// flag are written in one transaction, so either all of them are visible or
// none are.
func (s *FinalizeService) Finalize(ctx context.Context, matchID, organizerID uuid.UUID, in FinalizeInput) (*league.Match, error) {
	var match *league.Match
	err := runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		match, err = loadMatch(ctx, tx, s.store, matchID)
		if err != nil {
			return err
		}
		if err := requireOrganizer(match, organizerID, "finalize the match"); err != nil {
			return err
		}
		if match.Finalized {
			return league.ErrAlreadyFinalized
		}

		teams, err := s.store.GetTeams(ctx, tx, matchID)
		if err != nil {
			return fmt.Errorf("failed to get teams: %w", err)
		}
		participations, err := s.store.GetParticipations(ctx, tx, matchID)
		if err != nil {
			return fmt.Errorf("failed to get participations: %w", err)
		}
		if err := validateFinalizeInput(in, teams, participations); err != nil {
			return err
		}

		for _, team := range teams {
			score, ok := in.TeamScores[team.ID]
			// A missing or negative score keeps what the team already has
			if !ok || score < 0 {
				continue
			}
			if err := s.store.UpdateTeamScore(ctx, tx, team.ID, score); err != nil {
				return fmt.Errorf("failed to update team score: %w", err)
			}
		}

		for i := range participations {
			p := &participations[i]
			applyAttendance(p, in.Attendance[p.ID])
			if err := s.store.UpdateResult(ctx, tx, p); err != nil {
				return fmt.Errorf("failed to update attendance: %w", err)
			}
		}

		if err := s.store.SetFinalized(ctx, tx, matchID); err != nil {
			return fmt.Errorf("failed to finalize match: %w", err)
		}
		match.Finalized = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("match_id", matchID.String()).Msg("Match finalized")
	return match, nil
}

// validateFinalizeInput rejects ids that are not teams or participations of
// the match and negative stats.
func validateFinalizeInput(in FinalizeInput, teams []league.Team, participations []league.Participation) error {
	teamIDs := make(map[uuid.UUID]bool, len(teams))
	for _, t := range teams {
		teamIDs[t.ID] = true
	}
	for id := range in.TeamScores {
		if !teamIDs[id] {
			return league.NewValidationError(fmt.Sprintf("team %s does not belong to this match", id))
		}
	}

	participationIDs := make(map[uuid.UUID]bool, len(participations))
	for _, p := range participations {
		participationIDs[p.ID] = true
	}
	for id, rec := range in.Attendance {
		if !participationIDs[id] {
			return league.NewValidationError(fmt.Sprintf("participation %s does not belong to this match", id))
		}
		if (rec.Goals != nil && *rec.Goals < 0) || (rec.Assists != nil && *rec.Assists < 0) {
			return league.NewValidationError("goals and assists cannot be negative")
		}
	}
	return nil
}

func applyAttendance(p *league.Participation, rec AttendanceRecord) {
	p.ActuallyPlayed = rec.Played
	p.NoShow = rec.NoShow
	if rec.Goals != nil {
		p.Goals = *rec.Goals
	}
	if rec.Assists != nil {
		p.Assists = *rec.Assists
	}
	if rec.MVP != nil {
		p.IsMVP = *rec.MVP
	}
	if rec.Paid != nil {
		p.HasPaid = *rec.Paid
	}
}
