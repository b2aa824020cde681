package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const maxTeamNameLength = 50

// TeamService covers the organizer-only team setup of a match.
type TeamService struct {
	db      *sqlx.DB
	store   *store.MatchStore
	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

func NewTeamService(db *sqlx.DB, store *store.MatchStore) *TeamService {
	return &TeamService{db: db, store: store, now: utcNow, shuffle: rand.Shuffle}
}

func (s *TeamService) CreateTeam(ctx context.Context, matchID, organizerID uuid.UUID, name string) (*league.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, league.NewValidationError("team name is required")
	}
	if len(name) > maxTeamNameLength {
		return nil, league.NewValidationError(fmt.Sprintf("team name exceeds %d characters", maxTeamNameLength))
	}

	team := &league.Team{
		ID:        uuid.New(),
		MatchID:   matchID,
		Name:      name,
		CreatedAt: s.now(),
	}
	err := runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := s.organizerMatch(ctx, tx, matchID, organizerID, "add teams"); err != nil {
			return err
		}
		if err := s.store.CreateTeam(ctx, tx, team); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam removes a team; its players stay in the match without a team.
func (s *TeamService) DeleteTeam(ctx context.Context, matchID, organizerID, teamID uuid.UUID) error {
	return runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := s.organizerMatch(ctx, tx, matchID, organizerID, "remove teams"); err != nil {
			return err
		}
		if _, err := s.matchTeam(ctx, tx, matchID, teamID); err != nil {
			return err
		}
		return s.store.DeleteTeam(ctx, tx, teamID)
	})
}

// ManualAssign puts a participation on teamID, or takes it off its team when teamID is nil.
func (s *TeamService) ManualAssign(ctx context.Context, matchID, organizerID, participationID uuid.UUID, teamID *uuid.UUID) (*league.Participation, error) {
	var p *league.Participation
	err := runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := s.organizerMatch(ctx, tx, matchID, organizerID, "assign teams"); err != nil {
			return err
		}

		var err error
		p, err = s.store.GetParticipation(ctx, tx, participationID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && p.MatchID != matchID) {
			return league.NotFound("participation")
		}
		if err != nil {
			return fmt.Errorf("failed to get participation: %w", err)
		}

		if teamID != nil {
			if _, err := s.matchTeam(ctx, tx, matchID, *teamID); err != nil {
				return err
			}
		}

		if err := s.store.SetTeam(ctx, tx, p.ID, teamID); err != nil {
			return fmt.Errorf("failed to set team: %w", err)
		}
		p.TeamID = teamID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RandomizeTeams shuffles the confirmed players and deals them alternately
// onto the first two teams, so the team sizes differ by at most one. Other
// teams and players who are not going are left alone.
func (s *TeamService) RandomizeTeams(ctx context.Context, matchID, organizerID uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	assignment := make(map[uuid.UUID][]uuid.UUID, 2)
	var assigned int
	err := runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := s.organizerMatch(ctx, tx, matchID, organizerID, "randomize teams"); err != nil {
			return err
		}

		teams, err := s.store.GetTeams(ctx, tx, matchID)
		if err != nil {
			return fmt.Errorf("failed to get teams: %w", err)
		}
		if len(teams) < 2 {
			return league.ErrInsufficientTeams
		}

		going, err := s.store.GetGoingParticipationIDs(ctx, tx, matchID)
		if err != nil {
			return fmt.Errorf("failed to get confirmed players: %w", err)
		}
		if len(going) == 0 {
			return league.ErrNoPlayers
		}

		s.shuffle(len(going), func(i, j int) {
			going[i], going[j] = going[j], going[i]
		})

		pair := [2]uuid.UUID{teams[0].ID, teams[1].ID}
		for i, participationID := range going {
			teamID := pair[i%2]
			if err := s.store.SetTeam(ctx, tx, participationID, &teamID); err != nil {
				return fmt.Errorf("failed to set team: %w", err)
			}
			assignment[teamID] = append(assignment[teamID], participationID)
		}
		assigned = len(going)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("match_id", matchID.String()).
		Int("players", assigned).
		Msg("Teams randomized")
	return assignment, nil
}

// organizerMatch loads a match that organizerID may still change.
func (s *TeamService) organizerMatch(ctx context.Context, tx *sqlx.Tx, matchID, organizerID uuid.UUID, action string) (*league.Match, error) {
	match, err := loadMatch(ctx, tx, s.store, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireOrganizer(match, organizerID, action); err != nil {
		return nil, err
	}
	if match.Finalized {
		return nil, league.ErrMatchFinalized
	}
	return match, nil
}

func (s *TeamService) matchTeam(ctx context.Context, tx *sqlx.Tx, matchID, teamID uuid.UUID) (*league.Team, error) {
	team, err := s.store.GetTeam(ctx, tx, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.NotFound("team")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team.MatchID != matchID {
		return nil, league.NewValidationError("team does not belong to this match")
	}
	return team, nil
}
