package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/goalit/internal/db"
	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/AdamBeresnev/goalit/internal/utils"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const maxBadgeCodeLength = 50

type BadgeService struct {
	db      *sqlx.DB
	store   *store.BadgeStore
	matches *store.MatchStore
	now     func() time.Time
}

func NewBadgeService(db *sqlx.DB, store *store.BadgeStore, matches *store.MatchStore) *BadgeService {
	return &BadgeService{db: db, store: store, matches: matches, now: utcNow}
}

type BadgeTypeInput struct {
	// Code defaults to the slug of Name.
	Code        string
	Name        string
	Description string
}

type AwardInput struct {
	PlayerID    uuid.UUID
	BadgeCode   string
	PeriodStart string
	PeriodEnd   string
}

func (s *BadgeService) CreateBadgeType(ctx context.Context, in BadgeTypeInput) (*league.BadgeType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, league.NewValidationError("badge name is required")
	}
	code := slug.Make(in.Code)
	if code == "" {
		code = slug.Make(name)
	}
	if code == "" || len(code) > maxBadgeCodeLength {
		return nil, league.NewValidationError("badge code must be 1 to 50 letters, numbers or dashes")
	}

	badgeType := &league.BadgeType{
		ID:          uuid.New(),
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
	}
	err := s.store.CreateBadgeType(ctx, badgeType)
	if db.IsUniqueViolation(err) {
		return nil, league.NewValidationError(fmt.Sprintf("badge type %q already exists", code))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create badge type: %w", err)
	}
	return badgeType, nil
}

func (s *BadgeService) ListBadgeTypes(ctx context.Context) ([]league.BadgeType, error) {
	badgeTypes, err := s.store.ListBadgeTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list badge types: %w", err)
	}
	return badgeTypes, nil
}

// AwardBadge gives a player a badge for a finalized match. Only the match
// organizer may award, and only to someone who took part in the match.
func (s *BadgeService) AwardBadge(ctx context.Context, matchID, organizerID uuid.UUID, in AwardInput) (*league.AwardedBadge, error) {
	match, err := loadMatch(ctx, s.db, s.matches, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireOrganizer(match, organizerID, "award badges"); err != nil {
		return nil, err
	}
	if !match.Finalized {
		return nil, league.NewValidationError("badges can only be awarded for finalized matches")
	}

	if _, err := s.matches.GetPlayerParticipation(ctx, s.db, matchID, in.PlayerID); errors.Is(err, sql.ErrNoRows) {
		return nil, league.NewValidationError("player did not take part in this match")
	} else if err != nil {
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}

	badgeType, err := s.store.GetBadgeTypeByCode(ctx, slug.Make(in.BadgeCode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.NotFound("badge type")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get badge type: %w", err)
	}

	start, err := parsePeriodDate(in.PeriodStart)
	if err != nil {
		return nil, err
	}
	end, err := parsePeriodDate(in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && *end < *start {
		return nil, league.NewValidationError("period end is before period start")
	}

	badge := &league.AwardedBadge{
		Badge: league.Badge{
			ID:          uuid.New(),
			PlayerID:    in.PlayerID,
			BadgeTypeID: badgeType.ID,
			MatchID:     &matchID,
			AwardedAt:   s.now(),
			PeriodStart: start,
			PeriodEnd:   end,
		},
		Type: *badgeType,
	}
	if err := s.store.AwardBadge(ctx, &badge.Badge); err != nil {
		return nil, fmt.Errorf("failed to award badge: %w", err)
	}

	log.Ctx(ctx).Info().
		Str("match_id", matchID.String()).
		Str("player_id", in.PlayerID.String()).
		Str("badge", badgeType.Code).
		Msg("Badge awarded")
	return badge, nil
}

func (s *BadgeService) ListPlayerBadges(ctx context.Context, playerID uuid.UUID) ([]league.AwardedBadge, error) {
	badges, err := s.store.ListPlayerBadges(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

func parsePeriodDate(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if _, err := time.Parse(league.DateLayout, raw); err != nil {
		return nil, league.NewValidationError("period dates must look like 2006-01-02")
	}
	return utils.Ptr(raw), nil
}
