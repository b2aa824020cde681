package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PageSize is the number of matches per list page.
const PageSize = 20

const maxTextLength = 500

type MatchService struct {
	db       *sqlx.DB
	store    *store.MatchStore
	profiles *store.ProfileStore
	now      func() time.Time
}

func NewMatchService(db *sqlx.DB, store *store.MatchStore, profiles *store.ProfileStore) *MatchService {
	return &MatchService{db: db, store: store, profiles: profiles, now: utcNow}
}

type MatchInput struct {
	Title          string
	Date           string
	Time           string
	Location       string
	PricePerPlayer string
	Notes          string
	// MaxPlayers of 0 means league.DefaultMaxPlayers.
	MaxPlayers int
}

// MatchData is a match with what the list and the API show next to it.
type MatchData struct {
	Match          *league.Match
	Creator        *league.Profile
	ConfirmedCount int
	Teams          []league.Team
}

type MatchPage struct {
	Matches    []MatchData
	Page       int
	TotalPages int
	Total      int
}

func (p *MatchPage) HasPrevious() bool { return p.Page > 1 }
func (p *MatchPage) HasNext() bool     { return p.Page < p.TotalPages }

type MatchDetail struct {
	MatchData
	Participants []league.Participant
	// Own is the viewer's participation, nil when the viewer has not joined.
	Own *league.Participation
}

func (s *MatchService) CreateMatch(ctx context.Context, organizerID uuid.UUID, in MatchInput) (*league.Match, error) {
	match, err := newMatch(in, organizerID, s.now())
	if err != nil {
		return nil, err
	}
	if err := runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.store.CreateMatch(ctx, tx, match)
	}); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

func newMatch(in MatchInput, organizerID uuid.UUID, now time.Time) (*league.Match, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = league.DefaultMatchTitle
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return nil, league.NewValidationError("location is required")
	}
	if len(title) > maxTextLength || len(location) > maxTextLength {
		return nil, league.NewValidationError(fmt.Sprintf("title and location are limited to %d characters", maxTextLength))
	}

	date, err := time.Parse(league.DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, league.NewValidationError("date must look like 2006-01-02")
	}
	kickoff, err := parseKickoff(in.Time)
	if err != nil {
		return nil, err
	}

	maxPlayers := in.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = league.DefaultMaxPlayers
	}
	if maxPlayers < 0 {
		return nil, league.NewValidationError("max players must be a positive number")
	}

	price, err := league.ParsePrice(in.PricePerPlayer)
	if err != nil {
		return nil, err
	}

	return &league.Match{
		ID:                  uuid.New(),
		Title:               title,
		Date:                date.Format(league.DateLayout),
		Time:                kickoff.Format(league.TimeLayout),
		Location:            location,
		PricePerPlayerCents: price,
		Notes:               strings.TrimSpace(in.Notes),
		MaxPlayers:          maxPlayers,
		CreatedBy:           &organizerID,
		CreatedAt:           now,
	}, nil
}

func parseKickoff(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{league.TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, league.NewValidationError("time must look like 15:04")
}

// ListMatches returns one page of matches. Pages start at 1; a page past the
// end is clamped to the last page.
func (s *MatchService) ListMatches(ctx context.Context, page int) (*MatchPage, error) {
	total, err := s.store.CountMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	matches, err := s.store.ListMatches(ctx, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	data, err := s.withSummaries(ctx, matches)
	if err != nil {
		return nil, err
	}
	return &MatchPage{Matches: data, Page: page, TotalPages: totalPages, Total: total}, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID uuid.UUID) (*MatchData, error) {
	match, err := loadMatch(ctx, s.db, s.store, matchID)
	if err != nil {
		return nil, err
	}
	data, err := s.withSummaries(ctx, []league.Match{*match})
	if err != nil {
		return nil, err
	}
	return &data[0], nil
}

// GetMatchDetail loads everything the match page shows for viewerID.
func (s *MatchService) GetMatchDetail(ctx context.Context, matchID, viewerID uuid.UUID) (*MatchDetail, error) {
	data, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	participants, err := s.store.GetParticipants(ctx, s.db, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	detail := &MatchDetail{MatchData: *data, Participants: participants}
	for i := range participants {
		if participants[i].PlayerID == viewerID {
			detail.Own = &participants[i].Participation
			break
		}
	}
	return detail, nil
}

func (s *MatchService) GetParticipants(ctx context.Context, matchID uuid.UUID) ([]league.Participant, error) {
	if _, err := loadMatch(ctx, s.db, s.store, matchID); err != nil {
		return nil, err
	}
	participants, err := s.store.GetParticipants(ctx, s.db, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	return participants, nil
}

// GetParticipation returns a participation together with its player.
func (s *MatchService) GetParticipation(ctx context.Context, matchID, playerID uuid.UUID) (*league.Participant, error) {
	participants, err := s.GetParticipants(ctx, matchID)
	if err != nil {
		return nil, err
	}
	for i := range participants {
		if participants[i].PlayerID == playerID {
			return &participants[i], nil
		}
	}
	return nil, league.NotFound("participation")
}

// DeleteMatch removes the match and everything attached to it.
func (s *MatchService) DeleteMatch(ctx context.Context, matchID, organizerID uuid.UUID) error {
	return runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		match, err := loadMatch(ctx, tx, s.store, matchID)
		if err != nil {
			return err
		}
		if err := requireOrganizer(match, organizerID, "delete the match"); err != nil {
			return err
		}
		return s.store.DeleteMatch(ctx, tx, matchID)
	})
}

func (s *MatchService) withSummaries(ctx context.Context, matches []league.Match) ([]MatchData, error) {
	ids := make([]uuid.UUID, 0, len(matches))
	var creatorIDs []uuid.UUID
	for _, m := range matches {
		ids = append(ids, m.ID)
		if m.CreatedBy != nil {
			creatorIDs = append(creatorIDs, *m.CreatedBy)
		}
	}

	counts, err := s.store.ConfirmedCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed players: %w", err)
	}
	teams, err := s.store.GetTeamsForMatches(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	creators, err := s.profiles.GetProfiles(ctx, creatorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get organizers: %w", err)
	}

	data := make([]MatchData, len(matches))
	for i := range matches {
		m := &matches[i]
		data[i] = MatchData{
			Match:          m,
			ConfirmedCount: counts[m.ID],
			Teams:          teams[m.ID],
		}
		if m.CreatedBy != nil {
			if creator, ok := creators[*m.CreatedBy]; ok {
				data[i].Creator = &creator
			}
		}
	}
	return data, nil
}
