package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/google/uuid"
)

const maxNicknameLength = 50

type PlayerService struct {
	profiles *store.ProfileStore
	matches  *store.MatchStore
}

func NewPlayerService(profiles *store.ProfileStore, matches *store.MatchStore) *PlayerService {
	return &PlayerService{profiles: profiles, matches: matches}
}

type ProfileInput struct {
	Nickname string
	Position string
	Bio      string
}

// PlayerPoints is a player's point total over finalized matches.
type PlayerPoints struct {
	PlayerID uuid.UUID
	Matches  int
	Total    int
}

func (s *PlayerService) GetProfile(ctx context.Context, profileID uuid.UUID) (*league.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.NotFound("player")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile rewrites the editable profile fields. Only the owner reaches
// this, so no permission check happens here.
func (s *PlayerService) UpdateProfile(ctx context.Context, profileID uuid.UUID, in ProfileInput) (*league.Profile, error) {
	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	nickname := strings.TrimSpace(in.Nickname)
	if len(nickname) > maxNicknameLength {
		return nil, league.NewValidationError(fmt.Sprintf("nickname exceeds %d characters", maxNicknameLength))
	}
	position, err := league.ParsePosition(strings.TrimSpace(in.Position))
	if err != nil {
		return nil, err
	}

	profile.Nickname = nickname
	profile.Position = position
	profile.Bio = strings.TrimSpace(in.Bio)
	if err := s.profiles.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// Points sums PointsEarned over the player's finalized matches.
func (s *PlayerService) Points(ctx context.Context, profileID uuid.UUID) (*PlayerPoints, error) {
	if _, err := s.GetProfile(ctx, profileID); err != nil {
		return nil, err
	}
	participations, err := s.matches.FinalizedParticipations(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get finalized participations: %w", err)
	}

	points := &PlayerPoints{PlayerID: profileID, Matches: len(participations)}
	for _, p := range participations {
		points.Total += league.PointsEarned(p)
	}
	return points, nil
}
