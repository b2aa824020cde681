package store

import (
	"context"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ProfileStore struct {
	db *sqlx.DB
}

const (
	profileColumns = `p.id, p.user_id, p.nickname, p.preferred_position, p.bio, u.username`

	getProfileQuery         = "SELECT " + profileColumns + " FROM player_profiles p JOIN users u ON u.id = p.user_id WHERE p.id = ?"
	getProfileByUserIDQuery = "SELECT " + profileColumns + " FROM player_profiles p JOIN users u ON u.id = p.user_id WHERE p.user_id = ?"
	getProfilesQuery        = "SELECT " + profileColumns + " FROM player_profiles p JOIN users u ON u.id = p.user_id WHERE p.id IN (?)"
	createProfileQuery      = `
		INSERT INTO player_profiles (id, user_id, nickname, preferred_position, bio)
		VALUES (:id, :user_id, :nickname, :preferred_position, :bio)
	`
	updateProfileQuery = `
		UPDATE player_profiles SET
		nickname = :nickname,
		preferred_position = :preferred_position,
		bio = :bio
		WHERE id = :id
	`
	deleteProfileQuery = "DELETE FROM player_profiles WHERE id = ?"
)

func NewProfileStore(db *sqlx.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) GetProfile(ctx context.Context, id uuid.UUID) (*league.Profile, error) {
	var profile league.Profile
	if err := s.db.GetContext(ctx, &profile, getProfileQuery, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileStore) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*league.Profile, error) {
	var profile league.Profile
	if err := s.db.GetContext(ctx, &profile, getProfileByUserIDQuery, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfiles returns the profiles for ids keyed by id. Unknown ids are skipped.
func (s *ProfileStore) GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]league.Profile, error) {
	result := make(map[uuid.UUID]league.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(getProfilesQuery, ids)
	if err != nil {
		return nil, err
	}
	var profiles []league.Profile
	if err := s.db.SelectContext(ctx, &profiles, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, p := range profiles {
		result[p.ID] = p
	}
	return result, nil
}

func (s *ProfileStore) CreateProfile(ctx context.Context, q sqlx.ExtContext, profile *league.Profile) error {
	_, err := sqlx.NamedExecContext(ctx, q, createProfileQuery, profile)
	return err
}

func (s *ProfileStore) UpdateProfile(ctx context.Context, profile *league.Profile) error {
	_, err := s.db.NamedExecContext(ctx, updateProfileQuery, profile)
	return err
}

func (s *ProfileStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, deleteProfileQuery, id)
	return err
}
