package store

import (
	"context"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BadgeStore struct {
	db *sqlx.DB
}

func NewBadgeStore(db *sqlx.DB) *BadgeStore {
	return &BadgeStore{db: db}
}

func (s *BadgeStore) CreateBadgeType(ctx context.Context, badgeType *league.BadgeType) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO badge_types (id, code, name, description)
		VALUES (:id, :code, :name, :description)`, badgeType)
	return err
}

func (s *BadgeStore) GetBadgeTypeByCode(ctx context.Context, code string) (*league.BadgeType, error) {
	var badgeType league.BadgeType
	if err := s.db.GetContext(ctx, &badgeType, "SELECT * FROM badge_types WHERE code = ?", code); err != nil {
		return nil, err
	}
	return &badgeType, nil
}

func (s *BadgeStore) ListBadgeTypes(ctx context.Context) ([]league.BadgeType, error) {
	var badgeTypes []league.BadgeType
	err := s.db.SelectContext(ctx, &badgeTypes, "SELECT * FROM badge_types ORDER BY name ASC")
	return badgeTypes, err
}

func (s *BadgeStore) AwardBadge(ctx context.Context, badge *league.Badge) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO badges (id, player_id, badge_type_id, match_id, awarded_at, period_start, period_end)
		VALUES (:id, :player_id, :badge_type_id, :match_id, :awarded_at, :period_start, :period_end)`, badge)
	return err
}

// ListPlayerBadges returns the player's badges, most recent first.
func (s *BadgeStore) ListPlayerBadges(ctx context.Context, playerID uuid.UUID) ([]league.AwardedBadge, error) {
	var badges []league.AwardedBadge
	err := s.db.SelectContext(ctx, &badges, `SELECT
		b.id, b.player_id, b.badge_type_id, b.match_id, b.awarded_at, b.period_start, b.period_end,
		t.id AS "type.id", t.code AS "type.code", t.name AS "type.name", t.description AS "type.description"
		FROM badges b
		JOIN badge_types t ON t.id = b.badge_type_id
		WHERE b.player_id = ?
		ORDER BY b.awarded_at DESC`, playerID)
	return badges, err
}
