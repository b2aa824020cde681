package league

import (
	"time"

	"github.com/google/uuid"
)

type BadgeType struct {
	ID          uuid.UUID `db:"id"`
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
}

type Badge struct {
	ID          uuid.UUID  `db:"id"`
	PlayerID    uuid.UUID  `db:"player_id"`
	BadgeTypeID uuid.UUID  `db:"badge_type_id"`
	MatchID     *uuid.UUID `db:"match_id"`
	AwardedAt   time.Time  `db:"awarded_at"`
	PeriodStart *string    `db:"period_start"`
	PeriodEnd   *string    `db:"period_end"`
}

// AwardedBadge is a badge with its catalog entry.
type AwardedBadge struct {
	Badge
	Type BadgeType `db:"type"`
}

type Comment struct {
	ID        uuid.UUID  `db:"id"`
	MatchID   uuid.UUID  `db:"match_id"`
	AuthorID  *uuid.UUID `db:"author_id"`
	Text      string     `db:"text"`
	CreatedAt time.Time  `db:"created_at"`
}

type Highlight struct {
	ID          uuid.UUID  `db:"id"`
	MatchID     uuid.UUID  `db:"match_id"`
	AddedBy     *uuid.UUID `db:"added_by"`
	MediaLink   *string    `db:"media_link"`
	Description string     `db:"description"`
	CreatedAt   time.Time  `db:"created_at"`
}
