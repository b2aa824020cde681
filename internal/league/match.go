package league

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMatchTitle = "FRIENDLY MATCH"
	DefaultMaxPlayers = 14

	// DateLayout and TimeLayout are the stored and wire formats of a match schedule.
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Match struct {
	ID                  uuid.UUID  `db:"id"`
	Title               string     `db:"title"`
	Date                string     `db:"match_date"`
	Time                string     `db:"match_time"`
	Location            string     `db:"location"`
	PricePerPlayerCents *int64     `db:"price_per_player_cents"`
	Notes               string     `db:"notes"`
	MaxPlayers          int        `db:"max_players"`
	CreatedBy           *uuid.UUID `db:"created_by"`
	Finalized           bool       `db:"finalized"`
	CreatedAt           time.Time  `db:"created_at"`
}

// IsOrganizer reports whether profileID created the match. A match whose
// creator was removed has no organizer.
func (m *Match) IsOrganizer(profileID uuid.UUID) bool {
	return m.CreatedBy != nil && *m.CreatedBy == profileID
}

// State is "finalized" once the organizer has locked the result, "open" before.
func (m *Match) State() string {
	if m.Finalized {
		return "finalized"
	}
	return "open"
}

type Team struct {
	ID        uuid.UUID `db:"id"`
	MatchID   uuid.UUID `db:"match_id"`
	Name      string    `db:"name"`
	Score     int       `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}
