package league

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusGoing    Status = "going"
	StatusMaybe    Status = "maybe"
	StatusNotGoing Status = "not_going"
	// StatusWaiting is only ever assigned by the capacity rule.
	StatusWaiting Status = "waiting"
)

// ParseStatus accepts the statuses a player may ask for. "waiting" is not one of them.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusGoing, StatusMaybe, StatusNotGoing:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Participation struct {
	ID             uuid.UUID  `db:"id"`
	MatchID        uuid.UUID  `db:"match_id"`
	PlayerID       uuid.UUID  `db:"player_id"`
	TeamID         *uuid.UUID `db:"team_id"`
	Status         Status     `db:"status"`
	ActuallyPlayed bool       `db:"actually_played"`
	NoShow         bool       `db:"no_show"`
	Goals          int        `db:"goals"`
	Assists        int        `db:"assists"`
	IsMVP          bool       `db:"is_mvp"`
	HasPaid        bool       `db:"has_paid"`
	WaitingSince   *time.Time `db:"waiting_since"`
	CreatedAt      time.Time  `db:"created_at"`
}

// Participant is a participation joined with the player's profile.
type Participant struct {
	Participation
	Player Profile `db:"player"`
}
