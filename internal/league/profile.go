package league

import "github.com/google/uuid"

type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FW"
	PositionAny        Position = "ANY"
)

var positionLabels = map[Position]string{
	PositionGoalkeeper: "Goalkeeper",
	PositionDefender:   "Defender",
	PositionMidfielder: "Midfielder",
	PositionForward:    "Forward",
	PositionAny:        "Any",
}

func ParsePosition(raw string) (Position, error) {
	if raw == "" {
		return PositionAny, nil
	}
	p := Position(raw)
	if _, ok := positionLabels[p]; !ok {
		return "", NewValidationError("invalid preferred position")
	}
	return p, nil
}

func (p Position) Label() string {
	if label, ok := positionLabels[p]; ok {
		return label
	}
	return string(p)
}

// Profile is the player side of a user account. Username is read from the
// owning identity and is never written through the profile.
type Profile struct {
	ID       uuid.UUID `db:"id"`
	UserID   uuid.UUID `db:"user_id"`
	Nickname string    `db:"nickname"`
	Position Position  `db:"preferred_position"`
	Bio      string    `db:"bio"`
	Username string    `db:"username"`
}

func (p *Profile) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Username
}
