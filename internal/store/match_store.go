package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// MatchStore persists matches together with their teams and participations.
type MatchStore struct {
	db *sqlx.DB
}

func NewMatchStore(db *sqlx.DB) *MatchStore {
	return &MatchStore{db: db}
}

const participantColumns = `
	pa.id, pa.match_id, pa.player_id, pa.team_id, pa.status, pa.actually_played, pa.no_show,
	pa.goals, pa.assists, pa.is_mvp, pa.has_paid, pa.waiting_since, pa.created_at,
	p.id AS "player.id", p.user_id AS "player.user_id", p.nickname AS "player.nickname",
	p.preferred_position AS "player.preferred_position", p.bio AS "player.bio", u.username AS "player.username"`

func (s *MatchStore) CreateMatch(ctx context.Context, q sqlx.ExtContext, match *league.Match) error {
	_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO matches (id, title, match_date, match_time, location, price_per_player_cents, notes, max_players, created_by, finalized, created_at)
		VALUES (:id, :title, :match_date, :match_time, :location, :price_per_player_cents, :notes, :max_players, :created_by, :finalized, :created_at)`, match)
	return err
}

func (s *MatchStore) GetMatch(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*league.Match, error) {
	var match league.Match
	if err := sqlx.GetContext(ctx, q, &match, "SELECT * FROM matches WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &match, nil
}

// ListMatches pages through matches, latest kickoff first.
func (s *MatchStore) ListMatches(ctx context.Context, limit, offset int) ([]league.Match, error) {
	var matches []league.Match
	err := s.db.SelectContext(ctx, &matches, `SELECT * FROM matches
		ORDER BY match_date DESC, match_time DESC, created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	return matches, err
}

func (s *MatchStore) CountMatches(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM matches")
	return count, err
}

func (s *MatchStore) SetFinalized(ctx context.Context, q sqlx.ExecerContext, id uuid.UUID) error {
	_, err := q.ExecContext(ctx, "UPDATE matches SET finalized = 1 WHERE id = ?", id)
	return err
}

// DeleteMatch removes the match; teams, participations, comments and
// highlights are removed by the foreign keys.
func (s *MatchStore) DeleteMatch(ctx context.Context, q sqlx.ExecerContext, id uuid.UUID) error {
	_, err := q.ExecContext(ctx, "DELETE FROM matches WHERE id = ?", id)
	return err
}

func (s *MatchStore) CreateTeam(ctx context.Context, q sqlx.ExtContext, team *league.Team) error {
	_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO teams (id, match_id, name, score, created_at)
		VALUES (:id, :match_id, :name, :score, :created_at)`, team)
	return err
}

func (s *MatchStore) GetTeam(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*league.Team, error) {
	var team league.Team
	if err := sqlx.GetContext(ctx, q, &team, "SELECT * FROM teams WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &team, nil
}

// GetTeams returns the match's teams in creation order.
func (s *MatchStore) GetTeams(ctx context.Context, q sqlx.QueryerContext, matchID uuid.UUID) ([]league.Team, error) {
	var teams []league.Team
	err := sqlx.SelectContext(ctx, q, &teams, "SELECT * FROM teams WHERE match_id = ? ORDER BY created_at ASC, rowid ASC", matchID)
	return teams, err
}

// GetTeamsForMatches groups the teams of several matches by match id.
func (s *MatchStore) GetTeamsForMatches(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID][]league.Team, error) {
	result := make(map[uuid.UUID][]league.Team, len(matchIDs))
	if len(matchIDs) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In("SELECT * FROM teams WHERE match_id IN (?) ORDER BY created_at ASC, rowid ASC", matchIDs)
	if err != nil {
		return nil, err
	}
	var teams []league.Team
	if err := s.db.SelectContext(ctx, &teams, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, t := range teams {
		result[t.MatchID] = append(result[t.MatchID], t)
	}
	return result, nil
}

func (s *MatchStore) UpdateTeamScore(ctx context.Context, q sqlx.ExecerContext, teamID uuid.UUID, score int) error {
	_, err := q.ExecContext(ctx, "UPDATE teams SET score = ? WHERE id = ?", score, teamID)
	return err
}

// DeleteTeam removes the team. Participations on it keep existing with no team.
func (s *MatchStore) DeleteTeam(ctx context.Context, q sqlx.ExecerContext, id uuid.UUID) error {
	_, err := q.ExecContext(ctx, "DELETE FROM teams WHERE id = ?", id)
	return err
}

// CreateParticipation inserts p unless the player already has a participation
// in the match. It reports whether a row was inserted.
func (s *MatchStore) CreateParticipation(ctx context.Context, q sqlx.ExtContext, p *league.Participation) (bool, error) {
	res, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO participations (id, match_id, player_id, team_id, status, waiting_since, created_at)
		VALUES (:id, :match_id, :player_id, :team_id, :status, :waiting_since, :created_at)
		ON CONFLICT (match_id, player_id) DO NOTHING`, p)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *MatchStore) GetParticipation(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*league.Participation, error) {
	var p league.Participation
	if err := sqlx.GetContext(ctx, q, &p, "SELECT * FROM participations WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MatchStore) GetPlayerParticipation(ctx context.Context, q sqlx.QueryerContext, matchID, playerID uuid.UUID) (*league.Participation, error) {
	var p league.Participation
	if err := sqlx.GetContext(ctx, q, &p, "SELECT * FROM participations WHERE match_id = ? AND player_id = ?", matchID, playerID); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetParticipants lists a match's participations with player profiles, in join order.
func (s *MatchStore) GetParticipants(ctx context.Context, q sqlx.QueryerContext, matchID uuid.UUID) ([]league.Participant, error) {
	var participants []league.Participant
	err := sqlx.SelectContext(ctx, q, &participants, `SELECT `+participantColumns+`
		FROM participations pa
		JOIN player_profiles p ON p.id = pa.player_id
		JOIN users u ON u.id = p.user_id
		WHERE pa.match_id = ?
		ORDER BY pa.created_at ASC, pa.rowid ASC`, matchID)
	return participants, err
}

func (s *MatchStore) GetParticipations(ctx context.Context, q sqlx.QueryerContext, matchID uuid.UUID) ([]league.Participation, error) {
	var participations []league.Participation
	err := sqlx.SelectContext(ctx, q, &participations, "SELECT * FROM participations WHERE match_id = ? ORDER BY created_at ASC, rowid ASC", matchID)
	return participations, err
}

// GetGoingParticipationIDs returns the confirmed participations in join order.
func (s *MatchStore) GetGoingParticipationIDs(ctx context.Context, q sqlx.QueryerContext, matchID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := sqlx.SelectContext(ctx, q, &ids, "SELECT id FROM participations WHERE match_id = ? AND status = ? ORDER BY created_at ASC, rowid ASC",
		matchID, league.StatusGoing)
	return ids, err
}

// CountGoing counts confirmed participations of a match, leaving out
// excludeID when it is not uuid.Nil.
func (s *MatchStore) CountGoing(ctx context.Context, q sqlx.QueryerContext, matchID, excludeID uuid.UUID) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count, "SELECT COUNT(*) FROM participations WHERE match_id = ? AND status = ? AND id != ?",
		matchID, league.StatusGoing, excludeID)
	return count, err
}

// ConfirmedCounts returns the number of going participations per match.
func (s *MatchStore) ConfirmedCounts(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	result := make(map[uuid.UUID]int, len(matchIDs))
	if len(matchIDs) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(`SELECT match_id, COUNT(*) AS confirmed FROM participations
		WHERE status = ? AND match_id IN (?) GROUP BY match_id`, league.StatusGoing, matchIDs)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		MatchID   uuid.UUID `db:"match_id"`
		Confirmed int       `db:"confirmed"`
	}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, r := range rows {
		result[r.MatchID] = r.Confirmed
	}
	return result, nil
}

// OldestWaiting returns the participation that has been on the waiting list
// the longest, or nil when nobody is waiting.
func (s *MatchStore) OldestWaiting(ctx context.Context, q sqlx.QueryerContext, matchID uuid.UUID) (*league.Participation, error) {
	var p league.Participation
	err := sqlx.GetContext(ctx, q, &p, `SELECT * FROM participations WHERE match_id = ? AND status = ?
		ORDER BY waiting_since ASC, created_at ASC, rowid ASC LIMIT 1`, matchID, league.StatusWaiting)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStatus sets the status. Entering the waiting list stamps
// waiting_since once; any other status clears it.
func (s *MatchStore) UpdateStatus(ctx context.Context, q sqlx.ExecerContext, id uuid.UUID, status league.Status, now time.Time) error {
	if status == league.StatusWaiting {
		_, err := q.ExecContext(ctx, "UPDATE participations SET status = ?, waiting_since = COALESCE(waiting_since, ?) WHERE id = ?", status, now, id)
		return err
	}
	_, err := q.ExecContext(ctx, "UPDATE participations SET status = ?, waiting_since = NULL WHERE id = ?", status, id)
	return err
}

func (s *MatchStore) SetTeam(ctx context.Context, q sqlx.ExecerContext, participationID uuid.UUID, teamID *uuid.UUID) error {
	_, err := q.ExecContext(ctx, "UPDATE participations SET team_id = ? WHERE id = ?", teamID, participationID)
	return err
}

// UpdateResult writes the attendance and stat fields of p.
func (s *MatchStore) UpdateResult(ctx context.Context, q sqlx.ExtContext, p *league.Participation) error {
	_, err := sqlx.NamedExecContext(ctx, q, `UPDATE participations SET
		actually_played = :actually_played,
		no_show = :no_show,
		goals = :goals,
		assists = :assists,
		is_mvp = :is_mvp,
		has_paid = :has_paid
		WHERE id = :id`, p)
	return err
}

// DeletePlayerParticipation removes the player's participation and reports
// whether there was one.
func (s *MatchStore) DeletePlayerParticipation(ctx context.Context, q sqlx.ExecerContext, matchID, playerID uuid.UUID) (bool, error) {
	res, err := q.ExecContext(ctx, "DELETE FROM participations WHERE match_id = ? AND player_id = ?", matchID, playerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// FinalizedParticipations returns the player's participations in finalized matches.
func (s *MatchStore) FinalizedParticipations(ctx context.Context, playerID uuid.UUID) ([]league.Participation, error) {
	var participations []league.Participation
	err := s.db.SelectContext(ctx, &participations, `SELECT pa.* FROM participations pa
		JOIN matches m ON m.id = pa.match_id
		WHERE pa.player_id = ? AND m.finalized = 1
		ORDER BY m.match_date ASC, m.match_time ASC`, playerID)
	return participations, err
}
