// Package testutil builds throwaway league databases for tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/AdamBeresnev/goalit/internal/db"
	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
// An on-disk file is used so that every pooled connection sees the same data.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

// CreatePlayer inserts a user with a profile and returns the profile.
func CreatePlayer(t *testing.T, database *sqlx.DB, username string) *league.Profile {
	t.Helper()

	userID := uuid.New()
	_, err := database.Exec("INSERT INTO users (id, username, email, created_at) VALUES (?, ?, ?, ?)",
		userID, username, username+"@example.com", time.Now().UTC())
	require.NoError(t, err)

	profile := &league.Profile{
		ID:       uuid.New(),
		UserID:   userID,
		Position: league.PositionAny,
		Username: username,
	}
	_, err = database.Exec("INSERT INTO player_profiles (id, user_id, preferred_position) VALUES (?, ?, ?)",
		profile.ID, profile.UserID, profile.Position)
	require.NoError(t, err)
	return profile
}

// CreatePlayers inserts n players named prefix1..prefixN.
func CreatePlayers(t *testing.T, database *sqlx.DB, prefix string, n int) []*league.Profile {
	t.Helper()

	players := make([]*league.Profile, n)
	for i := range players {
		players[i] = CreatePlayer(t, database, fmt.Sprintf("%s%d", prefix, i+1))
	}
	return players
}

// CreateMatch inserts an open match organized by organizerID.
func CreateMatch(t *testing.T, database *sqlx.DB, organizerID uuid.UUID, maxPlayers int) *league.Match {
	t.Helper()

	match := &league.Match{
		ID:         uuid.New(),
		Title:      league.DefaultMatchTitle,
		Date:       "2026-05-02",
		Time:       "18:30",
		Location:   "Riverside Park",
		MaxPlayers: maxPlayers,
		CreatedBy:  &organizerID,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := database.NamedExec(`INSERT INTO matches (id, title, match_date, match_time, location, notes, max_players, created_by, finalized, created_at)
		VALUES (:id, :title, :match_date, :match_time, :location, :notes, :max_players, :created_by, :finalized, :created_at)`, match)
	require.NoError(t, err)
	return match
}

// CreateTeam inserts a team into a match.
func CreateTeam(t *testing.T, database *sqlx.DB, matchID uuid.UUID, name string) *league.Team {
	t.Helper()

	team := &league.Team{ID: uuid.New(), MatchID: matchID, Name: name, CreatedAt: time.Now().UTC()}
	_, err := database.Exec("INSERT INTO teams (id, match_id, name, score, created_at) VALUES (?, ?, ?, 0, ?)",
		team.ID, team.MatchID, team.Name, team.CreatedAt)
	require.NoError(t, err)
	return team
}
