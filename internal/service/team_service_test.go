package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/AdamBeresnev/goalit/internal/testutil"
	"github.com/AdamBeresnev/goalit/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomizeTeamsBalancesConfirmedPlayers(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	matches := store.NewMatchStore(db)
	participation := NewParticipationService(db, matches)
	teams := NewTeamService(db, matches)

	players := testutil.CreatePlayers(t, db, "player", 6)
	organizer := players[0]
	match := testutil.CreateMatch(t, db, organizer.ID, 10)
	for _, p := range players[:5] {
		_, err := participation.Join(ctx, match.ID, p.ID, "going")
		require.NoError(t, err)
	}
	maybe, err := participation.Join(ctx, match.ID, players[5].ID, "maybe")
	require.NoError(t, err)

	red, err := teams.CreateTeam(ctx, match.ID, organizer.ID, "Red")
	require.NoError(t, err)
	blue, err := teams.CreateTeam(ctx, match.ID, organizer.ID, "Blue")
	require.NoError(t, err)

	assignment, err := teams.RandomizeTeams(ctx, match.ID, organizer.ID)
	require.NoError(t, err)
	assert.Len(t, assignment[red.ID], 3)
	assert.Len(t, assignment[blue.ID], 2)

	participations, err := matches.GetParticipations(ctx, db, match.ID)
	require.NoError(t, err)
	onTeam := map[uuid.UUID]int{}
	for _, p := range participations {
		if p.ID == maybe.Participation.ID {
			assert.Nil(t, p.TeamID, "players who are not going keep no team")
			continue
		}
		require.NotNil(t, p.TeamID)
		onTeam[*p.TeamID]++
	}
	assert.Equal(t, 3, onTeam[red.ID])
	assert.Equal(t, 2, onTeam[blue.ID])
}

func TestRandomizeTeamsAlternatesShuffledOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	matches := store.NewMatchStore(db)
	participation := NewParticipationService(db, matches)
	teams := NewTeamService(db, matches)
	// Reverse instead of shuffling so the deal order is known
	teams.shuffle = func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}

	players := testutil.CreatePlayers(t, db, "player", 4)
	match := testutil.CreateMatch(t, db, players[0].ID, 10)
	var ids []uuid.UUID
	for _, p := range players {
		res, err := participation.Join(ctx, match.ID, p.ID, "going")
		require.NoError(t, err)
		ids = append(ids, res.Participation.ID)
	}
	first := testutil.CreateTeam(t, db, match.ID, "First")
	second := testutil.CreateTeam(t, db, match.ID, "Second")

	assignment, err := teams.RandomizeTeams(ctx, match.ID, players[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ids[3], ids[1]}, assignment[first.ID])
	assert.Equal(t, []uuid.UUID{ids[2], ids[0]}, assignment[second.ID])
}

func TestRandomizeTeamsNeedsTwoTeams(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	matches := store.NewMatchStore(db)
	participation := NewParticipationService(db, matches)
	teams := NewTeamService(db, matches)

	organizer := testutil.CreatePlayer(t, db, "organizer")
	match := testutil.CreateMatch(t, db, organizer.ID, 10)
	_, err := participation.Join(ctx, match.ID, organizer.ID, "going")
	require.NoError(t, err)
	testutil.CreateTeam(t, db, match.ID, "Only")

	_, err = teams.RandomizeTeams(ctx, match.ID, organizer.ID)
	assert.ErrorIs(t, err, league.ErrInsufficientTeams)
}

func TestRandomizeTeamsNeedsConfirmedPlayers(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	matches := store.NewMatchStore(db)
	participation := NewParticipationService(db, matches)
	teams := NewTeamService(db, matches)

	players := testutil.CreatePlayers(t, db, "player", 2)
	match := testutil.CreateMatch(t, db, players[0].ID, 10)
	_, err := participation.Join(ctx, match.ID, players[1].ID, "maybe")
	require.NoError(t, err)
	testutil.CreateTeam(t, db, match.ID, "A")
	testutil.CreateTeam(t, db, match.ID, "B")

	_, err = teams.RandomizeTeams(ctx, match.ID, players[0].ID)
	assert.ErrorIs(t, err, league.ErrNoPlayers)
}

func TestTeamActionsRequireOrganizer(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	matches := store.NewMatchStore(db)
	participation := NewParticipationService(db, matches)
	teams := NewTeamService(db, matches)

	players := testutil.CreatePlayers(t, db, "player", 3)
	organizer, other := players[0], players[1]
	match := testutil.CreateMatch(t, db, organizer.ID, 10)
	res, err := participation.Join(ctx, match.ID, players[2].ID, "going")
	require.NoError(t, err)
	_, err = participation.Join(ctx, match.ID, other.ID, "going")
	require.NoError(t, err)
	a := testutil.CreateTeam(t, db, match.ID, "A")
	testutil.CreateTeam(t, db, match.ID, "B")

	var permErr *league.PermissionError

	_, err = teams.RandomizeTeams(ctx, match.ID, other.ID)
	require.ErrorAs(t, err, &permErr)

	_, err = teams.ManualAssign(ctx, match.ID, other.ID, res.Participation.ID, &a.ID)
	require.ErrorAs(t, err, &permErr)

	_, err = teams.CreateTeam(ctx, match.ID, other.ID, "C")
	require.ErrorAs(t, err, &permErr)

	participations, err := matches.GetParticipations(ctx, db, match.ID)
	require.NoError(t, err)
	for _, p := range participations {
		assert.Nil(t, p.TeamID)
	}
	existing, err := matches.GetTeams(ctx, db, match.ID)
	require.NoError(t, err)
	assert.Len(t, existing, 2)
}

func TestManualAssign(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	matches := store.NewMatchStore(db)
	participation := NewParticipationService(db, matches)
	teams := NewTeamService(db, matches)

	organizer := testutil.CreatePlayer(t, db, "organizer")
	match := testutil.CreateMatch(t, db, organizer.ID, 10)
	otherMatch := testutil.CreateMatch(t, db, organizer.ID, 10)
	res, err := participation.Join(ctx, match.ID, organizer.ID, "maybe")
	require.NoError(t, err)
	team := testutil.CreateTeam(t, db, match.ID, "A")
	foreignTeam := testutil.CreateTeam(t, db, otherMatch.ID, "B")

	assigned, err := teams.ManualAssign(ctx, match.ID, organizer.ID, res.Participation.ID, &team.ID)
	require.NoError(t, err)
	assert.Equal(t, &team.ID, assigned.TeamID)

	_, err = teams.ManualAssign(ctx, match.ID, organizer.ID, res.Participation.ID, &foreignTeam.ID)
	var validationErr *league.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = teams.ManualAssign(ctx, match.ID, organizer.ID, uuid.New(), &team.ID)
	var notFound *league.NotFoundError
	require.ErrorAs(t, err, &notFound)

	stored, err := matches.GetParticipation(ctx, db, res.Participation.ID)
	require.NoError(t, err)
	assert.Equal(t, utils.Ptr(team.ID), stored.TeamID)

	cleared, err := teams.ManualAssign(ctx, match.ID, organizer.ID, res.Participation.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.TeamID)
}

func TestDeleteTeamKeepsPlayers(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	matches := store.NewMatchStore(db)
	participation := NewParticipationService(db, matches)
	teams := NewTeamService(db, matches)

	organizer := testutil.CreatePlayer(t, db, "organizer")
	match := testutil.CreateMatch(t, db, organizer.ID, 10)
	res, err := participation.Join(ctx, match.ID, organizer.ID, "going")
	require.NoError(t, err)
	team := testutil.CreateTeam(t, db, match.ID, "A")
	_, err = teams.ManualAssign(ctx, match.ID, organizer.ID, res.Participation.ID, &team.ID)
	require.NoError(t, err)

	require.NoError(t, teams.DeleteTeam(ctx, match.ID, organizer.ID, team.ID))

	stored, err := matches.GetParticipation(ctx, db, res.Participation.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.TeamID)
}

func TestCreateTeamValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	teams := NewTeamService(db, store.NewMatchStore(db))

	organizer := testutil.CreatePlayer(t, db, "organizer")
	match := testutil.CreateMatch(t, db, organizer.ID, 10)

	var validationErr *league.ValidationError
	_, err := teams.CreateTeam(ctx, match.ID, organizer.ID, "   ")
	assert.ErrorAs(t, err, &validationErr)

	_, err = teams.CreateTeam(ctx, match.ID, organizer.ID, "A name that is far too long to fit on any scoreboard")
	assert.ErrorAs(t, err, &validationErr)
}
