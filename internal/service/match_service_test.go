package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/AdamBeresnev/goalit/internal/testutil"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatchService(t *testing.T) (*sqlx.DB, *MatchService) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return db, NewMatchService(db, store.NewMatchStore(db), store.NewProfileStore(db))
}

func TestCreateMatchDefaults(t *testing.T) {
	db, svc := newMatchService(t)
	ctx := context.Background()
	organizer := testutil.CreatePlayer(t, db, "organizer")

	match, err := svc.CreateMatch(ctx, organizer.ID, MatchInput{
		Date:           "2026-06-14",
		Time:           "19:00:00",
		Location:       "Hackney Marshes",
		PricePerPlayer: "6.5",
	})
	require.NoError(t, err)
	assert.Equal(t, league.DefaultMatchTitle, match.Title)
	assert.Equal(t, league.DefaultMaxPlayers, match.MaxPlayers)
	assert.Equal(t, "19:00", match.Time)
	require.NotNil(t, match.PricePerPlayerCents)
	assert.Equal(t, int64(650), *match.PricePerPlayerCents)
	assert.True(t, match.IsOrganizer(organizer.ID))

	data, err := svc.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	require.NotNil(t, data.Creator)
	assert.Equal(t, organizer.ID, data.Creator.ID)
	assert.Equal(t, 0, data.ConfirmedCount)
}

func TestCreateMatchValidation(t *testing.T) {
	db, svc := newMatchService(t)
	organizer := testutil.CreatePlayer(t, db, "organizer")

	tests := []struct {
		name  string
		input MatchInput
	}{
		{"missing location", MatchInput{Date: "2026-06-14", Time: "19:00"}},
		{"bad date", MatchInput{Date: "14/06/2026", Time: "19:00", Location: "Park"}},
		{"bad time", MatchInput{Date: "2026-06-14", Time: "7pm", Location: "Park"}},
		{"negative capacity", MatchInput{Date: "2026-06-14", Time: "19:00", Location: "Park", MaxPlayers: -1}},
		{"bad price", MatchInput{Date: "2026-06-14", Time: "19:00", Location: "Park", PricePerPlayer: "1.999"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMatch(context.Background(), organizer.ID, tt.input)
			var validationErr *league.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestListMatchesPagesLatestFirst(t *testing.T) {
	db, svc := newMatchService(t)
	ctx := context.Background()
	organizer := testutil.CreatePlayer(t, db, "organizer")

	for day := 1; day <= PageSize+5; day++ {
		_, err := svc.CreateMatch(ctx, organizer.ID, MatchInput{
			Date:     fmt.Sprintf("2026-03-%02d", day),
			Time:     "18:00",
			Location: "Park",
		})
		require.NoError(t, err)
	}

	first, err := svc.ListMatches(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first.Matches, PageSize)
	assert.Equal(t, 2, first.TotalPages)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())
	assert.Equal(t, "2026-03-25", first.Matches[0].Match.Date)

	last, err := svc.ListMatches(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, last.Page)
	assert.Len(t, last.Matches, 5)
	assert.Equal(t, "2026-03-01", last.Matches[4].Match.Date)
}

func TestGetMatchDetail(t *testing.T) {
	db, svc := newMatchService(t)
	ctx := context.Background()
	matches := store.NewMatchStore(db)
	lifecycle := NewParticipationService(db, matches)

	players := testutil.CreatePlayers(t, db, "player", 3)
	match := testutil.CreateMatch(t, db, players[0].ID, 2)
	testutil.CreateTeam(t, db, match.ID, "Bibs")
	for _, p := range players {
		_, err := lifecycle.Join(ctx, match.ID, p.ID, "going")
		require.NoError(t, err)
	}

	detail, err := svc.GetMatchDetail(ctx, match.ID, players[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.ConfirmedCount)
	assert.Len(t, detail.Teams, 1)
	require.Len(t, detail.Participants, 3)
	assert.Equal(t, "player1", detail.Participants[0].Player.Username)
	require.NotNil(t, detail.Own)
	assert.Equal(t, league.StatusWaiting, detail.Own.Status)

	outsider := testutil.CreatePlayer(t, db, "outsider")
	detail, err = svc.GetMatchDetail(ctx, match.ID, outsider.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Own)

	_, err = svc.GetMatchDetail(ctx, uuid.New(), outsider.ID)
	var notFound *league.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDeleteMatchCascades(t *testing.T) {
	db, svc := newMatchService(t)
	ctx := context.Background()
	matches := store.NewMatchStore(db)
	lifecycle := NewParticipationService(db, matches)

	players := testutil.CreatePlayers(t, db, "player", 2)
	match := testutil.CreateMatch(t, db, players[0].ID, 10)
	testutil.CreateTeam(t, db, match.ID, "A")
	_, err := lifecycle.Join(ctx, match.ID, players[1].ID, "going")
	require.NoError(t, err)

	err = svc.DeleteMatch(ctx, match.ID, players[1].ID)
	var permErr *league.PermissionError
	require.ErrorAs(t, err, &permErr)

	require.NoError(t, svc.DeleteMatch(ctx, match.ID, players[0].ID))

	var remaining int
	require.NoError(t, db.Get(&remaining, "SELECT (SELECT COUNT(*) FROM teams) + (SELECT COUNT(*) FROM participations)"))
	assert.Zero(t, remaining)
}
