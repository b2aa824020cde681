package main

import (
	"net/url"
	"testing"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFinalizeForm(t *testing.T) {
	home, away := uuid.New(), uuid.New()
	scorer, absent := uuid.New(), uuid.New()

	form := url.Values{}
	form.Set("score_"+home.String(), "3")
	form.Set("score_"+away.String(), "")
	form.Set("played_"+scorer.String(), "on")
	form.Set("goals_"+scorer.String(), "2")
	form.Set("assists_"+scorer.String(), "")
	form.Set("mvp_"+scorer.String(), "on")
	form.Set("no_show_"+absent.String(), "on")

	in, err := parseFinalizeForm(form)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{home: 3}, in.TeamScores)

	require.Contains(t, in.Attendance, scorer)
	rec := in.Attendance[scorer]
	assert.True(t, rec.Played)
	assert.False(t, rec.NoShow)
	require.NotNil(t, rec.Goals)
	assert.Equal(t, 2, *rec.Goals)
	assert.Nil(t, rec.Assists)
	assert.True(t, *rec.MVP)
	assert.False(t, *rec.Paid)

	require.Contains(t, in.Attendance, absent)
	assert.True(t, in.Attendance[absent].NoShow)
	assert.False(t, in.Attendance[absent].Played)
}

func TestParseFinalizeFormRejectsGarbage(t *testing.T) {
	for _, form := range []url.Values{
		{"score_not-a-uuid": {"1"}},
		{"played_42": {"on"}},
		{"goals_" + uuid.NewString(): {"1.5"}},
	} {
		_, err := parseFinalizeForm(form)
		var validationErr *league.ValidationError
		assert.ErrorAs(t, err, &validationErr, form.Encode())
	}
}

func TestParseFinalizeFormSkipsInvalidScores(t *testing.T) {
	home, away := uuid.New(), uuid.New()
	form := url.Values{
		"score_" + home.String(): {"abc"},
		"score_" + away.String(): {"3"},
	}

	in, err := parseFinalizeForm(form)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{away: 3}, in.TeamScores)
}

func TestMatchInputFromForm(t *testing.T) {
	in, err := matchInputFromForm(url.Values{"location": {" Pitch 3 "}, "max_players": {"10"}})
	require.NoError(t, err)
	assert.Equal(t, "Pitch 3", in.Location)
	assert.Equal(t, 10, in.MaxPlayers)

	_, err = matchInputFromForm(url.Values{"max_players": {"ten"}})
	assert.Error(t, err)
}
