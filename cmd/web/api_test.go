package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/AdamBeresnev/goalit/internal/testutil"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := testutil.NewTestDB(t)
	app := newApp(database, scs.New(), nil)
	server := httptest.NewServer(app.newRouter())
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T, server *httptest.Server) *apiClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, server: server, http: &http.Client{Jar: jar}}
}

// do sends body as JSON and decodes a JSON answer into out when out is set.
func (c *apiClient) do(method, path string, body any, out any) int {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *apiClient) signup(username string) profileSummary {
	c.t.Helper()
	var profile profileSummary
	status := c.do(http.MethodPost, "/api/signup", map[string]string{
		"username":  username,
		"password":  "kickoff-2026",
		"password2": "kickoff-2026",
	}, &profile)
	require.Equal(c.t, http.StatusCreated, status)
	return profile
}

func TestAPIRequiresAuthentication(t *testing.T) {
	server := newTestServer(t)
	anon := newClient(t, server)

	var body map[string]string
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/api/matches", nil, &body))
	assert.Equal(t, "Authentication credentials were not provided.", body["detail"])

	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/login", map[string]string{"username": "x", "password": "y"}, nil))

	anon.signup("keeper")
	assert.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/api/matches", nil, nil))
	assert.Equal(t, http.StatusNoContent, anon.do(http.MethodPost, "/api/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/api/profile", nil, nil))

	var profile profileSummary
	assert.Equal(t, http.StatusOK, anon.do(http.MethodPost, "/api/login", map[string]string{"username": "keeper", "password": "kickoff-2026"}, &profile))
	assert.Equal(t, "keeper", profile.Username)
}

func TestAPIMatchFlow(t *testing.T) {
	server := newTestServer(t)
	organizer := newClient(t, server)
	organizer.signup("organizer")
	first := newClient(t, server)
	first.signup("first")
	second := newClient(t, server)
	second.signup("second")

	var match matchResponse
	require.Equal(t, http.StatusCreated, organizer.do(http.MethodPost, "/api/matches", map[string]any{
		"date":             "2026-06-20",
		"time":             "10:30",
		"location":         "Victoria Park",
		"price_per_player": "5",
		"max_players":      1,
	}, &match))
	assert.Equal(t, "FRIENDLY MATCH", match.Title)
	require.NotNil(t, match.PricePerPlayer)
	assert.Equal(t, "5.00", *match.PricePerPlayer)
	require.NotNil(t, match.CreatedBy)
	assert.Equal(t, "organizer", match.CreatedBy.Username)
	base := "/api/matches/" + match.ID.String()

	var joined participationResponse
	require.Equal(t, http.StatusOK, first.do(http.MethodPost, base+"/join", nil, &joined))
	assert.Equal(t, "going", string(joined.Status))
	require.Equal(t, http.StatusOK, second.do(http.MethodPost, base+"/join", map[string]string{"status": "going"}, &joined))
	assert.Equal(t, "waiting", string(joined.Status))

	var detail map[string]string
	assert.Equal(t, http.StatusBadRequest, organizer.do(http.MethodPost, base+"/leave", nil, &detail))
	assert.Equal(t, notRegisteredDetail, detail["detail"])
	assert.Equal(t, http.StatusBadRequest, first.do(http.MethodPost, base+"/join", map[string]string{"status": "waiting"}, nil))

	// The waiting player moves up when the confirmed one steps back
	require.Equal(t, http.StatusOK, first.do(http.MethodPost, base+"/set-status", map[string]string{"status": "maybe"}, &joined))
	assert.Equal(t, "maybe", string(joined.Status))
	var participants []participationResponse
	require.Equal(t, http.StatusOK, organizer.do(http.MethodGet, base+"/participants", nil, &participants))
	require.Len(t, participants, 2)
	statuses := map[string]string{}
	for _, p := range participants {
		statuses[p.Player.Username] = string(p.Status)
	}
	assert.Equal(t, map[string]string{"first": "maybe", "second": "going"}, statuses)

	var home, away teamSummary
	assert.Equal(t, http.StatusForbidden, first.do(http.MethodPost, base+"/teams", map[string]string{"name": "Rebels"}, nil))
	require.Equal(t, http.StatusCreated, organizer.do(http.MethodPost, base+"/teams", map[string]string{"name": "Bibs"}, &home))
	require.Equal(t, http.StatusCreated, organizer.do(http.MethodPost, base+"/teams", map[string]string{"name": "Skins"}, &away))
	require.Equal(t, http.StatusOK, organizer.do(http.MethodPost, base+"/randomize-teams", nil, nil))

	var secondID uuid.UUID
	for _, p := range participants {
		if p.Player.Username == "second" {
			secondID = p.ID
		}
	}
	var assigned participationResponse
	require.Equal(t, http.StatusOK, organizer.do(http.MethodPost, base+"/set-team", map[string]any{"participation_id": secondID, "team_id": away.ID}, &assigned))
	require.NotNil(t, assigned.Team)
	assert.Equal(t, "Skins", assigned.Team.Name)

	finalize := map[string]any{
		"team_scores": map[string]int{home.ID.String(): 4, away.ID.String(): 2},
		"attendance": map[string]any{
			secondID.String(): map[string]any{"played": true, "goals": 3, "is_mvp": true},
		},
	}
	assert.Equal(t, http.StatusForbidden, second.do(http.MethodPost, base+"/finalize", finalize, nil))
	require.Equal(t, http.StatusOK, organizer.do(http.MethodPost, base+"/finalize", finalize, &match))
	assert.True(t, match.FinalScore)
	assert.Equal(t, http.StatusBadRequest, organizer.do(http.MethodPost, base+"/finalize", finalize, nil))
	assert.Equal(t, http.StatusBadRequest, first.do(http.MethodPost, base+"/leave", nil, nil))

	var points map[string]any
	require.Equal(t, http.StatusOK, first.do(http.MethodGet, "/api/players/"+assigned.Player.ID.String()+"/points", nil, &points))
	assert.EqualValues(t, 100+3*30+30+40, points["points"])

	assert.Equal(t, http.StatusNotFound, organizer.do(http.MethodGet, "/api/matches/"+uuid.NewString(), nil, nil))
	assert.Equal(t, http.StatusNotFound, organizer.do(http.MethodGet, "/api/matches/not-a-uuid", nil, nil))
}

func TestAPIFinalizeSkipsInvalidScores(t *testing.T) {
	server := newTestServer(t)
	organizer := newClient(t, server)
	organizer.signup("organizer")

	var match matchResponse
	require.Equal(t, http.StatusCreated, organizer.do(http.MethodPost, "/api/matches", map[string]any{
		"date":     "2026-07-04",
		"time":     "18:00",
		"location": "Clapham Common",
	}, &match))
	base := "/api/matches/" + match.ID.String()

	var home, away teamSummary
	require.Equal(t, http.StatusCreated, organizer.do(http.MethodPost, base+"/teams", map[string]string{"name": "Bibs"}, &home))
	require.Equal(t, http.StatusCreated, organizer.do(http.MethodPost, base+"/teams", map[string]string{"name": "Skins"}, &away))

	finalize := map[string]any{
		"team_scores": map[string]any{home.ID.String(): "abc", away.ID.String(): 3},
	}
	require.Equal(t, http.StatusOK, organizer.do(http.MethodPost, base+"/finalize", finalize, &match))
	assert.True(t, match.FinalScore)

	scores := map[string]int{}
	for _, team := range match.Teams {
		scores[team.Name] = team.Score
	}
	assert.Equal(t, map[string]int{"Bibs": 0, "Skins": 3}, scores)
}

func TestAPIRejectsUnknownFields(t *testing.T) {
	server := newTestServer(t)
	client := newClient(t, server)
	client.signup("striker")

	var detail map[string]string
	status := client.do(http.MethodPost, "/api/matches", map[string]any{"date": "2026-06-20", "time": "10:30", "location": "Park", "pitch": 3}, &detail)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, detail["detail"], "invalid JSON body")
}
