package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AdamBeresnev/goalit/internal/httputil"
	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/middleware"
	"github.com/AdamBeresnev/goalit/internal/service"
	"github.com/AdamBeresnev/goalit/internal/video"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const notRegisteredDetail = "You were not registered for this match."

func (a *app) apiRoutes(r chi.Router) {
	r.Post("/login", a.apiLogin)
	r.Post("/signup", a.apiSignup)
	r.Post("/logout", a.apiLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAPIAuth)

		r.Get("/profile", a.apiGetProfile)
		r.Put("/profile", a.apiUpdateProfile)
		r.Get("/players/{id}/points", a.apiPlayerPoints)
		r.Get("/players/{id}/badges", a.apiPlayerBadges)
		r.Get("/badge-types", a.apiListBadgeTypes)
		r.Post("/badge-types", a.apiCreateBadgeType)

		r.Get("/matches", a.apiListMatches)
		r.Post("/matches", a.apiCreateMatch)
		r.Route("/matches/{id}", func(r chi.Router) {
			r.Get("/", a.apiGetMatch)
			r.Delete("/", a.apiDeleteMatch)
			r.Get("/participants", a.apiParticipants)
			r.Post("/join", a.apiJoin)
			r.Post("/leave", a.apiLeave)
			r.Post("/set-status", a.apiSetStatus)
			r.Post("/set-team", a.apiSetTeam)
			r.Post("/randomize-teams", a.apiRandomizeTeams)
			r.Post("/finalize", a.apiFinalize)
			r.Post("/teams", a.apiCreateTeam)
			r.Delete("/teams/{teamID}", a.apiDeleteTeam)
			r.Post("/badges", a.apiAwardBadge)
			r.Get("/comments", a.apiListComments)
			r.Post("/comments", a.apiAddComment)
			r.Get("/highlights", a.apiListHighlights)
			r.Post("/highlights", a.apiAddHighlight)
		})
	})
}

type profileSummary struct {
	ID                uuid.UUID       `json:"id"`
	User              uuid.UUID       `json:"user"`
	Username          string          `json:"username"`
	Nickname          string          `json:"nickname"`
	PreferredPosition league.Position `json:"preferred_position"`
	Bio               string          `json:"bio"`
}

func newProfileSummary(p *league.Profile) *profileSummary {
	if p == nil {
		return nil
	}
	return &profileSummary{
		ID:                p.ID,
		User:              p.UserID,
		Username:          p.Username,
		Nickname:          p.Nickname,
		PreferredPosition: p.Position,
		Bio:               p.Bio,
	}
}

type teamSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Score int       `json:"score"`
}

func newTeamSummaries(teams []league.Team) []teamSummary {
	out := make([]teamSummary, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamSummary{ID: t.ID, Name: t.Name, Score: t.Score})
	}
	return out
}

type matchResponse struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	Location       string          `json:"location"`
	PricePerPlayer *string         `json:"price_per_player"`
	Notes          string          `json:"notes"`
	MaxPlayers     int             `json:"max_players"`
	FinalScore     bool            `json:"final_score"`
	CreatedBy      *profileSummary `json:"created_by"`
	ConfirmedCount int             `json:"confirmed_count"`
	Teams          []teamSummary   `json:"teams"`
}

func newMatchResponse(data *service.MatchData) matchResponse {
	m := data.Match
	resp := matchResponse{
		ID:             m.ID,
		Title:          m.Title,
		Date:           m.Date,
		Time:           m.Time,
		Location:       m.Location,
		Notes:          m.Notes,
		MaxPlayers:     m.MaxPlayers,
		FinalScore:     m.Finalized,
		CreatedBy:      newProfileSummary(data.Creator),
		ConfirmedCount: data.ConfirmedCount,
		Teams:          newTeamSummaries(data.Teams),
	}
	if m.PricePerPlayerCents != nil {
		price := league.FormatPrice(*m.PricePerPlayerCents)
		resp.PricePerPlayer = &price
	}
	return resp
}

type participationResponse struct {
	ID             uuid.UUID      `json:"id"`
	Match          uuid.UUID      `json:"match"`
	Player         profileSummary `json:"player"`
	Team           *teamSummary   `json:"team"`
	Status         league.Status  `json:"status"`
	ActuallyPlayed bool           `json:"actually_played"`
	NoShow         bool           `json:"no_show"`
	Goals          int            `json:"goals"`
	Assists        int            `json:"assists"`
	IsMVP          bool           `json:"is_mvp"`
	HasPaid        bool           `json:"has_paid"`
}

func newParticipationResponse(p league.Participant, teams []league.Team) participationResponse {
	resp := participationResponse{
		ID:             p.ID,
		Match:          p.MatchID,
		Player:         *newProfileSummary(&p.Player),
		Status:         p.Status,
		ActuallyPlayed: p.ActuallyPlayed,
		NoShow:         p.NoShow,
		Goals:          p.Goals,
		Assists:        p.Assists,
		IsMVP:          p.IsMVP,
		HasPaid:        p.HasPaid,
	}
	if p.TeamID != nil {
		for _, t := range teams {
			if t.ID == *p.TeamID {
				resp.Team = &teamSummary{ID: t.ID, Name: t.Name, Score: t.Score}
				break
			}
		}
	}
	return resp
}

type matchListResponse struct {
	Count    int             `json:"count"`
	Page     int             `json:"page"`
	Pages    int             `json:"pages"`
	Next     *int            `json:"next"`
	Previous *int            `json:"previous"`
	Results  []matchResponse `json:"results"`
}

// writeParticipation answers with playerID's participation as it is now.
func (a *app) writeParticipation(w http.ResponseWriter, r *http.Request, matchID, playerID uuid.UUID) {
	data, err := a.matches.GetMatch(r.Context(), matchID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to get match", err)
		return
	}
	p, err := a.matches.GetParticipation(r.Context(), matchID, playerID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to get participation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newParticipationResponse(*p, data.Teams))
}

func (a *app) writeMatch(w http.ResponseWriter, r *http.Request, status int, matchID uuid.UUID) {
	data, err := a.matches.GetMatch(r.Context(), matchID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to get match", err)
		return
	}
	httputil.WriteJSON(w, status, newMatchResponse(data))
}

// apiMatchID writes a 404 and returns false when the id is malformed.
func apiMatchID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	matchID, err := pathID(r, "id", "match")
	if err != nil {
		httputil.WriteError(w, r, "Invalid match id", err)
		return uuid.Nil, false
	}
	return matchID, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		httputil.WriteDetail(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *app) apiLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := a.users.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		httputil.WriteDetail(w, r, http.StatusUnauthorized, "Invalid username or password.")
		return
	}
	if err != nil {
		httputil.WriteError(w, r, "Failed to log in", err)
		return
	}
	profile, err := a.users.EnsureProfile(r.Context(), user.ID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to load profile", err)
		return
	}
	if err := a.startSession(r, user.ID); err != nil {
		httputil.WriteError(w, r, "Failed to start session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newProfileSummary(profile))
}

type signupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

func (a *app) apiSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decode(w, r, &req) {
		return
	}
	user, profile, err := a.users.Signup(r.Context(), service.SignupInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.Password2,
	})
	if err != nil {
		httputil.WriteError(w, r, "Failed to sign up", err)
		return
	}
	if err := a.startSession(r, user.ID); err != nil {
		httputil.WriteError(w, r, "Failed to start session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newProfileSummary(profile))
}

func (a *app) apiLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context()); err != nil {
		httputil.WriteError(w, r, "Failed to log out", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) apiGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := a.players.GetProfile(r.Context(), currentProfile(r).ID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to get profile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newProfileSummary(profile))
}

type profileRequest struct {
	Nickname          string `json:"nickname"`
	PreferredPosition string `json:"preferred_position"`
	Bio               string `json:"bio"`
}

func (a *app) apiUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decode(w, r, &req) {
		return
	}
	profile, err := a.players.UpdateProfile(r.Context(), currentProfile(r).ID, service.ProfileInput{
		Nickname: req.Nickname,
		Position: req.PreferredPosition,
		Bio:      req.Bio,
	})
	if err != nil {
		httputil.WriteError(w, r, "Failed to update profile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newProfileSummary(profile))
}

func (a *app) apiPlayerPoints(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "id", "player")
	if err == nil {
		_, err = a.players.GetProfile(r.Context(), playerID)
	}
	if err != nil {
		httputil.WriteError(w, r, "Failed to get player", err)
		return
	}
	points, err := a.players.Points(r.Context(), playerID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to get points", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"player":  points.PlayerID,
		"matches": points.Matches,
		"points":  points.Total,
	})
}

type badgeTypeResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type badgeResponse struct {
	ID          uuid.UUID         `json:"id"`
	Player      uuid.UUID         `json:"player"`
	Badge       badgeTypeResponse `json:"badge"`
	Match       *uuid.UUID        `json:"match"`
	AwardedAt   time.Time         `json:"awarded_at"`
	PeriodStart *string           `json:"period_start"`
	PeriodEnd   *string           `json:"period_end"`
}

func newBadgeResponse(b league.AwardedBadge) badgeResponse {
	return badgeResponse{
		ID:          b.ID,
		Player:      b.PlayerID,
		Badge:       badgeTypeResponse{Code: b.Type.Code, Name: b.Type.Name, Description: b.Type.Description},
		Match:       b.MatchID,
		AwardedAt:   b.AwardedAt,
		PeriodStart: b.PeriodStart,
		PeriodEnd:   b.PeriodEnd,
	}
}

func (a *app) apiPlayerBadges(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "id", "player")
	if err != nil {
		httputil.WriteError(w, r, "Invalid player id", err)
		return
	}
	badges, err := a.badges.ListPlayerBadges(r.Context(), playerID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to get badges", err)
		return
	}
	out := make([]badgeResponse, 0, len(badges))
	for _, b := range badges {
		out = append(out, newBadgeResponse(b))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (a *app) apiListBadgeTypes(w http.ResponseWriter, r *http.Request) {
	types, err := a.badges.ListBadgeTypes(r.Context())
	if err != nil {
		httputil.WriteError(w, r, "Failed to list badge types", err)
		return
	}
	out := make([]badgeTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, badgeTypeResponse{Code: t.Code, Name: t.Name, Description: t.Description})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (a *app) apiCreateBadgeType(w http.ResponseWriter, r *http.Request) {
	var req badgeTypeResponse
	if !decode(w, r, &req) {
		return
	}
	t, err := a.badges.CreateBadgeType(r.Context(), service.BadgeTypeInput{Code: req.Code, Name: req.Name, Description: req.Description})
	if err != nil {
		httputil.WriteError(w, r, "Failed to create badge type", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, badgeTypeResponse{Code: t.Code, Name: t.Name, Description: t.Description})
}

func (a *app) apiListMatches(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	list, err := a.matches.ListMatches(r.Context(), page)
	if err != nil {
		httputil.WriteError(w, r, "Failed to list matches", err)
		return
	}
	resp := matchListResponse{Page: list.Page, Pages: list.TotalPages, Count: list.Total, Results: make([]matchResponse, 0, len(list.Matches))}
	if list.HasNext() {
		next := list.Page + 1
		resp.Next = &next
	}
	if list.HasPrevious() {
		prev := list.Page - 1
		resp.Previous = &prev
	}
	for i := range list.Matches {
		resp.Results = append(resp.Results, newMatchResponse(&list.Matches[i]))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type matchRequest struct {
	Title          string       `json:"title"`
	Date           string       `json:"date"`
	Time           string       `json:"time"`
	Location       string       `json:"location"`
	PricePerPlayer *json.Number `json:"price_per_player"`
	Notes          string       `json:"notes"`
	MaxPlayers     int          `json:"max_players"`
}

func (a *app) apiCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !decode(w, r, &req) {
		return
	}
	in := service.MatchInput{
		Title:      req.Title,
		Date:       req.Date,
		Time:       req.Time,
		Location:   req.Location,
		Notes:      req.Notes,
		MaxPlayers: req.MaxPlayers,
	}
	if req.PricePerPlayer != nil {
		in.PricePerPlayer = req.PricePerPlayer.String()
	}
	match, err := a.matches.CreateMatch(r.Context(), currentProfile(r).ID, in)
	if err != nil {
		httputil.WriteError(w, r, "Failed to create match", err)
		return
	}
	a.writeMatch(w, r, http.StatusCreated, match.ID)
}

func (a *app) apiGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	a.writeMatch(w, r, http.StatusOK, matchID)
}

func (a *app) apiDeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	if err := a.matches.DeleteMatch(r.Context(), matchID, currentProfile(r).ID); err != nil {
		httputil.WriteError(w, r, "Failed to delete match", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) apiParticipants(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	detail, err := a.matches.GetMatchDetail(r.Context(), matchID, currentProfile(r).ID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to get participants", err)
		return
	}
	out := make([]participationResponse, 0, len(detail.Participants))
	for _, p := range detail.Participants {
		out = append(out, newParticipationResponse(p, detail.Teams))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (a *app) apiJoin(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	req := statusRequest{Status: string(league.StatusGoing)}
	if !decode(w, r, &req) {
		return
	}
	playerID := currentProfile(r).ID
	if _, err := a.participation.Join(r.Context(), matchID, playerID, req.Status); err != nil {
		httputil.WriteError(w, r, "Failed to join match", err)
		return
	}
	a.writeParticipation(w, r, matchID, playerID)
}

func (a *app) apiLeave(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	removed, err := a.participation.Leave(r.Context(), matchID, currentProfile(r).ID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to leave match", err)
		return
	}
	if !removed {
		httputil.WriteDetail(w, r, http.StatusBadRequest, notRegisteredDetail)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) apiSetStatus(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	playerID := currentProfile(r).ID
	if _, err := a.participation.SetStatus(r.Context(), matchID, playerID, req.Status); err != nil {
		httputil.WriteError(w, r, "Failed to update status", err)
		return
	}
	a.writeParticipation(w, r, matchID, playerID)
}

type setTeamRequest struct {
	ParticipationID uuid.UUID  `json:"participation_id"`
	TeamID          *uuid.UUID `json:"team_id"`
}

func (a *app) apiSetTeam(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	var req setTeamRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := a.teams.ManualAssign(r.Context(), matchID, currentProfile(r).ID, req.ParticipationID, req.TeamID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to assign team", err)
		return
	}
	a.writeParticipation(w, r, matchID, p.PlayerID)
}

func (a *app) apiRandomizeTeams(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	assignment, err := a.teams.RandomizeTeams(r.Context(), matchID, currentProfile(r).ID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to randomize teams", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"teams": assignment})
}

type attendanceRequest struct {
	Played  bool  `json:"played"`
	NoShow  bool  `json:"no_show"`
	Goals   *int  `json:"goals"`
	Assists *int  `json:"assists"`
	IsMVP   *bool `json:"is_mvp"`
	HasPaid *bool `json:"has_paid"`
}

type finalizeRequest struct {
	TeamScores map[uuid.UUID]json.RawMessage   `json:"team_scores"`
	Attendance map[uuid.UUID]attendanceRequest `json:"attendance"`
}

func (a *app) apiFinalize(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	var req finalizeRequest
	if !decode(w, r, &req) {
		return
	}
	in := service.FinalizeInput{
		TeamScores: wholeScores(req.TeamScores),
		Attendance: make(map[uuid.UUID]service.AttendanceRecord, len(req.Attendance)),
	}
	for id, rec := range req.Attendance {
		in.Attendance[id] = service.AttendanceRecord{
			Played:  rec.Played,
			NoShow:  rec.NoShow,
			Goals:   rec.Goals,
			Assists: rec.Assists,
			MVP:     rec.IsMVP,
			Paid:    rec.HasPaid,
		}
	}
	if _, err := a.finalize.Finalize(r.Context(), matchID, currentProfile(r).ID, in); err != nil {
		httputil.WriteError(w, r, "Failed to finalize match", err)
		return
	}
	a.writeMatch(w, r, http.StatusOK, matchID)
}

// wholeScores drops scores that are not integers so those teams keep their
// prior score.
func wholeScores(raw map[uuid.UUID]json.RawMessage) map[uuid.UUID]int {
	scores := make(map[uuid.UUID]int, len(raw))
	for id, value := range raw {
		if string(value) == "null" {
			continue
		}
		var score int
		if err := json.Unmarshal(value, &score); err != nil {
			continue
		}
		scores[id] = score
	}
	return scores
}

type teamRequest struct {
	Name string `json:"name"`
}

func (a *app) apiCreateTeam(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	var req teamRequest
	if !decode(w, r, &req) {
		return
	}
	team, err := a.teams.CreateTeam(r.Context(), matchID, currentProfile(r).ID, req.Name)
	if err != nil {
		httputil.WriteError(w, r, "Failed to create team", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, teamSummary{ID: team.ID, Name: team.Name, Score: team.Score})
}

func (a *app) apiDeleteTeam(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	teamID, err := pathID(r, "teamID", "team")
	if err == nil {
		err = a.teams.DeleteTeam(r.Context(), matchID, currentProfile(r).ID, teamID)
	}
	if err != nil {
		httputil.WriteError(w, r, "Failed to delete team", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type awardRequest struct {
	PlayerID    uuid.UUID `json:"player_id"`
	BadgeCode   string    `json:"badge_code"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
}

func (a *app) apiAwardBadge(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	var req awardRequest
	if !decode(w, r, &req) {
		return
	}
	badge, err := a.badges.AwardBadge(r.Context(), matchID, currentProfile(r).ID, service.AwardInput(req))
	if err != nil {
		httputil.WriteError(w, r, "Failed to award badge", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newBadgeResponse(*badge))
}

type commentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Match     uuid.UUID       `json:"match"`
	Author    *profileSummary `json:"author"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"created_at"`
}

func newCommentResponse(c service.CommentView) commentResponse {
	return commentResponse{ID: c.ID, Match: c.MatchID, Author: newProfileSummary(c.Author), Text: c.Text, CreatedAt: c.CreatedAt}
}

func (a *app) apiListComments(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	if _, err := a.matches.GetMatch(r.Context(), matchID); err != nil {
		httputil.WriteError(w, r, "Failed to get match", err)
		return
	}
	comments, err := a.annotations.ListComments(r.Context(), matchID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to list comments", err)
		return
	}
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, newCommentResponse(c))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (a *app) apiAddComment(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	var req commentRequest
	if !decode(w, r, &req) {
		return
	}
	profile := currentProfile(r)
	comment, err := a.annotations.AddComment(r.Context(), matchID, profile.ID, req.Text)
	if err != nil {
		httputil.WriteError(w, r, "Failed to add comment", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newCommentResponse(service.CommentView{Comment: *comment, Author: profile}))
}

type highlightResponse struct {
	ID          uuid.UUID       `json:"id"`
	Match       uuid.UUID       `json:"match"`
	AddedBy     *profileSummary `json:"added_by"`
	MediaLink   *string         `json:"media_link"`
	Description string          `json:"description"`
	Embed       video.Embed     `json:"embed"`
	CreatedAt   time.Time       `json:"created_at"`
}

func newHighlightResponse(h service.HighlightView) highlightResponse {
	return highlightResponse{
		ID:          h.ID,
		Match:       h.MatchID,
		AddedBy:     newProfileSummary(h.Owner),
		MediaLink:   h.MediaLink,
		Description: h.Description,
		Embed:       h.Embed,
		CreatedAt:   h.CreatedAt,
	}
}

func (a *app) apiListHighlights(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	if _, err := a.matches.GetMatch(r.Context(), matchID); err != nil {
		httputil.WriteError(w, r, "Failed to get match", err)
		return
	}
	highlights, err := a.annotations.ListHighlights(r.Context(), matchID)
	if err != nil {
		httputil.WriteError(w, r, "Failed to list highlights", err)
		return
	}
	out := make([]highlightResponse, 0, len(highlights))
	for _, h := range highlights {
		out = append(out, newHighlightResponse(h))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

type highlightRequest struct {
	MediaLink   string `json:"media_link"`
	Description string `json:"description"`
}

func (a *app) apiAddHighlight(w http.ResponseWriter, r *http.Request) {
	matchID, ok := apiMatchID(w, r)
	if !ok {
		return
	}
	var req highlightRequest
	if !decode(w, r, &req) {
		return
	}
	highlight, err := a.annotations.AddHighlight(r.Context(), matchID, currentProfile(r).ID, req.MediaLink, req.Description)
	if err != nil {
		httputil.WriteError(w, r, "Failed to add highlight", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newHighlightResponse(*highlight))
}
