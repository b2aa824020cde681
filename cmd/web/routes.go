package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/goalit/internal/httputil"
	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/middleware"
	"github.com/AdamBeresnev/goalit/internal/service"
	"github.com/AdamBeresnev/goalit/views"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"
)

func (a *app) htmlRoutes(r chi.Router) {
	r.Get("/login", a.loginPage)
	r.Post("/login", a.login)
	r.Get("/signup", a.signupPage)
	r.Post("/signup", a.signup)
	r.Post("/logout", a.logout)
	r.Get("/auth/{provider}", a.beginAuth)
	r.Get("/auth/{provider}/callback", a.completeAuth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", a.index)
		r.Get("/matches/new", a.newMatchPage)
		r.Post("/matches", a.createMatch)
		r.Get("/profile", a.ownProfile)
		r.Post("/profile", a.updateProfile)
		r.Get("/players/{id}", a.playerProfile)

		r.Route("/matches/{id}", func(r chi.Router) {
			r.Get("/", a.matchDetail)
			r.Post("/join", a.joinMatch)
			r.Post("/leave", a.leaveMatch)
			r.Post("/set-status", a.setStatus)
			r.Post("/set-team", a.setTeam)
			r.Post("/randomize-teams", a.randomizeTeams)
			r.Post("/finalize", a.finalizeMatch)
			r.Post("/teams", a.createTeam)
			r.Post("/teams/{teamID}/delete", a.deleteTeam)
			r.Post("/comments", a.addComment)
			r.Post("/highlights", a.addHighlight)
			r.Post("/badges", a.awardBadge)
			r.Post("/delete", a.deleteMatch)
		})
	})
}

func matchURL(id uuid.UUID) string {
	return "/matches/" + id.String()
}

func (a *app) flash(r *http.Request, level httputil.FlashLevel, msg string) {
	httputil.PutFlash(a.sessions, r.Context(), level, msg)
}

// fail turns rule violations into a flash on the page the user came from.
// Anything else becomes an error page.
func (a *app) fail(w http.ResponseWriter, r *http.Request, back, msg string, err error) {
	switch httputil.StatusFor(err) {
	case http.StatusBadRequest, http.StatusForbidden:
		log.Ctx(r.Context()).Warn().Err(err).Msg(msg)
		a.flash(r, httputil.FlashError, capitalize(err.Error()))
		http.Redirect(w, r, back, http.StatusSeeOther)
	default:
		httputil.Error(w, r, msg, err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// matchAction parses the match id and the form of a POST under /matches/{id}.
func (a *app) matchAction(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	matchID, err := pathID(r, "id", "match")
	if err != nil {
		httputil.NotFound(w, r, "Match not found", err)
		return uuid.Nil, false
	}
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, r, "Invalid form data", err)
		return uuid.Nil, false
	}
	return matchID, true
}

func (a *app) loginPage(w http.ResponseWriter, r *http.Request) {
	if currentProfile(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	views.Render(w, r, views.LoginPage(a.page(r), a.providers, "", ""))
}

func (a *app) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, r, "Invalid form data", err)
		return
	}
	username := r.PostForm.Get("username")
	user, err := a.users.Authenticate(r.Context(), username, r.PostForm.Get("password"))
	if errors.Is(err, service.ErrInvalidCredentials) {
		views.RenderStatus(w, r, http.StatusOK, views.LoginPage(a.page(r), a.providers, username, "Please enter a correct username and password."))
		return
	}
	if err != nil {
		httputil.Error(w, r, "Failed to log in", err)
		return
	}
	if err := a.startSession(r, user.ID); err != nil {
		httputil.InternalServerError(w, r, "Failed to start session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *app) startSession(r *http.Request, userID uuid.UUID) error {
	if err := a.sessions.RenewToken(r.Context()); err != nil {
		return err
	}
	a.sessions.Put(r.Context(), middleware.SessionUserKey, userID.String())
	return nil
}

func (a *app) signupPage(w http.ResponseWriter, r *http.Request) {
	views.Render(w, r, views.SignupPage(a.page(r), "", "", ""))
}

func (a *app) signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, r, "Invalid form data", err)
		return
	}
	in := service.SignupInput{
		Username:        r.PostForm.Get("username"),
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password1"),
		PasswordConfirm: r.PostForm.Get("password2"),
	}
	user, _, err := a.users.Signup(r.Context(), in)
	var validationErr *league.ValidationError
	if errors.As(err, &validationErr) {
		views.Render(w, r, views.SignupPage(a.page(r), in.Username, in.Email, capitalize(validationErr.Message)))
		return
	}
	if err != nil {
		httputil.Error(w, r, "Failed to sign up", err)
		return
	}
	if err := a.startSession(r, user.ID); err != nil {
		httputil.InternalServerError(w, r, "Failed to start session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *app) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, r, "Failed to log out", err)
		return
	}
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (a *app) beginAuth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	gothic.BeginAuthHandler(w, gothic.GetContextWithProvider(r, provider))
}

func (a *app) completeAuth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	r = gothic.GetContextWithProvider(r, provider)

	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		httputil.BadRequest(w, r, "Authentication failure", err)
		return
	}

	user, err := a.users.FindOrCreateUserByProvider(r.Context(), gothUser)
	if err != nil {
		httputil.Error(w, r, "Failed to find or create user", err)
		return
	}
	if err := a.startSession(r, user.ID); err != nil {
		httputil.InternalServerError(w, r, "Failed to start session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *app) index(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	list, err := a.matches.ListMatches(r.Context(), page)
	if err != nil {
		httputil.Error(w, r, "Failed to list matches", err)
		return
	}
	views.Render(w, r, views.IndexPage(a.page(r), list))
}

func (a *app) newMatchPage(w http.ResponseWriter, r *http.Request) {
	views.Render(w, r, views.NewMatchPage(a.page(r), service.MatchInput{}, ""))
}

func (a *app) createMatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, r, "Invalid form data", err)
		return
	}
	in, err := matchInputFromForm(r.PostForm)
	if err == nil {
		var match *league.Match
		if match, err = a.matches.CreateMatch(r.Context(), currentProfile(r).ID, in); err == nil {
			a.flash(r, httputil.FlashSuccess, "Match created.")
			http.Redirect(w, r, matchURL(match.ID), http.StatusSeeOther)
			return
		}
	}
	var validationErr *league.ValidationError
	if errors.As(err, &validationErr) {
		views.RenderStatus(w, r, http.StatusBadRequest, views.NewMatchPage(a.page(r), in, capitalize(validationErr.Message)))
		return
	}
	httputil.Error(w, r, "Failed to create match", err)
}

func (a *app) matchDetail(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "id", "match")
	if err != nil {
		httputil.NotFound(w, r, "Match not found", err)
		return
	}
	viewer := currentProfile(r)

	detail, err := a.matches.GetMatchDetail(r.Context(), matchID, viewer.ID)
	if err != nil {
		httputil.Error(w, r, "Failed to get match", err)
		return
	}
	comments, err := a.annotations.ListComments(r.Context(), matchID)
	if err != nil {
		httputil.Error(w, r, "Failed to get comments", err)
		return
	}
	highlights, err := a.annotations.ListHighlights(r.Context(), matchID)
	if err != nil {
		httputil.Error(w, r, "Failed to get highlights", err)
		return
	}
	data := views.MatchPageData{
		Detail:      detail,
		Roster:      views.PrepareRosterData(detail.Teams, detail.Participants),
		Comments:    comments,
		Highlights:  highlights,
		IsOrganizer: detail.Match.IsOrganizer(viewer.ID),
	}
	if data.IsOrganizer && detail.Match.Finalized {
		if data.BadgeTypes, err = a.badges.ListBadgeTypes(r.Context()); err != nil {
			httputil.Error(w, r, "Failed to get badge types", err)
			return
		}
	}
	views.Render(w, r, views.MatchPage(a.page(r), data))
}

func (a *app) joinMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	status := r.PostForm.Get("status")
	if status == "" {
		status = string(league.StatusGoing)
	}
	result, err := a.participation.Join(r.Context(), matchID, currentProfile(r).ID, status)
	if err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to join match", err)
		return
	}
	a.flashStatus(r, result, "You've joined this match.")
	http.Redirect(w, r, matchURL(matchID), http.StatusSeeOther)
}

func (a *app) flashStatus(r *http.Request, result *service.StatusResult, success string) {
	if result.Waitlisted {
		a.flash(r, httputil.FlashWarning, "Match is full, you're on the waiting list.")
		return
	}
	a.flash(r, httputil.FlashSuccess, success)
}

func (a *app) leaveMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	removed, err := a.participation.Leave(r.Context(), matchID, currentProfile(r).ID)
	if err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to leave match", err)
		return
	}
	if removed {
		a.flash(r, httputil.FlashSuccess, "You've left this match.")
	} else {
		a.flash(r, httputil.FlashInfo, "You were not registered for this match.")
	}
	http.Redirect(w, r, matchURL(matchID), http.StatusSeeOther)
}

func (a *app) setStatus(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	result, err := a.participation.SetStatus(r.Context(), matchID, currentProfile(r).ID, r.PostForm.Get("status"))
	if err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to update status", err)
		return
	}
	a.flashStatus(r, result, "Status updated.")
	http.Redirect(w, r, matchURL(matchID), http.StatusSeeOther)
}

func (a *app) setTeam(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	participationID, err := uuid.Parse(r.PostForm.Get("participation_id"))
	if err != nil {
		a.fail(w, r, matchURL(matchID), "Invalid participation", league.NewValidationError("choose a player"))
		return
	}
	var teamID *uuid.UUID
	if raw := r.PostForm.Get("team_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			a.fail(w, r, matchURL(matchID), "Invalid team", league.NewValidationError("team does not belong to this match"))
			return
		}
		teamID = &id
	}
	if _, err := a.teams.ManualAssign(r.Context(), matchID, currentProfile(r).ID, participationID, teamID); err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to assign team", err)
		return
	}
	a.flash(r, httputil.FlashSuccess, "Team updated.")
	http.Redirect(w, r, matchURL(matchID), http.StatusSeeOther)
}

func (a *app) randomizeTeams(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	if _, err := a.teams.RandomizeTeams(r.Context(), matchID, currentProfile(r).ID); err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to randomize teams", err)
		return
	}
	a.flash(r, httputil.FlashSuccess, "Teams randomized.")
	http.Redirect(w, r, matchURL(matchID), http.StatusSeeOther)
}

func (a *app) finalizeMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	in, err := parseFinalizeForm(r.PostForm)
	if err == nil {
		_, err = a.finalize.Finalize(r.Context(), matchID, currentProfile(r).ID, in)
	}
	if err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to finalize match", err)
		return
	}
	a.flash(r, httputil.FlashSuccess, "Match finalized.")
	http.Redirect(w, r, matchURL(matchID), http.StatusSeeOther)
}

func (a *app) createTeam(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	if _, err := a.teams.CreateTeam(r.Context(), matchID, currentProfile(r).ID, r.PostForm.Get("name")); err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to create team", err)
		return
	}
	a.flash(r, httputil.FlashSuccess, "Team added.")
	http.Redirect(w, r, matchURL(matchID), http.StatusSeeOther)
}

func (a *app) deleteTeam(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	teamID, err := pathID(r, "teamID", "team")
	if err == nil {
		err = a.teams.DeleteTeam(r.Context(), matchID, currentProfile(r).ID, teamID)
	}
	if err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to delete team", err)
		return
	}
	a.flash(r, httputil.FlashSuccess, "Team removed.")
	http.Redirect(w, r, matchURL(matchID), http.StatusSeeOther)
}

func (a *app) addComment(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	if _, err := a.annotations.AddComment(r.Context(), matchID, currentProfile(r).ID, r.PostForm.Get("text")); err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to add comment", err)
		return
	}
	http.Redirect(w, r, matchURL(matchID)+"#comments", http.StatusSeeOther)
}

func (a *app) addHighlight(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	_, err := a.annotations.AddHighlight(r.Context(), matchID, currentProfile(r).ID, r.PostForm.Get("media_link"), r.PostForm.Get("description"))
	if err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to add highlight", err)
		return
	}
	a.flash(r, httputil.FlashSuccess, "Highlight added.")
	http.Redirect(w, r, matchURL(matchID), http.StatusSeeOther)
}

func (a *app) awardBadge(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	playerID, err := uuid.Parse(r.PostForm.Get("player_id"))
	if err != nil {
		a.fail(w, r, matchURL(matchID), "Invalid player", league.NewValidationError("choose a player"))
		return
	}
	_, err = a.badges.AwardBadge(r.Context(), matchID, currentProfile(r).ID, service.AwardInput{
		PlayerID:    playerID,
		BadgeCode:   r.PostForm.Get("badge_code"),
		PeriodStart: r.PostForm.Get("period_start"),
		PeriodEnd:   r.PostForm.Get("period_end"),
	})
	if err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to award badge", err)
		return
	}
	a.flash(r, httputil.FlashSuccess, "Badge awarded.")
	http.Redirect(w, r, matchURL(matchID), http.StatusSeeOther)
}

func (a *app) deleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := a.matchAction(w, r)
	if !ok {
		return
	}
	if err := a.matches.DeleteMatch(r.Context(), matchID, currentProfile(r).ID); err != nil {
		a.fail(w, r, matchURL(matchID), "Failed to delete match", err)
		return
	}
	a.flash(r, httputil.FlashSuccess, "Match deleted.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *app) ownProfile(w http.ResponseWriter, r *http.Request) {
	a.renderProfile(w, r, currentProfile(r).ID, "")
}

func (a *app) playerProfile(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "id", "player")
	if err != nil {
		httputil.NotFound(w, r, "Player not found", err)
		return
	}
	a.renderProfile(w, r, playerID, "")
}

func (a *app) renderProfile(w http.ResponseWriter, r *http.Request, playerID uuid.UUID, errMsg string) {
	player, err := a.players.GetProfile(r.Context(), playerID)
	if err != nil {
		httputil.Error(w, r, "Failed to get player", err)
		return
	}
	points, err := a.players.Points(r.Context(), playerID)
	if err != nil {
		httputil.Error(w, r, "Failed to get points", err)
		return
	}
	badges, err := a.badges.ListPlayerBadges(r.Context(), playerID)
	if err != nil {
		httputil.Error(w, r, "Failed to get badges", err)
		return
	}
	views.Render(w, r, views.ProfilePage(a.page(r), views.ProfilePageData{
		Player:   player,
		Points:   points,
		Badges:   badges,
		Editable: playerID == currentProfile(r).ID,
		Error:    errMsg,
	}))
}

func (a *app) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, r, "Invalid form data", err)
		return
	}
	profileID := currentProfile(r).ID
	_, err := a.players.UpdateProfile(r.Context(), profileID, service.ProfileInput{
		Nickname: r.PostForm.Get("nickname"),
		Position: r.PostForm.Get("preferred_position"),
		Bio:      r.PostForm.Get("bio"),
	})
	var validationErr *league.ValidationError
	if errors.As(err, &validationErr) {
		a.renderProfile(w, r, profileID, capitalize(validationErr.Message))
		return
	}
	if err != nil {
		httputil.Error(w, r, "Failed to update profile", err)
		return
	}
	a.flash(r, httputil.FlashSuccess, "Profile updated.")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
