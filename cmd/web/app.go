package main

import (
	"net/http"

	"github.com/AdamBeresnev/goalit/internal/httputil"
	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/middleware"
	"github.com/AdamBeresnev/goalit/internal/service"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/AdamBeresnev/goalit/views"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type app struct {
	sessions      *scs.SessionManager
	providers     []string
	users         *service.UserService
	players       *service.PlayerService
	matches       *service.MatchService
	participation *service.ParticipationService
	teams         *service.TeamService
	finalize      *service.FinalizeService
	badges        *service.BadgeService
	annotations   *service.AnnotationService
}

func newApp(database *sqlx.DB, sessionManager *scs.SessionManager, providers []string) *app {
	userStore := store.NewUserStore(database)
	profileStore := store.NewProfileStore(database)
	matchStore := store.NewMatchStore(database)

	return &app{
		sessions:      sessionManager,
		providers:     providers,
		users:         service.NewUserService(database, userStore, profileStore),
		players:       service.NewPlayerService(profileStore, matchStore),
		matches:       service.NewMatchService(database, matchStore, profileStore),
		participation: service.NewParticipationService(database, matchStore),
		teams:         service.NewTeamService(database, matchStore),
		finalize:      service.NewFinalizeService(database, matchStore),
		badges:        service.NewBadgeService(database, store.NewBadgeStore(database), matchStore),
		annotations:   service.NewAnnotationService(database, store.NewAnnotationStore(database), matchStore, profileStore),
	}
}

func (a *app) newRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(a.sessions.LoadAndSave)
	r.Use(middleware.LoadAuthenticatedUser(a.sessions, a.users))

	fileServer := http.FileServer(http.Dir("./static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	a.htmlRoutes(r)
	r.Route("/api", a.apiRoutes)

	return r
}

// page builds the shared layout data and drains pending flashes.
func (a *app) page(r *http.Request) views.Page {
	return views.Page{
		Profile: middleware.GetProfileFromContext(r.Context()),
		Flashes: httputil.PopFlashes(a.sessions, r.Context()),
	}
}

// currentProfile is only called behind RequireAuth or RequireAPIAuth.
func currentProfile(r *http.Request) *league.Profile {
	return middleware.GetProfileFromContext(r.Context())
}

func pathID(r *http.Request, name, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, league.NotFound(entity)
	}
	return id, nil
}
