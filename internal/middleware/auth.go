package middleware

import (
	"context"
	"net/http"

	"github.com/AdamBeresnev/goalit/internal/config"
	"github.com/AdamBeresnev/goalit/internal/httputil"
	"github.com/AdamBeresnev/goalit/internal/league"
	users "github.com/AdamBeresnev/goalit/internal/user"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog/log"
)

type ContextKey string

const (
	UserIDKey  ContextKey = "userID"
	profileKey ContextKey = "profile"

	// SessionUserKey is the session entry holding the signed-in user id.
	SessionUserKey = "userID"
)

// IdentityLoader resolves the session user and the player profile behind it.
type IdentityLoader interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*users.User, error)
	EnsureProfile(ctx context.Context, userID uuid.UUID) (*league.Profile, error)
}

// InitAuth registers the OAuth providers that have credentials and returns
// their names.
func InitAuth(cfg config.AuthConfig) []string {
	var providers []goth.Provider
	var names []string
	if cfg.Discord.Enabled() {
		providers = append(providers, discord.New(cfg.Discord.Key, cfg.Discord.Secret, cfg.Discord.CallbackURL, discord.ScopeIdentify, discord.ScopeEmail))
		names = append(names, "discord")
	}
	if cfg.Google.Enabled() {
		providers = append(providers, google.New(cfg.Google.Key, cfg.Google.Secret, cfg.Google.CallbackURL, "email", "profile"))
		names = append(names, "google")
	}
	goth.UseProviders(providers...)
	return names
}

// LoadAuthenticatedUser puts the session user and its profile into the
// request context. Anonymous requests pass through untouched.
func LoadAuthenticatedUser(sessionManager *scs.SessionManager, identities IdentityLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDStr := sessionManager.GetString(r.Context(), SessionUserKey)
			if userIDStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				sessionManager.Remove(r.Context(), SessionUserKey)
				next.ServeHTTP(w, r)
				return
			}

			user, err := identities.GetUser(r.Context(), userID)
			if err != nil {
				// Deleted accounts lose their session
				log.Ctx(r.Context()).Warn().Err(err).Str("user_id", userIDStr).Msg("Dropping session of unknown user")
				sessionManager.Remove(r.Context(), SessionUserKey)
				next.ServeHTTP(w, r)
				return
			}
			profile, err := identities.EnsureProfile(r.Context(), userID)
			if err != nil {
				httputil.InternalServerError(w, r, "Failed to load player profile", err)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, users.UserKey, user)
			ctx = context.WithValue(ctx, profileKey, profile)
			logger := log.Ctx(ctx).With().Str("user_id", userIDStr).Logger()
			ctx = logger.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetProfileFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPIAuth answers anonymous API calls with a JSON 401.
func RequireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetProfileFromContext(r.Context()) == nil {
			httputil.WriteDetail(w, r, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	val := ctx.Value(UserIDKey)
	if val == nil {
		return uuid.Nil, false
	}

	id, ok := val.(uuid.UUID)
	return id, ok
}

func GetAuthenticatedUser(ctx context.Context) *users.User {
	user, _ := ctx.Value(users.UserKey).(*users.User)
	return user
}

// GetProfileFromContext returns the signed-in player, or nil.
func GetProfileFromContext(ctx context.Context) *league.Profile {
	profile, _ := ctx.Value(profileKey).(*league.Profile)
	return profile
}
