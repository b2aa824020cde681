package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AdamBeresnev/goalit/internal/league"
	users "github.com/AdamBeresnev/goalit/internal/user"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentities struct {
	user    *users.User
	profile *league.Profile
}

func (f *fakeIdentities) GetUser(_ context.Context, userID uuid.UUID) (*users.User, error) {
	if f.user == nil || f.user.ID != userID {
		return nil, league.NotFound("user")
	}
	return f.user, nil
}

func (f *fakeIdentities) EnsureProfile(_ context.Context, userID uuid.UUID) (*league.Profile, error) {
	if f.profile == nil {
		return nil, errors.New("no profile")
	}
	return f.profile, nil
}

// newSessionHandler wires LoadAuthenticatedUser behind a session that is
// signed in as userID when it is not empty.
func newSessionHandler(t *testing.T, identities IdentityLoader, userID string, guard func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	sm := scs.New()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := GetProfileFromContext(r.Context())
		if profile == nil {
			w.Write([]byte("anonymous"))
			return
		}
		w.Write([]byte(profile.Username))
	})
	protected := LoadAuthenticatedUser(sm, identities)(guard(inner))
	login := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID != "" {
			sm.Put(r.Context(), SessionUserKey, userID)
		}
		protected.ServeHTTP(w, r)
	})
	return sm.LoadAndSave(login)
}

func passThrough(next http.Handler) http.Handler { return next }

func TestLoadAuthenticatedUser(t *testing.T) {
	user := &users.User{ID: uuid.New(), Username: "libero"}
	identities := &fakeIdentities{user: user, profile: &league.Profile{ID: uuid.New(), UserID: user.ID, Username: "libero"}}

	tests := []struct {
		name   string
		userID string
		want   string
	}{
		{"signed in", user.ID.String(), "libero"},
		{"anonymous", "", "anonymous"},
		{"garbage session", "not-a-uuid", "anonymous"},
		{"deleted user", uuid.NewString(), "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newSessionHandler(t, identities, tt.userID, passThrough).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRequireAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	newSessionHandler(t, &fakeIdentities{}, "", RequireAuth).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches/new", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	newSessionHandler(t, &fakeIdentities{}, "", RequireAPIAuth).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Authentication credentials were not provided."}`, rec.Body.String())
}

func TestProfileFailureIsServerError(t *testing.T) {
	user := &users.User{ID: uuid.New(), Username: "stopper"}
	rec := httptest.NewRecorder()
	newSessionHandler(t, &fakeIdentities{user: user}, user.ID.String(), passThrough).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestIDAndRecovery(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := RequestID(Logging(Recovery(panicky)))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}
