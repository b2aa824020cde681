package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	"github.com/AdamBeresnev/goalit/internal/testutil"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *store.ProfileStore) {
	t.Helper()
	db := testutil.NewTestDB(t)
	profiles := store.NewProfileStore(db)
	return NewUserService(db, store.NewUserStore(db), profiles), profiles
}

func TestSignupCreatesUserAndProfile(t *testing.T) {
	svc, profiles := newUserService(t)
	ctx := context.Background()

	user, profile, err := svc.Signup(ctx, SignupInput{
		Username:        "striker9",
		Email:           "striker9@example.com",
		Password:        "top-corner",
		PasswordConfirm: "top-corner",
	})
	require.NoError(t, err)
	assert.Equal(t, "striker9", user.Username)
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "top-corner", *user.PasswordHash)

	stored, err := profiles.GetProfileByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, stored.ID)
	assert.Equal(t, league.PositionAny, stored.Position)
	assert.Equal(t, "striker9", stored.DisplayName())

	authenticated, err := svc.Authenticate(ctx, "STRIKER9", "top-corner")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)

	_, err = svc.Authenticate(ctx, "striker9", "wrong-foot")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "top-corner")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupInput{Username: "keeper", Password: "safe-hands", PasswordConfirm: "safe-hands"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input SignupInput
	}{
		{"password mismatch", SignupInput{Username: "defender", Password: "long-enough", PasswordConfirm: "long-enougH"}},
		{"short password", SignupInput{Username: "defender", Password: "short", PasswordConfirm: "short"}},
		{"missing username", SignupInput{Password: "long-enough", PasswordConfirm: "long-enough"}},
		{"bad username", SignupInput{Username: "no spaces", Password: "long-enough", PasswordConfirm: "long-enough"}},
		{"bad email", SignupInput{Username: "defender", Email: "not-an-email", Password: "long-enough", PasswordConfirm: "long-enough"}},
		{"taken username", SignupInput{Username: "Keeper", Password: "long-enough", PasswordConfirm: "long-enough"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, tt.input)
			var validationErr *league.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestFindOrCreateUserByProvider(t *testing.T) {
	svc, profiles := newUserService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupInput{Username: "winger", Password: "down-the-line", PasswordConfirm: "down-the-line"})
	require.NoError(t, err)

	gothUser := goth.User{
		Provider:  "discord",
		UserID:    "1234",
		NickName:  "winger",
		Email:     "winger@example.com",
		AvatarURL: "https://cdn.example.com/a.png",
	}
	user, err := svc.FindOrCreateUserByProvider(ctx, gothUser)
	require.NoError(t, err)
	assert.NotEqual(t, "winger", user.Username, "a taken username gets a suffix")
	assert.Contains(t, user.Username, "winger-")
	assert.Nil(t, user.PasswordHash)

	_, err = profiles.GetProfileByUserID(ctx, user.ID)
	require.NoError(t, err)

	gothUser.AvatarURL = "https://cdn.example.com/b.png"
	again, err := svc.FindOrCreateUserByProvider(ctx, gothUser)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	require.NotNil(t, again.AvatarURL)
	assert.Equal(t, "https://cdn.example.com/b.png", *again.AvatarURL)

	_, err = svc.Authenticate(ctx, user.Username, "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureProfileCreatesMissingProfile(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	profiles := store.NewProfileStore(db)
	svc := NewUserService(db, store.NewUserStore(db), profiles)

	existing := testutil.CreatePlayer(t, db, "midfielder")
	profile, err := svc.EnsureProfile(ctx, existing.UserID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, profile.ID)

	_, err = db.Exec("DELETE FROM player_profiles WHERE id = ?", existing.ID)
	require.NoError(t, err)

	profile, err = svc.EnsureProfile(ctx, existing.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, profile.ID)
	assert.Equal(t, "midfielder", profile.Username)
}
