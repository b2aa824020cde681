package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/AdamBeresnev/goalit/internal/db"
	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/store"
	users "github.com/AdamBeresnev/goalit/internal/user"
	"github.com/AdamBeresnev/goalit/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/markbates/goth"
	"github.com/rs/zerolog/log"
)

const maxUsernameLength = 150

var (
	ErrInvalidCredentials = errors.New("invalid username or password")

	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

type UserService struct {
	db       *sqlx.DB
	store    *store.UserStore
	profiles *store.ProfileStore
	now      func() time.Time
}

func NewUserService(db *sqlx.DB, store *store.UserStore, profiles *store.ProfileStore) *UserService {
	return &UserService{db: db, store: store, profiles: profiles, now: utcNow}
}

type SignupInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// Signup registers a local account. The identity and its player profile are
// created together.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*users.User, *league.Profile, error) {
	username := strings.TrimSpace(in.Username)
	if err := validateUsername(username); err != nil {
		return nil, nil, err
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, nil, league.NewValidationError("enter a valid email address")
		}
	}
	if in.Password != in.PasswordConfirm {
		return nil, nil, league.NewValidationError("the two password fields didn't match")
	}
	if len(in.Password) < users.MinPasswordLength {
		return nil, nil, league.NewValidationError(fmt.Sprintf("password must be at least %d characters", users.MinPasswordLength))
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, nil, league.NewValidationError("a user with that username already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("failed to look up username: %w", err)
	}

	hash, err := users.HashPassword(in.Password)
	if users.IsPasswordTooLong(err) {
		return nil, nil, league.NewValidationError("password is too long")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &users.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    s.now(),
	}
	profile, err := s.createIdentity(ctx, user)
	if db.IsUniqueViolation(err) {
		return nil, nil, league.NewValidationError("a user with that username already exists")
	}
	if err != nil {
		return nil, nil, err
	}

	log.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("User signed up")
	return user, profile, nil
}

// Authenticate checks a local username and password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*users.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindOrCreateUserByProvider signs in an OAuth user, registering the identity
// and its profile on first login.
func (s *UserService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	user, err := s.store.GetUserByProvider(ctx, gothUser.Provider, gothUser.UserID)
	if err == nil {
		if user.Email != gothUser.Email || utils.OrZero(user.AvatarURL) != gothUser.AvatarURL {
			user.Email = gothUser.Email
			user.AvatarURL = utils.StringOrNil(gothUser.AvatarURL)
			if err := s.store.UpdateEmailAndAvatar(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to update user: %w", err)
			}
		}
		if _, err := s.EnsureProfile(ctx, user.ID); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get user by provider: %w", err)
	}

	username, err := s.availableUsername(ctx, providerUsername(gothUser))
	if err != nil {
		return nil, err
	}
	user = &users.User{
		ID:         uuid.New(),
		Username:   username,
		Email:      gothUser.Email,
		CreatedAt:  s.now(),
		Provider:   utils.Ptr(gothUser.Provider),
		ProviderID: utils.Ptr(gothUser.UserID),
		AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
	}
	if _, err := s.createIdentity(ctx, user); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("user_id", user.ID.String()).
		Str("provider", gothUser.Provider).
		Msg("User registered through provider")
	return user, nil
}

// GetUser loads a signed-in identity.
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*users.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// EnsureProfile returns the user's profile, creating an empty one for
// identities that predate profiles.
func (s *UserService) EnsureProfile(ctx context.Context, userID uuid.UUID) (*league.Profile, error) {
	profile, err := s.profiles.GetProfileByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile = &league.Profile{ID: uuid.New(), UserID: userID, Position: league.PositionAny}
	err = runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.profiles.CreateProfile(ctx, tx, profile)
	})
	// Lost a race with another request creating the same profile
	if db.IsUniqueViolation(err) {
		return s.profiles.GetProfileByUserID(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return s.profiles.GetProfileByUserID(ctx, userID)
}

func (s *UserService) createIdentity(ctx context.Context, user *users.User) (*league.Profile, error) {
	profile := &league.Profile{
		ID:       uuid.New(),
		UserID:   user.ID,
		Position: league.PositionAny,
		Username: user.Username,
	}
	err := runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.store.CreateUser(ctx, tx, user); err != nil {
			return err
		}
		return s.profiles.CreateProfile(ctx, tx, profile)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return profile, nil
}

// availableUsername returns base, or base with a short suffix when base is taken.
func (s *UserService) availableUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for range 5 {
		_, err := s.store.GetUserByUsername(ctx, candidate)
		if errors.Is(err, sql.ErrNoRows) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to look up username: %w", err)
		}
		candidate = fmt.Sprintf("%s-%s", base, uuid.NewString()[:6])
	}
	return "", fmt.Errorf("no free username for %q", base)
}

func providerUsername(gothUser goth.User) string {
	for _, name := range []string{gothUser.NickName, gothUser.Name, strings.Split(gothUser.Email, "@")[0]} {
		name = strings.Join(strings.Fields(name), "_")
		if name != "" && validateUsername(name) == nil {
			return name
		}
	}
	return "player"
}

func validateUsername(username string) error {
	if username == "" {
		return league.NewValidationError("username is required")
	}
	if len(username) > maxUsernameLength {
		return league.NewValidationError(fmt.Sprintf("username exceeds %d characters", maxUsernameLength))
	}
	if !usernamePattern.MatchString(username) {
		return league.NewValidationError("username may contain only letters, numbers and @/./+/-/_")
	}
	return nil
}
