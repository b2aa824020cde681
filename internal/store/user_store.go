package store

import (
	"context"

	users "github.com/AdamBeresnev/goalit/internal/user"
	"github.com/jmoiron/sqlx"
)

type UserStore struct {
	db *sqlx.DB
}

const (
	getUserQuery           = "SELECT * FROM users WHERE id = ?"
	getUserByUsernameQuery = "SELECT * FROM users WHERE username = ? COLLATE NOCASE"
	getUserByProviderQuery = `
        SELECT * FROM users
        WHERE provider = ?
        AND provider_id = ?
    `
	createUserQuery = `
		INSERT INTO users (id, username, email, password_hash, provider, provider_id, avatar_url, created_at) VALUES
		(:id, :username, :email, :password_hash, :provider, :provider_id, :avatar_url, :created_at)
	`
	updateUserNameAndAvatarQuery = `
		UPDATE users SET
		email = :email,
		avatar_url = :avatar_url
		WHERE id = :id
	`
	deleteUserQuery = "DELETE FROM users WHERE id = ?"
)

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUserByProvider(ctx context.Context, provider string, providerID string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserByProviderQuery, provider, providerID)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*users.User, error) {
	var user users.User
	if err := s.db.GetContext(ctx, &user, getUserByUsernameQuery, username); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUser(ctx context.Context, id interface{}) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserQuery, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser runs on q so that signup can create the identity and the
// profile in one transaction.
func (s *UserStore) CreateUser(ctx context.Context, q sqlx.ExtContext, user *users.User) error {
	_, err := sqlx.NamedExecContext(ctx, q, createUserQuery, user)
	return err
}

func (s *UserStore) UpdateEmailAndAvatar(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, updateUserNameAndAvatarQuery, user)
	return err
}

// DeleteUser removes the identity. The profile and everything that cascades
// from it go with it.
func (s *UserStore) DeleteUser(ctx context.Context, id interface{}) error {
	_, err := s.db.ExecContext(ctx, deleteUserQuery, id)
	return err
}
