package users

import (
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const UserKey ContextKey = "user"

// User is the identity record. PasswordHash is nil for accounts that only
// sign in through an OAuth provider.
type User struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash *string   `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	Provider     *string   `db:"provider"`
	ProviderID   *string   `db:"provider_id"`
	AvatarURL    *string   `db:"avatar_url"`
}
