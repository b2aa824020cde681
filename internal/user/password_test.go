package users

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("corner-kick-42")
	require.NoError(t, err)
	assert.NotEqual(t, "corner-kick-42", hash)

	u := &User{PasswordHash: &hash}
	assert.True(t, u.CheckPassword("corner-kick-42"))
	assert.False(t, u.CheckPassword("corner-kick-43"))
}

func TestCheckPasswordWithoutHash(t *testing.T) {
	u := &User{}
	assert.False(t, u.CheckPassword(""))
}

func TestCheckPasswordWithInvalidHash(t *testing.T) {
	bad := "not-a-bcrypt-hash"
	u := &User{PasswordHash: &bad}
	assert.False(t, u.CheckPassword("not-a-bcrypt-hash"))
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 73))
	require.Error(t, err)
	assert.True(t, IsPasswordTooLong(err))
}
