package auth_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	auth "github.com/myflix/go-auth"
	"github.com/stretchr/testify/assert"
)

func TestUserPublic(t *testing.T) {
	birthday := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	user := &auth.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Birthday:     &birthday,
	}

	public := user.Public()

	assert.Equal(t, user.ID, public.ID)
	assert.Equal(t, "alice", public.Username)
	assert.Equal(t, "alice@example.com", public.Email)
	assert.Equal(t, &birthday, public.Birthday)

	raw, err := json.Marshal(public)
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), user.PasswordHash)
	assert.NotContains(t, string(raw), "password")
}

func TestUserPublicNil(t *testing.T) {
	var user *auth.User
	assert.Nil(t, user.Public())
}

func TestUserJSONNeverLeaksHash(t *testing.T) {
	user := &auth.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}

	raw, err := json.Marshal(user)
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), user.PasswordHash)
}

func TestUserValidatePassword(t *testing.T) {
	hash, err := auth.HashPassword("Secret123!")
	assert.NoError(t, err)

	user := &auth.User{Username: "alice", PasswordHash: hash}

	assert.NoError(t, user.ValidatePassword("Secret123!"))
	assert.ErrorIs(t, user.ValidatePassword("wrong"), auth.ErrPasswordMismatch)
}
