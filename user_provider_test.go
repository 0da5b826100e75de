package auth_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	auth "github.com/myflix/go-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newStoredUser(t *testing.T, username, password string) *auth.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	assert.NoError(t, err)
	return &auth.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	}
}

func TestUserProvider_VerifyIdentity(t *testing.T) {
	ctx := context.Background()
	// The same error value the bun repository emits, so the mocked contract
	// matches the real adapter.
	notFound := repository.NewRecordNotFound()

	t.Run("valid credentials resolve to the identity", func(t *testing.T) {
		store := &MockUserStore{}
		user := newStoredUser(t, "alice", "Secret123!")
		store.On("GetByUsername", ctx, "alice").Return(user, nil)

		provider := auth.NewUserProvider(store)
		identity, err := provider.VerifyIdentity(ctx, "alice", "Secret123!")

		assert.NoError(t, err)
		assert.Equal(t, "alice", identity.Username())
		assert.Equal(t, "alice@example.com", identity.Email())
		store.AssertNumberOfCalls(t, "GetByUsername", 1)

		// The verified identity carries the record the lookup already read;
		// callers must not need a second fetch to build a profile.
		carrier, ok := identity.(auth.UserCarrier)
		assert.True(t, ok)
		assert.Same(t, user, carrier.User())
	})

	t.Run("unknown username and wrong password are indistinguishable", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "nobody").Return(nil, notFound)
		store.On("GetByUsername", ctx, "alice").Return(newStoredUser(t, "alice", "Secret123!"), nil)

		provider := auth.NewUserProvider(store)

		_, errUnknown := provider.VerifyIdentity(ctx, "nobody", "whatever")
		_, errMismatch := provider.VerifyIdentity(ctx, "alice", "wrong-password")

		assert.ErrorIs(t, errUnknown, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, errMismatch, auth.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errMismatch.Error())

		// A missing record must never be misread as a store fault; that
		// would turn an unknown username into a 500 and leak which half
		// of the credentials was wrong.
		assert.NotEqual(t, auth.TextCodeStoreUnavailable, textCodeOf(t, errUnknown))
	})

	t.Run("corrupted stored digest is surfaced, not treated as mismatch", func(t *testing.T) {
		store := &MockUserStore{}
		user := newStoredUser(t, "bob", "Secret123!")
		user.PasswordHash = "corrupted"
		store.On("GetByUsername", ctx, "bob").Return(user, nil)

		logger := &MockLogger{}
		logger.On("Error", mock.Anything, mock.Anything).Return()

		provider := auth.NewUserProvider(store).WithLogger(logger)
		_, err := provider.VerifyIdentity(ctx, "bob", "Secret123!")

		assert.Error(t, err)
		assert.True(t, auth.IsHashFormatError(err))
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
		logger.AssertCalled(t, "Error", mock.Anything, mock.Anything)
	})

	t.Run("store outage is a server fault, not a credential failure", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(nil, goerrors.New("connection refused", goerrors.CategoryInternal))

		provider := auth.NewUserProvider(store)
		_, err := provider.VerifyIdentity(ctx, "alice", "Secret123!")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Equal(t, auth.TextCodeStoreUnavailable, textCodeOf(t, err))
	})

	t.Run("username match is case sensitive", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "Alice").Return(nil, notFound)

		provider := auth.NewUserProvider(store)
		_, err := provider.VerifyIdentity(ctx, "Alice", "Secret123!")

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		store.AssertCalled(t, "GetByUsername", ctx, "Alice")
	})
}

func TestUserProvider_FindIdentityByID(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves a stored subject", func(t *testing.T) {
		store := &MockUserStore{}
		user := newStoredUser(t, "alice", "Secret123!")
		store.On("FindByID", ctx, user.ID.String()).Return(user, nil)

		provider := auth.NewUserProvider(store)
		identity, err := provider.FindIdentityByID(ctx, user.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
	})

	t.Run("missing subject is ErrUnknownSubject", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("FindByID", ctx, "gone").Return(nil, repository.NewRecordNotFound())

		provider := auth.NewUserProvider(store)
		_, err := provider.FindIdentityByID(ctx, "gone")

		assert.ErrorIs(t, err, auth.ErrUnknownSubject)
	})
}
