package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// AccountRegistrerer is the interface we need to handle new user registrations
type AccountRegistrerer interface {
	RegisterUser(ctx context.Context, username, password, email string) (*User, error)
}

// UserStore is the credential store the verification strategy reads from
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// UserProvider resolves credentials and token subjects against a UserStore
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	u.logger = l
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Exactly one lookup and one hash comparison per call; unknown
// usernames and wrong passwords are deliberately indistinguishable.
func (u UserProvider) VerifyIdentity(ctx context.Context, username, password string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, username)
	if err != nil {
		// The repository's not-found carries its own category; a plain
		// category check would misread it as a store fault.
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, ErrStoreUnavailable.Category, ErrStoreUnavailable.Message).
			WithTextCode(ErrStoreUnavailable.TextCode)
	}

	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if IsHashFormatError(err) {
			// A corrupted digest locks that account operationally. Surfacing
			// it as a bad password would hide the corruption from operators.
			u.logger.Error("stored digest unusable for user %s: %v", user.ID.String(), err)
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	return authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		user:     user,
	}, nil
}

// FindIdentityByID resolves a token subject to a stored identity.
func (u UserProvider) FindIdentityByID(ctx context.Context, id string) (Identity, error) {
	user, err := u.store.FindByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUnknownSubject
		}
		return nil, errors.Wrap(err, ErrStoreUnavailable.Category, ErrStoreUnavailable.Message).
			WithTextCode(ErrStoreUnavailable.TextCode)
	}

	if user == nil {
		return nil, ErrUnknownSubject
	}

	return authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		user:     user,
	}, nil
}

// UserCarrier is implemented by identities backed by a stored user record.
// Callers that need the full record after verification read it from here
// instead of issuing a second lookup.
type UserCarrier interface {
	User() *User
}

type authIdentity struct {
	id       string
	username string
	email    string
	user     *User
}

func (a authIdentity) User() *User {
	return a.user
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Username() string {
	return a.username
}

func (a authIdentity) Email() string {
	return a.email
}

var _ Identity = authIdentity{}
var _ UserCarrier = authIdentity{}
var _ IdentityProvider = UserProvider{}
