package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeInvalidCreds marks the generic credential failure
	TextCodeInvalidCreds = "INVALID_CREDENTIALS"
	// TextCodeMissingToken marks requests with no bearer token
	TextCodeMissingToken = "MISSING_TOKEN"
	// TextCodeInvalidSignature marks tokens signed with a different key
	TextCodeInvalidSignature = "INVALID_SIGNATURE"
	// TextCodeTokenExpired marks tokens past their exp claim
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeTokenMalformed marks tokens we could not parse
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	// TextCodeUnknownSubject marks tokens whose subject no longer resolves
	TextCodeUnknownSubject = "UNKNOWN_SUBJECT"
	// TextCodeHashFormat marks corrupted stored digests
	TextCodeHashFormat = "HASH_FORMAT"
	// TextCodeStoreUnavailable marks credential store connectivity failures
	TextCodeStoreUnavailable = "STORE_UNAVAILABLE"
	// TextCodeSessionDecodeError marks claims we could not decode
	TextCodeSessionDecodeError = "SESSION_DECODE_ERROR"
	// TextCodeEmptyPassword marks empty password input
	TextCodeEmptyPassword = "EMPTY_PASSWORD"
)

// GenericCredentialsMessage is the one message every credential failure
// surfaces. Unknown username and wrong password must be indistinguishable
// to the client.
const GenericCredentialsMessage = "incorrect username or password"

// ErrInvalidCredentials is returned for both unknown usernames and password
// mismatches
var ErrInvalidCredentials = errors.New(GenericCredentialsMessage, errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrPasswordMismatch is the internal result of a failed hash comparison
var ErrPasswordMismatch = errors.New("password does not match digest", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrMissingToken is returned when a request carries no bearer token
var ErrMissingToken = errors.New("missing or malformed JWT", errors.CategoryAuth).
	WithTextCode(TextCodeMissingToken).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidSignature is returned when a token signature does not verify
// against our signing key
var ErrInvalidSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token is past its exp claim
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be parsed at all
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnknownSubject is returned when a valid token's subject no longer
// resolves to a stored user
var ErrUnknownSubject = errors.New("token subject not found", errors.CategoryAuth).
	WithTextCode(TextCodeUnknownSubject).
	WithCode(errors.CodeUnauthorized)

// ErrHashFormat indicates a corrupted stored digest. This is an operator
// problem for that user record, never a normal mismatch.
var ErrHashFormat = errors.New("stored password digest is malformed", errors.CategoryInternal).
	WithTextCode(TextCodeHashFormat)

// ErrStoreUnavailable is returned when the credential store cannot be
// reached. Retry policy belongs to the store adapter, not here.
var ErrStoreUnavailable = errors.New("credential store unavailable", errors.CategoryInternal).
	WithTextCode(TextCodeStoreUnavailable).
	WithCode(errors.CodeInternal)

// ErrUnableToDecodeSession unable to decode claims from a validated token
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionDecodeError)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) || errors.Is(err, ErrMissingToken) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
