// Package auth implements the authentication flow for the myFlix movie
// catalog API: bcrypt credential verification, stateless JWT issuance and
// validation, a JSON login endpoint, and a bearer-token route guard.
//
// Credential verification:
//   - UserProvider resolves a username against the Users repository and
//     compares the submitted password with the stored bcrypt digest. Unknown
//     usernames and wrong passwords collapse into the same generic failure so
//     callers never learn which half was wrong.
//
// Tokens:
//   - TokenService signs HS256 tokens whose subject is the immutable user id,
//     not the username, so tokens survive renames. Tokens carry iat/exp and a
//     few non-sensitive profile claims; nothing derived from the password hash
//     ever enters a token. There is no revocation state, expiry is the only
//     invalidation.
//
// Route guard:
//   - middleware/jwtware wraps protected fiber handlers, extracts the bearer
//     token, validates it, and stores the claims on the request context. Any
//     failure kind short-circuits with 401 before the handler runs.
package auth
