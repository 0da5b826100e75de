package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/myflix/go-auth/middleware/jwtware"
)

// PrincipalKey is the locals key under which the guard stores the resolved
// Identity for the wrapped handler.
const PrincipalKey = "auth_principal"

// PrincipalFromCtx returns the Identity the guard attached to the request.
func PrincipalFromCtx(c *fiber.Ctx) (Identity, bool) {
	raw := c.Locals(PrincipalKey)
	if raw == nil {
		return nil, false
	}
	identity, ok := raw.(Identity)
	return identity, ok
}

// ClaimsFromCtx returns the validated claims the guard stored under the
// configured context key.
func ClaimsFromCtx(c *fiber.Ctx, key string) (AuthClaims, bool) {
	if key == "" {
		key = "user"
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}

// RouteAuthenticator wires the Authenticator into fiber: it exposes the login
// orchestration and the guard that protects routes behind a bearer token.
type RouteAuthenticator struct {
	auth             Authenticator
	validator        TokenValidator
	cfg              Config
	Logger           Logger
	AuthErrorHandler fiber.ErrorHandler
	ErrorHandler     fiber.ErrorHandler
}

type tokenServiceProvider interface {
	TokenService() TokenService
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	a := &RouteAuthenticator{
		cfg:    cfg,
		auth:   auther,
		Logger: defLogger{},
	}

	if provider, ok := auther.(tokenServiceProvider); ok {
		a.validator = provider.TokenService()
	} else {
		a.validator = NewTokenService(
			[]byte(cfg.GetSigningKey()),
			cfg.GetTokenExpiration(),
			cfg.GetIssuer(),
			cfg.GetAudience(),
			defLogger{},
		)
	}

	a.ErrorHandler = a.defaultErrHandler
	a.AuthErrorHandler = a.MakeAuthErrorHandler(false)

	return a, nil
}

// Login verifies the payload credentials and returns a signed token along
// with the verified identity. The response shaping belongs to the controller;
// plaintext passwords are not logged here or anywhere below.
func (a *RouteAuthenticator) Login(c *fiber.Ctx, payload LoginPayload) (string, Identity, error) {
	token, identity, err := a.auth.Login(c.UserContext(), payload.GetUsername(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error for %s: %v", payload.GetUsername(), err)
		return "", nil, err
	}

	return token, identity, nil
}

// ProtectedRoute returns the guard middleware. It validates the bearer token
// and resolves the subject to a stored identity before the wrapped handler
// runs; any failure kind short-circuits through the error handler.
func (a *RouteAuthenticator) ProtectedRoute(errorHandler fiber.ErrorHandler) fiber.Handler {
	if errorHandler == nil {
		errorHandler = a.AuthErrorHandler
	}

	return jwtware.New(jwtware.Config{
		ErrorHandler:   errorHandler,
		TokenValidator: tokenValidatorAdapter{validator: a.validator},
		AuthScheme:     a.cfg.GetAuthScheme(),
		ContextKey:     a.cfg.GetContextKey(),
		TokenLookup:    a.cfg.GetTokenLookup(),
		ValidationListeners: []jwtware.ValidationListener{
			a.resolvePrincipal,
		},
	})
}

// resolvePrincipal maps the validated claims to a stored user. A token whose
// subject no longer exists is unauthorized, same as any other failure kind.
func (a *RouteAuthenticator) resolvePrincipal(c *fiber.Ctx, claims jwtware.AuthClaims) error {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return ErrUnableToDecodeSession
	}

	session, err := sessionFromAuthClaims(authClaims)
	if err != nil {
		return err
	}

	identity, err := a.auth.IdentityFromSession(c.UserContext(), session)
	if err != nil {
		return err
	}

	c.Locals(PrincipalKey, identity)
	c.SetUserContext(WithClaimsContext(c.UserContext(), authClaims))
	return nil
}

// MakeAuthErrorHandler classifies guard failures for logging and collapses
// them all into one unauthorized response. With optional set, failures are
// logged and the request proceeds unauthenticated.
func (a *RouteAuthenticator) MakeAuthErrorHandler(optional bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var richErr *errors.Error

		switch {
		case errors.Is(err, jwtware.ErrJWTMissingOrMalformed):
			richErr = ErrMissingToken
		case IsTokenExpiredError(err):
			richErr = ErrTokenExpired
		case errors.Is(err, ErrUnknownSubject):
			richErr = ErrUnknownSubject
		case IsMalformedError(err):
			richErr = ErrTokenMalformed
		default:
			richErr = errors.Wrap(err, errors.CategoryAuth, "invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding: %s", richErr.Message)
			return c.Next()
		}

		a.Logger.Debug("Auth guard rejected request: %s", richErr.TextCode)

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "unauthorized",
		})
	}
}

func (a *RouteAuthenticator) defaultErrHandler(c *fiber.Ctx, err error) error {
	a.Logger.Error("HTTP auth error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}

// tokenValidatorAdapter bridges the auth package validator into the
// middleware's local interface.
type tokenValidatorAdapter struct {
	validator TokenValidator
}

func (t tokenValidatorAdapter) Validate(raw string) (jwtware.AuthClaims, error) {
	claims, err := t.validator.Validate(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
