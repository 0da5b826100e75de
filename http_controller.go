package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RegisterAuthRoutes mounts the login and registration endpoints.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Register, controller.RegistrationCreate)
}

type AuthControllerRoutes struct {
	Login    string
	Register string
}

type AuthController struct {
	Logger Logger
	Auther *RouteAuthenticator
	Repo   RepositoryManager
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController)

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) {
		c.Logger = l
	}
}

func NewAuthController(auther *RouteAuthenticator, repo RepositoryManager, opts ...AuthControllerOption) *AuthController {
	controller := &AuthController{
		Logger: defLogger{},
		Auther: auther,
		Repo:   repo,
		Routes: &AuthControllerRoutes{
			Login:    "/login",
			Register: "/users",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(controller)
		}
	}

	return controller
}

// LoginRequest payload. Wire casing is lowercase, always.
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// GetUsername returns the username
func (r LoginRequest) GetUsername() string {
	return r.Username
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginPost handles POST /login. Success returns the public profile plus a
// token; every credential failure returns the same generic body so the
// response never reveals whether the username or the password was wrong.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.loginRejected(c)
	}

	if err := payload.Validate(); err != nil {
		return a.loginRejected(c)
	}

	token, identity, err := a.Auther.Login(c, payload)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryInternal {
			// Store outage or corrupted digest: a server fault, not a
			// credential failure.
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "internal server error",
				"user":    nil,
			})
		}
		return a.loginRejected(c)
	}

	return c.JSON(fiber.Map{
		"user":  identityProfile(identity),
		"token": token,
	})
}

// identityProfile builds the response profile from the record the verify
// step already read, so login never issues a second lookup that could race
// a concurrent delete or rename.
func identityProfile(identity Identity) *PublicUser {
	if carrier, ok := identity.(UserCarrier); ok {
		if user := carrier.User(); user != nil {
			return user.Public()
		}
	}

	id, _ := uuid.Parse(identity.ID())
	return &PublicUser{
		ID:       id,
		Username: identity.Username(),
		Email:    identity.Email(),
	}
}

func (a *AuthController) loginRejected(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": GenericCredentialsMessage,
		"user":    nil,
	})
}

// RegistrationCreatePayload is the registration payload
type RegistrationCreatePayload struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Email    string `form:"email" json:"email"`
	Birthday string `form:"birthday" json:"birthday"`
}

// Validate will run validation rules
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(5, 0),
			is.Alphanumeric,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(8, 0),
		),
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Birthday,
			validation.Date("2006-01-02"),
		),
	)
}

// RegistrationCreate handles POST /users.
func (a *AuthController) RegistrationCreate(c *fiber.Ctx) error {
	payload := new(RegistrationCreatePayload)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  err.Error(),
		})
	}

	msg := RegisterUserMessage{
		Username: payload.Username,
		Password: payload.Password,
		Email:    payload.Email,
	}

	if payload.Birthday != "" {
		birthday, err := parseBirthday(payload.Birthday)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "validation failed",
				"errors":  "birthday must be a YYYY-MM-DD date",
			})
		}
		msg.Birthday = birthday
	}

	handler := NewRegisterUserHandler(a.Repo)
	user, err := handler.Execute(c.UserContext(), msg)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryConflict {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "username or email already exists",
			})
		}

		a.Logger.Error("Registration failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user.Public(),
	})
}
