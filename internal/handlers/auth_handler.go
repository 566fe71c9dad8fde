package handlers

import (
	"errors"

	"firebase.google.com/go/v4/auth"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nabilhq/openwall/backend/internal/models"
	"github.com/nabilhq/openwall/backend/internal/repositories"
	"github.com/nabilhq/openwall/backend/internal/services"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService    *services.AuthService
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client // nil when Firebase is not configured
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, userRepo repositories.UserRepository, firebaseAuthClient *auth.Client) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(e *echo.Echo) {
	e.POST("/signup", h.Signup)
	e.POST("/signin", h.Signin)
	e.POST("/firebase-login", h.FirebaseLogin)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, services.NewValidationError("invalid request payload"))
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return fail(c, services.NewValidationError(err.Error()))
	}

	result, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, echo.Map{"token": result.Token})
}

// Signin handles local user authentication with email and password
func (h *AuthHandler) Signin(c echo.Context) error {
	var req models.SigninRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, services.NewValidationError("invalid request payload"))
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return fail(c, services.NewValidationError(err.Error()))
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, echo.Map{
		"token": result.Token,
		"id":    result.User.ID,
		"name":  result.User.Name,
		"email": result.User.Email,
		"image": result.User.Image,
	})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token, reconciles the account by
// email, and issues a local JWT.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return fail(c, services.NewAuthError("firebase login is not configured"))
	}

	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, services.NewValidationError("invalid request payload"))
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return fail(c, services.NewValidationError(err.Error()))
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return fail(c, services.NewAuthError("invalid firebase ID token"))
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return fail(c, services.NewAuthError("firebase token carries no email"))
	}
	name, _ := token.Claims["name"].(string)

	user, err := h.userRepository.GetUserByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, services.NewInternalError("looking up user", err))
		}
		user = &models.User{Email: email, Name: name}
		if err := h.userRepository.CreateUser(user); err != nil {
			return fail(c, services.NewInternalError("creating user", err))
		}
	}

	localJWT, err := h.authService.TokenForUser(user)
	if err != nil {
		return fail(c, services.NewInternalError("signing token", err))
	}

	return ok(c, echo.Map{
		"token": localJWT,
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"image": user.Image,
	})
}
