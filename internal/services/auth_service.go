package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nabilhq/openwall/backend/internal/logging"
	"github.com/nabilhq/openwall/backend/internal/models"
	"github.com/nabilhq/openwall/backend/internal/repositories"
)

const tokenTTL = 72 * time.Hour

// AuthService handles registration and credential verification.
type AuthService struct {
	users     repositories.UserRepository
	jwtSecret string
	logger    *logging.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, jwtSecret string, logger *logging.Logger) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, logger: logger}
}

// AuthResult is a successful registration or login.
type AuthResult struct {
	Token string
	User  *models.User
}

// Register creates a new account and returns a signed token for it.
func (s *AuthService) Register(email, password, name string) (*AuthResult, error) {
	if email == "" || password == "" || name == "" {
		return nil, NewValidationError("you must provide email, password, and name")
	}

	_, err := s.users.GetUserByEmail(email)
	if err == nil {
		return nil, NewConflictError("email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewInternalError("looking up email", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewInternalError("hashing password", err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: string(hashed),
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, NewInternalError("creating user", err)
	}

	token, err := s.TokenForUser(user)
	if err != nil {
		return nil, NewInternalError("signing token", err)
	}

	s.logger.Info("user registered", map[string]interface{}{"user_id": user.ID})
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and returns a signed token with the profile.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, NewValidationError("you must provide email and password")
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewAuthError("invalid email or password")
		}
		return nil, NewInternalError("looking up email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, NewAuthError("invalid email or password")
	}

	token, err := s.TokenForUser(user)
	if err != nil {
		return nil, NewInternalError("signing token", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// TokenForUser signs an HS256 JWT carrying the user's id and email.
func (s *AuthService) TokenForUser(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
