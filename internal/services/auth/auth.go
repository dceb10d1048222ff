// Package auth provides authentication services
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/findosh/folio/internal/config"
	"github.com/findosh/folio/internal/models"
	"github.com/findosh/folio/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidInput       = errors.New("email and a password of at least 8 characters are required")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid token")
)

// Service handles authentication operations
type Service struct {
	cfg      *config.Config
	userRepo *storage.UserRepository
}

// NewService creates a new auth service
func NewService(cfg *config.Config, userRepo *storage.UserRepository) *Service {
	return &Service{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// RegisterInput contains registration data
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register creates a new user account
func (s *Service) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") || len(input.Password) < 8 {
		return nil, ErrInvalidInput
	}

	exists, err := s.userRepo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, input.Name, string(hash))
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput contains login credentials
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
	Expires time.Time    `json:"expires"`
}

// Login authenticates a user and issues a signed token
func (s *Service) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expires := time.Now().UTC().Add(s.cfg.SessionDuration)
	token, err := s.createToken(user, expires)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &LoginResult{
		User:    user,
		Token:   token,
		Expires: expires,
	}, nil
}

// ValidateToken verifies a JWT token and returns the user
func (s *Service) ValidateToken(tokenString string) (*models.User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return user, nil
}

func (s *Service) createToken(user *models.User, expires time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}
