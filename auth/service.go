package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielk69/AWIL/models"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password; callers cannot tell which.
var ErrInvalidCredentials = errors.New("invalid credentials")

// MinPasswordLength applies when setting a password.
const MinPasswordLength = 8

// AdminStore persists admin credentials.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	SavePasswordHash(ctx context.Context, username, hash string) error
}

// Service checks admin credentials against bcrypt hashes and issues tokens.
type Service struct {
	admins AdminStore
	tokens *TokenIssuer
	logger *zap.Logger
}

func NewService(admins AdminStore, tokens *TokenIssuer, logger *zap.Logger) *Service {
	return &Service{admins: admins, tokens: tokens, logger: logger}
}

// Login returns a bearer token for valid credentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	admin, err := s.admins.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, fmt.Errorf("failed to load admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Rejected login", zap.String("username", admin.Username))
		return "", time.Time{}, ErrInvalidCredentials
	}

	return s.tokens.Issue(admin.Username)
}

// SetPassword creates the admin or replaces its password.
func (s *Service) SetPassword(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username is required")
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.admins.SavePasswordHash(ctx, username, string(hash))
}
