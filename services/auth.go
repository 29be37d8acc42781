package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/models"
)

const sessionIssuer = "portfolio-dashboard"

// AdminUserStore is the persistence the auth service needs.
// database.AdminUserRepo implements it.
type AdminUserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	Add(ctx context.Context, user *models.AdminUser) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Session is an issued dashboard session.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.AdminUser
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// AuthService checks dashboard credentials and issues signed session tokens.
type AuthService struct {
	users     AdminUserStore
	secret    []byte
	ttl       time.Duration
	cost      int
	dummyHash []byte
	now       func() time.Time
	logger    zerolog.Logger
}

func NewAuthService(users AdminUserStore, secret string, ttl time.Duration, opts ...func(*AuthService)) (*AuthService, error) {
	if secret == "" {
		return nil, errs.NewConfigMissingError("SECRET_KEY")
	}
	s := &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
		logger: log.With().Str("service", "auth").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.cost)
	if err != nil {
		return nil, fmt.Errorf("generating dummy hash: %w", err)
	}
	s.dummyHash = dummy
	return s, nil
}

func WithAuthClock(now func() time.Time) func(*AuthService) {
	return func(s *AuthService) {
		s.now = now
	}
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) func(*AuthService) {
	return func(s *AuthService) {
		s.cost = cost
	}
}

// Login verifies the credentials and opens a session. Unknown usernames and
// wrong passwords produce the same error after the same amount of work.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("looking up admin user: %w", err)
		}
		bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		s.logger.Info().Str("username", username).Msg("Login failed")
		return nil, errs.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info().Str("username", username).Msg("Login failed")
		return nil, errs.NewInvalidCredentialsError()
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("userID", user.ID.String()).Msg("Failed to record last login")
	}

	token, expiresAt, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) IssueToken(user *models.AdminUser) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: user.Username,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify checks a session token and returns the admin user ID it was issued to.
func (s *AuthService) Verify(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, errs.NewMissingTokenError()
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, errs.NewTokenExpiredError()
		}
		return uuid.Nil, errs.NewInvalidTokenError()
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.NewInvalidTokenError()
	}
	return id, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// SeedAdmin creates the configured admin account when it does not exist yet.
// It reports whether a user was created.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}

	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("looking up admin user: %w", err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return false, err
	}
	if err := s.users.Add(ctx, &models.AdminUser{Username: username, PasswordHash: hash}); err != nil {
		return false, fmt.Errorf("creating admin user: %w", err)
	}
	s.logger.Info().Str("username", username).Msg("Seeded admin user")
	return true, nil
}
