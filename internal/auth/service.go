// Package auth signs users up and in, issuing HS256 JWTs that can be revoked
// on sign-out.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecofinds/internal/apperr"
	"ecofinds/internal/cache"
	"ecofinds/internal/logger"
	"ecofinds/internal/models"
	"ecofinds/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var (
	ErrInvalidEmail       = apperr.Validation("Please enter a valid email address")
	ErrWeakPassword       = apperr.Validation(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	ErrUsernameRequired   = apperr.Validation("Username is required")
	ErrEmailTaken         = apperr.Conflict("An account with this email already exists")
	ErrInvalidCredentials = apperr.Unauthenticated("Invalid email or password")
	ErrInvalidToken       = apperr.Unauthenticated("Invalid or expired token")
	ErrProfileNotFound    = apperr.NotFound("Profile not found")
)

type UserStore interface {
	Create(ctx context.Context, u *models.UserProfile) error
	Get(ctx context.Context, id string) (*models.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	UpdateUsername(ctx context.Context, id, username string) error
}

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	User      *models.UserProfile `json:"user"`
}

type ProfileUpdate struct {
	Username string `json:"username"`
}

type Service struct {
	users    UserStore
	revoked  cache.Cache
	secret   []byte
	ttl      time.Duration
	validate *validator.Validate
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(users UserStore, revoked cache.Cache, secret string, ttl time.Duration, logger *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:    users,
		revoked:  revoked,
		secret:   []byte(secret),
		ttl:      ttl,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) SignUp(ctx context.Context, email, password, username string) (*models.UserProfile, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	if username == "" {
		return nil, ErrUsernameRequired
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.UserProfile{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User %s signed up", user.ID)
	return user, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate verifies token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	if claims.ID != "" {
		if _, err := s.revoked.Get(ctx, revokedKey(claims.ID)); err == nil {
			return nil, ErrInvalidToken
		} else if !errors.Is(err, cache.ErrMiss) {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
	}
	return claims, nil
}

// SignOut revokes token until it would have expired anyway.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Set(ctx, revokedKey(claims.ID), []byte(claims.UserID), ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.UserProfile, error) {
	username := strings.TrimSpace(update.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if err := s.users.UpdateUsername(ctx, userID, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}
