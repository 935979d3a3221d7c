// Package auth handles registration, login and token verification. Tokens are
// stateless HS256 JWTs; idle logout is enforced separately through the
// activity store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository"
	redisrepo "github.com/cinebook/cinebook/internal/repository/redis"
)

const minPasswordLen = 8

type Config struct {
	Secret     string
	AccessTTL  time.Duration
	BcryptCost int

	Clock func() time.Time
}

type Service struct {
	store    repository.Store
	activity *redisrepo.ActivityStore
	cfg      Config
}

// Claims carried by every access token.
type Claims struct {
	UserID  int64 `json:"uid"`
	IsStaff bool  `json:"staff"`
	jwt.RegisteredClaims
}

func New(store repository.Store, activity *redisrepo.ActivityStore, cfg Config) *Service {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 24 * time.Hour
	}
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Service{
		store:    store,
		activity: activity,
		cfg:      cfg,
	}
}

// Register creates the account and returns it with a fresh access token, so a
// successful signup is also a login.
func (s *Service) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	const op = "service.auth.Register"

	if len(password) < minPasswordLen {
		return nil, "", fmt.Errorf("%s: %w", op, ErrPasswordTooShort)
	}

	if _, err := s.store.Users().GetByUsername(ctx, username); err == nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrUsernameTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	u := domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	id, err := s.store.Users().Create(ctx, u)
	if err != nil {
		// The uniqueness pre-checks race with concurrent signups; the
		// unique index is the authority.
		if errors.Is(err, repository.ErrConflict) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	u.ID = id

	token, err := s.issueToken(&u)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.markSeen(ctx, id)

	return &u, token, nil
}

// Login verifies credentials and returns a fresh access token. Wrong username
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	const op = "service.auth.Login"

	u, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.markSeen(ctx, u.ID)

	return u, token, nil
}

// Logout drops the user's last-seen mark. The token itself stays valid until
// expiry, but the idle check treats the user as gone.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	const op = "service.auth.Logout"

	if s.activity == nil {
		return nil
	}

	if err := s.activity.Clear(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ParseToken verifies the signature and expiry and returns the claims.
func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	const op = "service.auth.ParseToken"

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	const op = "service.auth.GetUser"

	u, err := s.store.Users().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *Service) issueToken(u *domain.User) (string, error) {
	now := s.cfg.Clock()

	claims := Claims{
		UserID:  u.ID,
		IsStaff: u.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *Service) markSeen(ctx context.Context, userID int64) {
	if s.activity == nil {
		return
	}
	// Best effort; the middleware refreshes the mark on every request anyway.
	_ = s.activity.Touch(ctx, userID, s.cfg.Clock())
}
