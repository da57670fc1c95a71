package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"counterpos/internal/domain"
	"counterpos/internal/repos"
)

var (
	ErrBadCreds       = errors.New("invalid email or password")
	ErrTokensDisabled = errors.New("api tokens are not configured")
	ErrBadToken       = errors.New("invalid or expired token")
)

const defaultSessionTTL = 24 * time.Hour

type AuthService struct {
	Users *repos.UserRepo

	OwnerEmail string
	OwnerHash  string
	JWTSecret  []byte

	SessionTTL time.Duration
	TokenTTL   time.Duration
	Now        func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return defaultSessionTTL
}

// Authenticate verifies credentials against the configured owner first, then staff.
// userID is empty for the owner.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Principal, string, error) {
	if s.OwnerEmail != "" && s.OwnerHash != "" && strings.EqualFold(email, s.OwnerEmail) {
		if bcrypt.CompareHashAndPassword([]byte(s.OwnerHash), []byte(password)) == nil {
			return &domain.Principal{Email: s.OwnerEmail, Name: "Owner", Role: domain.RoleOwner}, "", nil
		}
	}
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	name := u.Name
	if name == "" {
		name = "Staff"
	}
	return &domain.Principal{Email: u.Email, Name: name, Role: domain.RoleSale}, u.ID, nil
}

// Login binds the authenticated identity to the opaque session id.
func (s *AuthService) Login(ctx context.Context, sid, email, password string) (*domain.Principal, error) {
	p, userID, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(ctx, sid, userID, *p, s.now().Add(s.sessionTTL())); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Users.UnbindSession(ctx, sid)
}

func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.Principal, error) {
	return s.Users.SessionPrincipal(ctx, sid, s.now())
}

type tokenClaims struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 bearer token for terminal API clients.
func (s *AuthService) IssueToken(p *domain.Principal) (string, time.Time, error) {
	if len(s.JWTSecret) == 0 {
		return "", time.Time{}, ErrTokensDisabled
	}
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = s.sessionTTL()
	}
	now := s.now()
	exp := now.Add(ttl)
	claims := tokenClaims{
		Name: p.Name,
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
	return tok, exp, err
}

func (s *AuthService) ParseToken(tok string) (*domain.Principal, error) {
	if len(s.JWTSecret) == 0 {
		return nil, ErrTokensDisabled
	}
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) {
		return s.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || claims.Subject == "" {
		return nil, ErrBadToken
	}
	return &domain.Principal{Email: claims.Subject, Name: claims.Name, Role: claims.Role}, nil
}
