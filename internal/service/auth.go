// Package service contains the application services of the repair workflow.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/and161185/repairflow/internal/crypto"
	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/limiter"
	"github.com/and161185/repairflow/internal/model"
)

// TokenType is the scheme of issued access tokens.
const TokenType = "bearer"

// AuthService defines the identity rule: login against the allow-list and token verification.
type AuthService interface {
	// Login applies rate limiting and issues an access token for a known identity.
	Login(ctx context.Context, username, password, ip string) (model.Tokens, error)
	// Authenticate resolves a bearer token to the identity it was issued for.
	Authenticate(ctx context.Context, token string) (model.Identity, error)
}

type AuthServiceImpl struct {
	users     map[string]pkgcrypto.Credential
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
	now       func() time.Time
}

// NewAuthService constructs AuthService over a static allow-list of hashed credentials.
func NewAuthService(users map[string]pkgcrypto.Credential, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	return &AuthServiceImpl{users: users, signKey: signKey, accessTTL: accessTTL, lim: lim, now: time.Now}
}

// Login authenticates with rate limiting by (username, ip).
func (s *AuthServiceImpl) Login(ctx context.Context, username, password, ip string) (model.Tokens, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Tokens{}, err
	}
	if !allowed {
		return model.Tokens{}, errs.ErrRateLimited
	}

	cred, ok := s.users[username]
	if !ok || !cred.Verify(password) {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return model.Tokens{}, errs.ErrRateLimited
		}
		// unknown user and wrong password look the same
		return model.Tokens{}, errs.ErrUnauthorized
	}

	// best-effort reset
	_ = s.lim.Success(ctx, username, ipHash)

	access, exp, err := s.issueAccessToken(username)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: access, TokenType: TokenType, ExpiresAt: exp}, nil
}

// issueAccessToken creates a signed HS256 JWT for the given subject.
func (s *AuthServiceImpl) issueAccessToken(username string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// Authenticate verifies the token signature and expiry and that its subject is still allow-listed.
func (s *AuthServiceImpl) Authenticate(_ context.Context, token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, errs.ErrUnauthorized
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.signKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, fmt.Errorf("token expired: %w", errs.ErrUnauthorized)
		}
		return model.Identity{}, fmt.Errorf("invalid token: %w", errs.ErrUnauthorized)
	}
	if _, ok := s.users[claims.Subject]; !ok {
		return model.Identity{}, fmt.Errorf("unknown subject: %w", errs.ErrUnauthorized)
	}
	return model.Identity{Username: claims.Subject}, nil
}
