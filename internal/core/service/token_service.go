package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rl1809/shopcore/internal/core/domain"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour

	tokenIssuer     = "shopcore/identity"
	minSecretLength = 32
)

var errWeakSecret = fmt.Errorf("token secret must be at least %d bytes", minSecretLength)

// tokenClaims is the wire form of domain.Claims.
type tokenClaims struct {
	jwt.RegisteredClaims
	Role string           `json:"role"`
	Kind domain.TokenKind `json:"kind"`
}

type TokenOptions struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Now overrides the wall clock, used for both issuance and verification.
	Now func() time.Time
}

// TokenService issues and verifies HS256 identity tokens signed with a
// shared secret.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

func NewTokenService(secret []byte, opts TokenOptions) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, errWeakSecret
	}
	s := &TokenService{
		secret:     secret,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		now:        opts.Now,
	}
	if s.accessTTL <= 0 {
		s.accessTTL = DefaultAccessTTL
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = DefaultRefreshTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	return s, nil
}

func (s *TokenService) IssueAccessToken(subjectID, role string) (domain.Token, error) {
	return s.issue(subjectID, role, domain.TokenKindAccess, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(subjectID, role string) (domain.Token, error) {
	return s.issue(subjectID, role, domain.TokenKindRefresh, s.refreshTTL)
}

func (s *TokenService) IssuePair(subjectID, role string) (domain.TokenPair, error) {
	access, err := s.IssueAccessToken(subjectID, role)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.IssueRefreshToken(subjectID, role)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) issue(subjectID, role string, kind domain.TokenKind, ttl time.Duration) (domain.Token, error) {
	if subjectID == "" || role == "" {
		return domain.Token{}, fmt.Errorf("%w: subject and role are required", domain.ErrInvalidInput)
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
		Kind: kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.Token{}, fmt.Errorf("sign token: %w", err)
	}

	return domain.Token{Value: signed, Kind: kind, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks signature first, then expiry against the current clock.
// Claims of a token whose signature does not verify are never returned, so
// an expired token signed with another key is ErrMalformedToken rather than
// ErrExpiredToken. ErrExpiredToken always means a genuine token that aged out.
func (s *TokenService) Verify(raw string) (domain.Claims, error) {
	claims := &tokenClaims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, domain.ErrExpiredToken
		}
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	if claims.Subject == "" || claims.Role == "" {
		return domain.Claims{}, fmt.Errorf("%w: missing subject or role", domain.ErrMalformedToken)
	}
	if claims.Kind != domain.TokenKindAccess && claims.Kind != domain.TokenKindRefresh {
		return domain.Claims{}, fmt.Errorf("%w: unknown token kind %q", domain.ErrMalformedToken, claims.Kind)
	}

	out := domain.Claims{
		TokenID:   claims.ID,
		SubjectID: claims.Subject,
		Role:      claims.Role,
		Kind:      claims.Kind,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// VerifyKind is Verify plus a check that the token is of the expected kind.
func (s *TokenService) VerifyKind(raw string, kind domain.TokenKind) (domain.Claims, error) {
	claims, err := s.Verify(raw)
	if err != nil {
		return domain.Claims{}, err
	}
	if claims.Kind != kind {
		return domain.Claims{}, fmt.Errorf("%w: expected %s token", domain.ErrMalformedToken, kind)
	}
	return claims, nil
}
