package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/rl1809/shopcore/internal/core/domain"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokenService(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, TokenOptions{Now: clock.Now})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestTokenService_RoundTripProperty(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("issued access token verifies to the same subject and role", prop.ForAll(
		func(subject, role string) bool {
			tok, err := svc.IssueAccessToken(subject, role)
			if err != nil {
				return false
			}
			claims, err := svc.Verify(tok.Value)
			if err != nil {
				return false
			}
			return claims.SubjectID == subject && claims.Role == role && claims.Kind == domain.TokenKindAccess
		},
		gen.Identifier(),
		gen.OneConstOf(domain.RoleUser, domain.RoleAdmin, "SUPPORT"),
	))

	properties.Property("refresh tokens round-trip too", prop.ForAll(
		func(subject string) bool {
			tok, err := svc.IssueRefreshToken(subject, domain.RoleUser)
			if err != nil {
				return false
			}
			claims, err := svc.VerifyKind(tok.Value, domain.TokenKindRefresh)
			return err == nil && claims.SubjectID == subject
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

func TestTokenService_ExpiryWindows(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(t, clock)

	access, err := svc.IssueAccessToken("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	refresh, err := svc.IssueRefreshToken("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	if got := access.ExpiresAt.Sub(clock.Now()); got != 15*time.Minute {
		t.Errorf("expected access ttl 15m, got %v", got)
	}
	if got := refresh.ExpiresAt.Sub(clock.Now()); got != 7*24*time.Hour {
		t.Errorf("expected refresh ttl 7d, got %v", got)
	}

	clock.Advance(14 * time.Minute)
	if _, err := svc.Verify(access.Value); err != nil {
		t.Errorf("expected access token valid after 14m, got %v", err)
	}

	clock.Advance(2 * time.Minute)
	_, err = svc.Verify(access.Value)
	if !errors.Is(err, domain.ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken after 16m, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected expired token to also be an invalid token, got %v", err)
	}

	if _, err := svc.Verify(refresh.Value); err != nil {
		t.Errorf("expected refresh token still valid, got %v", err)
	}

	clock.Advance(7 * 24 * time.Hour)
	if _, err := svc.Verify(refresh.Value); !errors.Is(err, domain.ErrExpiredToken) {
		t.Errorf("expected refresh token expired, got %v", err)
	}
}

func TestTokenService_ExpiredRegardlessOfIssuer(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	// A second service with the same secret but a clock far in the past.
	past := &fakeClock{t: clock.Now().Add(-48 * time.Hour)}
	oldIssuer := newTestTokenService(t, past)

	for _, kind := range []domain.TokenKind{domain.TokenKindAccess, domain.TokenKindRefresh} {
		var tok domain.Token
		var err error
		if kind == domain.TokenKindAccess {
			tok, err = oldIssuer.IssueAccessToken("user-1", domain.RoleUser)
		} else {
			oldIssuer.refreshTTL = time.Hour
			tok, err = oldIssuer.IssueRefreshToken("user-1", domain.RoleUser)
		}
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if _, err := svc.Verify(tok.Value); !errors.Is(err, domain.ErrExpiredToken) {
			t.Errorf("%s: expected ErrExpiredToken, got %v", kind, err)
		}
	}
}

func TestTokenService_RejectsBadSignatures(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	other, err := NewTokenService([]byte("ffffffffffffffffffffffffffffffff"), TokenOptions{Now: clock.Now})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	foreign, _ := other.IssueAccessToken("user-1", domain.RoleAdmin)

	valid, _ := svc.IssueAccessToken("user-1", domain.RoleUser)
	parts := strings.Split(valid.Value, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "user-1",
		"role": domain.RoleAdmin,
		"kind": "access",
		"iss":  tokenIssuer,
		"exp":  clock.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	cases := map[string]string{
		"foreign secret": foreign.Value,
		"tampered":       tampered,
		"alg none":       unsigned,
		"garbage":        "not-a-token",
		"empty":          "",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(raw)
			if !errors.Is(err, domain.ErrMalformedToken) {
				t.Errorf("expected ErrMalformedToken, got %v", err)
			}
		})
	}
}

func TestTokenService_ExpiredForeignTokenIsMalformed(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	past := &fakeClock{t: clock.Now().Add(-time.Hour)}
	other, _ := NewTokenService([]byte("ffffffffffffffffffffffffffffffff"), TokenOptions{Now: past.Now})
	tok, _ := other.IssueAccessToken("user-1", domain.RoleUser)

	// Signature is checked before expiry, so claims of a foreign token are never read.
	if _, err := svc.Verify(tok.Value); !errors.Is(err, domain.ErrMalformedToken) {
		t.Errorf("expected ErrMalformedToken, got %v", err)
	}
}

func TestTokenService_VerifyKind(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	refresh, _ := svc.IssueRefreshToken("user-1", domain.RoleUser)
	if _, err := svc.VerifyKind(refresh.Value, domain.TokenKindAccess); !errors.Is(err, domain.ErrMalformedToken) {
		t.Errorf("expected refresh token rejected as access token, got %v", err)
	}
}

func TestTokenService_Validation(t *testing.T) {
	if _, err := NewTokenService([]byte("short"), TokenOptions{}); err == nil {
		t.Error("expected weak secret to be rejected")
	}

	svc := newTestTokenService(t, &fakeClock{t: time.Now()})
	if _, err := svc.IssueAccessToken("", domain.RoleUser); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty subject, got %v", err)
	}
	if _, err := svc.IssueAccessToken("user-1", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty role, got %v", err)
	}
}
