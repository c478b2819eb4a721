package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/core/domain"
)

// Mock AccountRepository
type mockAccountRepo struct {
	mu        sync.Mutex
	byID      map[string]domain.Account
	getErr    error
	createErr error
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{byID: make(map[string]domain.Account)}
}

func (m *mockAccountRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.byID {
		if existing.Email == a.Email {
			return domain.ErrEmailTaken
		}
	}
	m.byID[a.ID] = a
	return nil
}

func (m *mockAccountRepo) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, a := range m.byID {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAccountRepo) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

// plainHasher keeps tests fast; bcrypt is covered in the password package.
type plainHasher struct{}

func (plainHasher) Hash(p string) ([]byte, error) { return []byte("h:" + p), nil }

func (plainHasher) Compare(hash []byte, p string) error {
	if string(hash) != "h:"+p {
		return errors.New("mismatch")
	}
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *mockAccountRepo, *TokenService) {
	t.Helper()
	repo := newMockAccountRepo()
	tokens := newTestTokenService(t, &fakeClock{t: time.Now()})
	return NewAuthService(repo, plainHasher{}, tokens, zap.NewNop()), repo, tokens
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	ctx := context.Background()

	profile, err := svc.Register(ctx, RegisterInput{Email: " Alice@Example.com ", Password: "password1", DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if profile.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", profile.Email)
	}

	pair, err := svc.Login(ctx, "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := tokens.VerifyKind(pair.Access.Value, domain.TokenKindAccess)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.SubjectID != profile.UserID || claims.Role != domain.RoleUser {
		t.Errorf("unexpected claims %+v", claims)
	}
	if _, err := tokens.VerifyKind(pair.Refresh.Value, domain.TokenKindRefresh); err != nil {
		t.Errorf("verify refresh: %v", err)
	}
}

func TestAuth_RegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "not-an-email", Password: "password1"},
		{Email: "a@b.c", Password: "short"},
		{Email: "a@b.c", Password: "password1", Role: domain.RoleAdmin},
	}
	for _, in := range cases {
		if _, err := svc.Register(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
	}

	if _, err := svc.Register(ctx, RegisterInput{Email: "dup@b.c", Password: "password1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "dup@b.c", Password: "password2"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuth_LoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "bob@example.com", Password: "password1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, errWrongPass := svc.Login(ctx, "bob@example.com", "nope-nope")
	_, errNoUser := svc.Login(ctx, "nobody@example.com", "password1")

	if !errors.Is(errWrongPass, domain.ErrUnauthorized) || !errors.Is(errNoUser, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v / %v", errWrongPass, errNoUser)
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Errorf("expected identical messages, got %q vs %q", errWrongPass, errNoUser)
	}
}

func TestAuth_LoginStoreFailure(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	repo.getErr = errors.New("connection refused")

	_, err := svc.Login(context.Background(), "bob@example.com", "password1")
	if err == nil || errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected store failure to surface as non-auth error, got %v", err)
	}
}

func TestAuth_Refresh(t *testing.T) {
	svc, repo, tokens := newTestAuthService(t)
	ctx := context.Background()

	profile, _ := svc.Register(ctx, RegisterInput{Email: "carol@example.com", Password: "password1"})
	pair, _ := svc.Login(ctx, "carol@example.com", "password1")

	if _, err := svc.Refresh(ctx, pair.Access.Value); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected access token refused for refresh, got %v", err)
	}

	// Promotion is picked up on refresh.
	repo.mu.Lock()
	a := repo.byID[profile.UserID]
	a.Role = domain.RoleAdmin
	repo.byID[profile.UserID] = a
	repo.mu.Unlock()

	next, err := svc.Refresh(ctx, pair.Refresh.Value)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, _ := tokens.Verify(next.Access.Value)
	if claims.Role != domain.RoleAdmin {
		t.Errorf("expected refreshed role ADMIN, got %s", claims.Role)
	}

	repo.mu.Lock()
	delete(repo.byID, profile.UserID)
	repo.mu.Unlock()
	if _, err := svc.Refresh(ctx, pair.Refresh.Value); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for deleted account, got %v", err)
	}
}

func TestAuth_GetUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	profile, _ := svc.Register(ctx, RegisterInput{Email: "dan@example.com", Password: "password1", DisplayName: "Dan"})

	got, err := svc.GetUser(ctx, profile.UserID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.DisplayName != "Dan" {
		t.Errorf("expected Dan, got %q", got.DisplayName)
	}
	if _, err := svc.GetUser(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAuth_AdminEmailsGetAdminRole(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	svc.SetAdminEmails([]string{" Ops@Example.com "})
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "ops@example.com", Password: "password1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "bob@example.com", Password: "password1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for email, want := range map[string]string{"ops@example.com": domain.RoleAdmin, "bob@example.com": domain.RoleUser} {
		pair, err := svc.Login(ctx, email, "password1")
		if err != nil {
			t.Fatalf("login %s: %v", email, err)
		}
		claims, err := tokens.VerifyKind(pair.Access.Value, domain.TokenKindAccess)
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if claims.Role != want {
			t.Errorf("%s: expected role %s, got %s", email, want, claims.Role)
		}
	}
}
