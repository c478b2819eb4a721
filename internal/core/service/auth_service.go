package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/core/domain"
	"github.com/rl1809/shopcore/internal/port"
)

const minPasswordLength = 8

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

// AuthService owns credentials and hands out token pairs. It is the only
// place where passwords are checked.
type AuthService struct {
	accounts port.AccountRepository
	hasher   port.PasswordHasher
	tokens   *TokenService
	logger   *zap.Logger
	admins   map[string]bool

	storeTimeout time.Duration
}

func NewAuthService(accounts port.AccountRepository, hasher port.PasswordHasher, tokens *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts:     accounts,
		hasher:       hasher,
		tokens:       tokens,
		logger:       logger,
		storeTimeout: DefaultStoreTimeout,
	}
}

// SetStoreTimeout bounds each repository call. It must be called before the
// service handles requests.
func (s *AuthService) SetStoreTimeout(d time.Duration) {
	s.storeTimeout = d
}

// SetAdminEmails lists the addresses that receive the ADMIN role when they
// register. It must be called before the service handles requests.
func (s *AuthService) SetAdminEmails(emails []string) {
	s.admins = make(map[string]bool, len(emails))
	for _, e := range emails {
		s.admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.UserProfile, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.UserProfile{}, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return domain.UserProfile{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role == domain.RoleUser && s.admins[email] {
		role = domain.RoleAdmin
	}
	// Self-registration never grants elevated roles.
	if in.Role != "" && in.Role != domain.RoleUser {
		return domain.UserProfile{}, fmt.Errorf("%w: role %q cannot be self-assigned", domain.ErrInvalidInput, role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if account.DisplayName == "" {
		account.DisplayName = email
	}

	err = boundedExec(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.accounts.CreateAccount(ctx, account)
	})
	if err != nil {
		return domain.UserProfile{}, err
	}

	s.logger.Info("account registered", zap.String("user_id", account.ID))
	return account.Profile(), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	account, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (*domain.Account, error) {
		return s.accounts.GetAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.TokenPair{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("load account: %w", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	return s.tokens.IssuePair(account.ID, account.Role)
}

// Refresh exchanges a valid refresh token for a new pair. The role is
// re-read from the account so demotions take effect on refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.tokens.VerifyKind(refreshToken, domain.TokenKindRefresh)
	if err != nil {
		return domain.TokenPair{}, err
	}

	account, err := s.loadAccount(ctx, claims.SubjectID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.TokenPair{}, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("load account: %w", err)
	}

	return s.tokens.IssuePair(account.ID, account.Role)
}

// GetUser serves the User Lookup contract.
func (s *AuthService) GetUser(ctx context.Context, userID string) (domain.UserProfile, error) {
	account, err := s.loadAccount(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return account.Profile(), nil
}

func (s *AuthService) loadAccount(ctx context.Context, id string) (*domain.Account, error) {
	return bounded(ctx, s.storeTimeout, func(ctx context.Context) (*domain.Account, error) {
		return s.accounts.GetAccount(ctx, id)
	})
}
