package domain

import "time"

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Claims is the verified content of an identity token.
type Claims struct {
	TokenID   string
	SubjectID string
	Role      string
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Token struct {
	Value     string
	Kind      TokenKind
	ExpiresAt time.Time
}

type TokenPair struct {
	Access  Token
	Refresh Token
}

// AuthContext is the identity asserted by the gateway for a single request.
// It is never persisted.
type AuthContext struct {
	SubjectID string
	Role      string
}

func (a AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Account is the credential record owned by the identity service.
type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	DisplayName  string
	Role         string
	CreatedAt    time.Time
}

// UserProfile is what the User Lookup contract exposes to other services.
type UserProfile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

func (a Account) Profile() UserProfile {
	return UserProfile{UserID: a.ID, DisplayName: a.DisplayName, Email: a.Email}
}
