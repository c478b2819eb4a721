package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/adapter/handler"
	"github.com/rl1809/shopcore/internal/adapter/trust"
	"github.com/rl1809/shopcore/internal/core/domain"
)

type tokenVerifier interface {
	VerifyKind(raw string, kind domain.TokenKind) (domain.Claims, error)
}

// EdgeAuthenticator is the only place a bearer token is verified. Requests
// leave it either rejected or carrying trust.HeaderUserID and
// trust.HeaderUserRole in place of the Authorization header.
type EdgeAuthenticator struct {
	verifier tokenVerifier
	public   PublicRoutes
	logger   *zap.Logger
}

func NewEdgeAuthenticator(verifier tokenVerifier, public PublicRoutes, logger *zap.Logger) *EdgeAuthenticator {
	return &EdgeAuthenticator{verifier: verifier, public: public, logger: logger}
}

func (a *EdgeAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Del(trust.HeaderUserID)
		r.Header.Del(trust.HeaderUserRole)

		if a.public.Match(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			handler.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization Header")
			return
		}

		claims, err := a.verify(raw)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrExpiredToken):
			handler.WriteError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "token has expired")
			return
		case errors.Is(err, domain.ErrInvalidToken):
			handler.WriteError(w, http.StatusUnauthorized, "TOKEN_INVALID", "token is invalid")
			return
		default:
			a.logger.Error("token verification fault",
				zap.String("path", r.URL.Path),
				zap.String("request_id", RequestIDFrom(r.Context())),
				zap.Error(err),
			)
			handler.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
			return
		}

		r.Header.Del("Authorization")
		r.Header.Set(trust.HeaderUserID, claims.SubjectID)
		r.Header.Set(trust.HeaderUserRole, claims.Role)
		next.ServeHTTP(w, r)
	})
}

func (a *EdgeAuthenticator) verify(raw string) (claims domain.Claims, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: verifier panic: %v", domain.ErrInternal, p)
		}
	}()
	return a.verifier.VerifyKind(raw, domain.TokenKindAccess)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
