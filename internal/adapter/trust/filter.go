package trust

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/core/domain"
)

// Identity headers asserted by the gateway. They are meaningless on any
// request that did not come through it.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

// DefaultTrustedCIDRs covers loopback and private ranges.
var DefaultTrustedCIDRs = []string{"127.0.0.0/8", "::1/128", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}

type ctxKey struct{}

func ParseCIDRs(cidrs []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		p, err := netip.ParsePrefix(c)
		if err != nil {
			return nil, fmt.Errorf("parse trusted cidr %q: %w", c, err)
		}
		prefixes = append(prefixes, p.Masked())
	}
	return prefixes, nil
}

// Filter turns gateway identity headers into an AuthContext. It never
// invents identity: requests without headers stay anonymous.
type Filter struct {
	trusted []netip.Prefix
	logger  *zap.Logger
}

func NewFilter(trusted []netip.Prefix, logger *zap.Logger) *Filter {
	return &Filter{trusted: trusted, logger: logger}
}

func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !f.fromTrustedPeer(r) {
			f.logger.Warn("identity header from untrusted peer ignored",
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("path", r.URL.Path),
			)
			r.Header.Del(HeaderUserID)
			r.Header.Del(HeaderUserRole)
			next.ServeHTTP(w, r)
			return
		}

		auth := domain.AuthContext{SubjectID: userID, Role: r.Header.Get(HeaderUserRole)}
		next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), auth)))
	})
}

func (f *Filter) fromTrustedPeer(r *http.Request) bool {
	ap, err := netip.ParseAddrPort(r.RemoteAddr)
	if err != nil {
		return false
	}
	addr := ap.Addr().Unmap()
	for _, p := range f.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func WithAuth(ctx context.Context, auth domain.AuthContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, auth)
}

func FromContext(ctx context.Context) (domain.AuthContext, bool) {
	auth, ok := ctx.Value(ctxKey{}).(domain.AuthContext)
	return auth, ok
}

// Require returns the caller's identity or domain.ErrUnauthorized.
func Require(ctx context.Context) (domain.AuthContext, error) {
	auth, ok := FromContext(ctx)
	if !ok || auth.SubjectID == "" {
		return domain.AuthContext{}, domain.ErrUnauthorized
	}
	return auth, nil
}
