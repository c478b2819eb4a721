package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/shopcore/internal/core/domain"
)

// storeError wraps err with op. Failures to reach the store at all are
// tagged ErrUpstreamUnavailable so they map to 503 rather than 500.
func storeError(op string, err error) error {
	if isUnreachable(err) {
		return fmt.Errorf("%w: %s: %w", domain.ErrUpstreamUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnreachable(err error) bool {
	var netErr net.Error
	switch {
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return false
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, redis.ErrClosed),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &netErr):
		return true
	}
	return false
}
