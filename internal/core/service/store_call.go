package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rl1809/shopcore/internal/core/domain"
)

// DefaultStoreTimeout bounds one repository round trip.
const DefaultStoreTimeout = 3 * time.Second

// bounded runs call with a deadline of timeout. A call that runs out of time
// reports ErrUpstreamUnavailable.
func bounded[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := call(callCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrUpstreamUnavailable) {
		return v, fmt.Errorf("%w: store call timed out: %w", domain.ErrUpstreamUnavailable, err)
	}
	return v, err
}

func boundedExec(ctx context.Context, timeout time.Duration, call func(context.Context) error) error {
	_, err := bounded(ctx, timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, call(ctx)
	})
	return err
}
