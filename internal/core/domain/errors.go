package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrMalformedToken = fmt.Errorf("%w: malformed or unsigned", ErrInvalidToken)

	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrProductUnavailable  = errors.New("product unavailable")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrConflict is returned for stale-version writes when optimistic locking is enabled.
	ErrConflict = errors.New("conflict")
	ErrInternal = errors.New("internal fault")

	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidQuantity   = fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmailTaken        = errors.New("email already in use")
)
