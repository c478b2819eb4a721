package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/core/domain"
	"github.com/rl1809/shopcore/internal/port"
)

type RelayOptions struct {
	Interval  time.Duration
	Grace     time.Duration
	BatchSize int
	Now       func() time.Time

	// MaxAttempts is how many passes may fail on one record before the
	// relay stops retrying it.
	MaxAttempts  int
	StoreTimeout time.Duration
}

// A pass ends early after this many failures in a row.
const maxConsecutiveFailures = 3

type recordPublisher interface {
	Publish(ctx context.Context, record domain.OutboxRecord) error
}

// OutboxRelay republishes order events whose first publish attempt did not
// complete. Records younger than Grace are left to the publisher workers.
type OutboxRelay struct {
	outbox    port.OutboxRepository
	publisher recordPublisher
	logger    *zap.Logger
	interval  time.Duration
	grace     time.Duration
	batchSize int
	now       func() time.Time

	maxAttempts  int
	storeTimeout time.Duration
	// failures counts failed passes per record id. Only Run's goroutine
	// touches it.
	failures map[string]int
}

func NewOutboxRelay(outbox port.OutboxRepository, publisher recordPublisher, logger *zap.Logger, opts RelayOptions) *OutboxRelay {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.Grace <= 0 {
		opts.Grace = 30 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		logger:    logger,
		interval:  opts.Interval,
		grace:     opts.Grace,
		batchSize: opts.BatchSize,
		now:       opts.Now,

		maxAttempts:  opts.MaxAttempts,
		storeTimeout: opts.StoreTimeout,
		failures:     make(map[string]int),
	}
}

func (r *OutboxRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started", zap.Duration("interval", r.interval), zap.Duration("grace", r.grace))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				r.logger.Error("outbox relay pass failed", zap.Error(err))
			}
		}
	}
}

// RelayOnce publishes one batch and reports how many records went out.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	cutoff := r.now().UTC().Add(-r.grace)
	pending, err := bounded(ctx, r.storeTimeout, func(ctx context.Context) ([]domain.OutboxRecord, error) {
		return r.outbox.PendingOutbox(ctx, cutoff, r.batchSize)
	})
	if err != nil {
		return 0, err
	}

	published, streak := 0, 0
	for _, rec := range pending {
		if r.failures[rec.ID] >= r.maxAttempts {
			continue
		}
		if err := r.publisher.Publish(ctx, rec); err != nil {
			r.failures[rec.ID]++
			streak++
			if r.failures[rec.ID] >= r.maxAttempts {
				r.logger.Error("outbox record abandoned after repeated failures",
					zap.String("order_id", rec.ID),
					zap.Int("attempts", r.failures[rec.ID]),
					zap.Error(err),
				)
			} else {
				r.logger.Warn("outbox relay publish failed", zap.String("order_id", rec.ID), zap.Error(err))
			}
			// Several failures in a row mean the broker is down.
			if streak >= maxConsecutiveFailures {
				break
			}
			continue
		}
		delete(r.failures, rec.ID)
		streak = 0
		published++
	}
	if published > 0 {
		r.logger.Info("outbox relay published events", zap.Int("count", published))
	}
	return published, nil
}
