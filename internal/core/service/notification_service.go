package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/core/domain"
	"github.com/rl1809/shopcore/internal/port"
)

const notifiedKeyPrefix = "notified:"

// NotificationService sends one confirmation per order no matter how many
// times the broker delivers its event.
type NotificationService struct {
	dedup    port.DedupStore
	notifier port.Notifier
	logger   *zap.Logger

	storeTimeout time.Duration
}

func NewNotificationService(dedup port.DedupStore, notifier port.Notifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dedup:        dedup,
		notifier:     notifier,
		logger:       logger,
		storeTimeout: DefaultStoreTimeout,
	}
}

// SetStoreTimeout bounds each repository call. It must be called before the
// service handles requests.
func (s *NotificationService) SetStoreTimeout(d time.Duration) {
	s.storeTimeout = d
}

func (s *NotificationService) Handle(ctx context.Context, event domain.OrderPlacedEvent) error {
	ctx, span := tracer.Start(ctx, "notification.order_placed")
	defer span.End()

	key := notifiedKeyPrefix + event.OrderID
	claimed, err := bounded(ctx, s.storeTimeout, func(ctx context.Context) (bool, error) {
		return s.dedup.Claim(ctx, key)
	})
	if err != nil {
		return fmt.Errorf("%w: claim %s: %w", domain.ErrUpstreamUnavailable, key, err)
	}
	if !claimed {
		s.logger.Info("duplicate order event skipped", zap.String("order_id", event.OrderID))
		return nil
	}

	if err := s.notifier.NotifyOrderPlaced(ctx, event); err != nil {
		span.RecordError(err)
		relErr := boundedExec(ctx, s.storeTimeout, func(ctx context.Context) error {
			return s.dedup.Release(ctx, key)
		})
		if relErr != nil {
			s.logger.Error("release notification claim failed",
				zap.String("order_id", event.OrderID),
				zap.Error(relErr),
			)
		}
		return fmt.Errorf("notify order %s: %w", event.OrderID, err)
	}

	s.logger.Info("order confirmation sent",
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
	)
	return nil
}
