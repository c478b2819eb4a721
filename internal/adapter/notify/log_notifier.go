package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/core/domain"
)

// LogNotifier "sends" a notification by writing it to the log.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.Info("order confirmation sent",
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
		zap.Int64("total", event.Total),
		zap.Int("lines", len(event.Lines)),
	)
	return nil
}
