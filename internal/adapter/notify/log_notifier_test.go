package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rl1809/shopcore/internal/core/domain"
)

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	err := n.NotifyOrderPlaced(context.Background(), domain.OrderPlacedEvent{OrderID: "order-1", UserID: "user-1", Total: 4999})
	require.NoError(t, err)

	entries := logs.FilterField(zap.String("order_id", "order-1")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "order confirmation sent", entries[0].Message)
}

func TestLogNotifier_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewLogNotifier(zap.NewNop()).NotifyOrderPlaced(ctx, domain.OrderPlacedEvent{OrderID: "order-1"})
	assert.ErrorIs(t, err, context.Canceled)
}
