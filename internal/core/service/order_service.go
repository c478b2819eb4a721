package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/core/domain"
	"github.com/rl1809/shopcore/internal/port"
)

const DefaultPublishTimeout = 5 * time.Second

var tracer = otel.Tracer("github.com/rl1809/shopcore/internal/core/service")

type OrderOptions struct {
	QueueSize      int
	PublishTimeout time.Duration
	StoreTimeout   time.Duration
	Now            func() time.Time
}

type publishJob struct {
	record domain.OutboxRecord
	span   trace.SpanContext
}

// OrderService persists orders and hands their events to a pool of
// publisher workers. The caller never waits for the broker.
type OrderService struct {
	orders         port.OrderRepository
	outbox         port.OutboxRepository
	users          port.UserLookup
	publisher      port.EventPublisher
	logger         *zap.Logger
	publishQueue   chan publishJob
	queueMu        sync.RWMutex
	queueClosed    bool
	publishTimeout time.Duration
	storeTimeout   time.Duration
	now            func() time.Time
}

func NewOrderService(
	orders port.OrderRepository,
	outbox port.OutboxRepository,
	users port.UserLookup,
	publisher port.EventPublisher,
	logger *zap.Logger,
	opts OrderOptions,
) *OrderService {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = DefaultPublishTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &OrderService{
		orders:         orders,
		outbox:         outbox,
		users:          users,
		publisher:      publisher,
		logger:         logger,
		publishQueue:   make(chan publishJob, opts.QueueSize),
		publishTimeout: opts.PublishTimeout,
		storeTimeout:   opts.StoreTimeout,
		now:            opts.Now,
	}
}

// CreateOrder returns once the order is durable. Publication of the
// order-placed event happens afterwards and never fails the call.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, lines []domain.OrderLine) (domain.Order, error) {
	ctx, span := tracer.Start(ctx, "order.create")
	defer span.End()

	if userID == "" {
		return domain.Order{}, domain.ErrUnauthorized
	}
	if len(lines) == 0 {
		return domain.Order{}, fmt.Errorf("%w: order has no lines", domain.ErrInvalidInput)
	}
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return domain.Order{}, err
		}
	}

	now := s.now().UTC()
	order := domain.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Lines:     append([]domain.OrderLine(nil), lines...),
		Total:     domain.SumLines(lines),
		Status:    domain.OrderStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	record := domain.OutboxRecord{
		ID:        order.ID,
		Event:     domain.NewOrderPlacedEvent(order),
		CreatedAt: now,
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Int64("order.total", order.Total),
		attribute.Int("order.lines", len(order.Lines)),
	)

	err := boundedExec(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.orders.CreateOrder(ctx, order, record)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist order")
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	s.enqueue(publishJob{record: record, span: span.SpanContext()})

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("total", order.Total),
	)
	return order, nil
}

func (s *OrderService) enqueue(job publishJob) {
	s.queueMu.RLock()
	defer s.queueMu.RUnlock()

	if s.queueClosed {
		s.logger.Warn("publisher stopped, deferring event to outbox relay",
			zap.String("order_id", job.record.ID),
		)
		return
	}
	select {
	case s.publishQueue <- job:
	default:
		// The outbox relay picks the record up later.
		s.logger.Warn("publish queue full, deferring event to outbox relay",
			zap.String("order_id", job.record.ID),
		)
	}
}

// RunPublisher drains the publish queue until Close is called.
func (s *OrderService) RunPublisher(id int) {
	for job := range s.publishQueue {
		ctx := trace.ContextWithSpanContext(context.Background(), job.span)
		if err := s.Publish(ctx, job.record); err != nil {
			s.logger.Warn("order event not published, left in outbox",
				zap.Int("worker", id),
				zap.String("order_id", job.record.ID),
				zap.Error(err),
			)
		}
	}
}

// Publish sends one outbox record and marks it published. It is shared by
// the publisher workers and the outbox relay.
func (s *OrderService) Publish(ctx context.Context, record domain.OutboxRecord) error {
	ctx, span := tracer.Start(ctx, "order.publish")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", record.ID))

	pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	if err := s.publisher.PublishOrderPlaced(pubCtx, record.Event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish")
		return fmt.Errorf("%w: publish order event: %w", domain.ErrUpstreamUnavailable, err)
	}

	err := boundedExec(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.outbox.MarkPublished(ctx, record.ID, s.now().UTC())
	})
	if err != nil {
		// The relay will publish again; consumers are idempotent.
		s.logger.Warn("mark outbox published failed", zap.String("order_id", record.ID), zap.Error(err))
	}
	return nil
}

// Close stops the publisher workers once the queue drains. Orders created
// afterwards are left for the outbox relay. Close is safe to call twice.
func (s *OrderService) Close() {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	if !s.queueClosed {
		s.queueClosed = true
		close(s.publishQueue)
	}
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (domain.OrderDetail, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return domain.OrderDetail{}, err
	}

	user, err := s.users.GetUser(ctx, order.UserID)
	if err != nil {
		s.logger.Warn("user lookup failed",
			zap.String("order_id", orderID),
			zap.String("user_id", order.UserID),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			return domain.OrderDetail{}, err
		}
		return domain.OrderDetail{}, fmt.Errorf("%w: user lookup: %w", domain.ErrUpstreamUnavailable, err)
	}

	return domain.OrderDetail{Order: *order, User: user}, nil
}

// ListOrders returns every order regardless of owner.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := bounded(ctx, s.storeTimeout, s.orders.ListOrders)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus) (domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	from := order.Status
	if err := order.Transition(next, s.now().UTC()); err != nil {
		return domain.Order{}, err
	}
	err = boundedExec(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.orders.UpdateStatus(ctx, orderID, from, next, order.UpdatedAt)
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.logger.Info("order status changed",
		zap.String("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)
	return *order, nil
}

func (s *OrderService) loadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return bounded(ctx, s.storeTimeout, func(ctx context.Context) (*domain.Order, error) {
		return s.orders.GetOrder(ctx, orderID)
	})
}
