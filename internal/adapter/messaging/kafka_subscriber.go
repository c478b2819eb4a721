package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/core/domain"
	"github.com/rl1809/shopcore/internal/port"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaReader returns a consumer-group reader with explicit commits.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
}

type SubscriberOptions struct {
	MaxAttempts int
	Backoff     time.Duration
	MaxBackoff  time.Duration

	// HoldOnUnavailable keeps retrying a message whose handler reports
	// ErrUpstreamUnavailable until it succeeds or the context ends,
	// ignoring MaxAttempts. Other failures still give up after MaxAttempts.
	HoldOnUnavailable bool
}

// KafkaSubscriber delivers each message to a handler at least once. A
// message is committed only after the handler succeeds or its retries run out.
type KafkaSubscriber struct {
	reader      messageReader
	logger      *zap.Logger
	maxAttempts int
	backoff     time.Duration
	maxBackoff  time.Duration
	hold        bool
}

func NewKafkaSubscriber(reader messageReader, logger *zap.Logger, opts SubscriberOptions) *KafkaSubscriber {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 200 * time.Millisecond
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 5 * time.Second
	}
	return &KafkaSubscriber{
		reader:      reader,
		logger:      logger,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		maxBackoff:  opts.MaxBackoff,
		hold:        opts.HoldOnUnavailable,
	}
}

// Run consumes until ctx is cancelled or the reader is closed.
func (s *KafkaSubscriber) Run(ctx context.Context, handler port.EventHandler) error {
	for {
		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			s.logger.Error("fetch message failed", zap.Error(err))
			if !sleep(ctx, s.backoff) {
				return nil
			}
			continue
		}

		if !s.handle(ctx, msg, handler) {
			// Cancelled mid-retry; leave the offset for the next consumer.
			return nil
		}

		if err := s.reader.CommitMessages(ctx, msg); err != nil {
			s.logger.Error("commit message failed",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// handle reports whether the message may be committed.
func (s *KafkaSubscriber) handle(ctx context.Context, msg kafka.Message, handler port.EventHandler) bool {
	carrier := propagation.MapCarrier{}
	for _, h := range msg.Headers {
		carrier[h.Key] = string(h.Value)
	}
	msgCtx := otel.GetTextMapPropagator().Extract(ctx, carrier)

	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil || event.OrderID == "" {
		s.logger.Error("dropping malformed order event",
			zap.ByteString("key", msg.Key),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return true
	}

	wait := s.backoff
	for attempt := 1; ; attempt++ {
		err := handler(msgCtx, event)
		if err == nil {
			return true
		}
		held := s.hold && errors.Is(err, domain.ErrUpstreamUnavailable)
		if attempt >= s.maxAttempts && !held {
			s.logger.Error("order event handling failed, giving up",
				zap.String("order_id", event.OrderID),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return true
		}

		s.logger.Warn("order event handling failed, redelivering",
			zap.String("order_id", event.OrderID),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		if !sleep(ctx, wait) {
			return false
		}
		wait = min(wait*2, s.maxBackoff)
	}
}

func (s *KafkaSubscriber) Close() error {
	return s.reader.Close()
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
