package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/satoshe-sluggers/ownership-indexer/internal/adapter"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
	"github.com/satoshe-sluggers/ownership-indexer/internal/messaging"
)

type subscriber struct {
	nc   adapter.NatsConn
	js   adapter.JetStream
	cfg  config.NATSConfig
	json adapter.JSON
}

// NewSubscriber creates a NATS JetStream subscriber for purchase events
func NewSubscriber(cfg config.NATSConfig, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Subscriber, error) {
	nc, js, err := connect(cfg, natsJS)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &subscriber{
		nc:   nc,
		js:   js,
		cfg:  cfg,
		json: jsonAdapter,
	}, nil
}

// SubscribePurchases delivers purchase events to the handler until the
// context is canceled
func (s *subscriber) SubscribePurchases(ctx context.Context, handler messaging.PurchaseHandler) error {
	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	consumer, err := s.js.CreateOrUpdateConsumer(setupCtx, s.cfg.StreamName, jetstream.ConsumerConfig{
		Durable:       s.cfg.ConsumerName,
		FilterSubject: s.cfg.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       s.cfg.AckWait,
		MaxDeliver:    s.cfg.MaxDeliver,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	consumeCtx, err := consumer.Consume(func(msg adapter.Message) {
		s.handleMessage(msg, handler)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	<-ctx.Done()

	logger.Info("Draining purchase event consumer")
	consumeCtx.Drain()

	select {
	case <-consumeCtx.Closed():
	case <-time.After(10 * time.Second):
		consumeCtx.Stop()
	}

	return ctx.Err()
}

// handleMessage decodes one broker message and hands it to the handler.
// Malformed payloads are terminated, handler failures are redelivered.
func (s *subscriber) handleMessage(msg adapter.Message, handler messaging.PurchaseHandler) {
	var event domain.PurchaseEvent
	if err := s.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to decode purchase event, terminating"))
		_ = msg.Term()
		return
	}

	if !event.Valid() {
		logger.Warn("Dropping invalid purchase event", zap.String("event_id", event.ID))
		_ = msg.Term()
		return
	}

	if err := handler(&event); err != nil {
		logger.Error(err,
			zap.String("message", "Failed to handle purchase event"),
			zap.String("event_id", event.ID),
		)
		_ = msg.Nak()
		return
	}

	_ = msg.Ack()
}

// Close closes the NATS connection
func (s *subscriber) Close() {
	if s.nc == nil {
		return
	}

	s.nc.Close()
}
