package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"eduevent/internal/domain"
)

const (
	consumerPrefetch   = 20
	maxConsumerBackoff = 30 * time.Second
	requeueDelay       = time.Second
)

// errMalformedMessage marks deliveries that can never be processed.
var errMalformedMessage = errors.New("malformed registration message")

// acknowledger is the settlement half of amqp.Delivery.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Consumer reads registration.confirmed messages and passes them to a handler.
type Consumer struct {
	url          string
	handler      RegistrationConfirmedHandler
	logger       *slog.Logger
	requeueDelay time.Duration
}

func NewConsumer(url string, handler RegistrationConfirmedHandler, logger *slog.Logger) *Consumer {
	return &Consumer{url: url, handler: handler, logger: logger, requeueDelay: requeueDelay}
}

// Run consumes until ctx is cancelled, reconnecting with exponential backoff when the broker goes away.
// The backoff starts over after any session that got as far as consuming.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		consumed, err := c.consumeOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if consumed {
			backoff = time.Second
		}
		c.logger.WarnContext(ctx, "registration consumer disconnected", "err", err, "retry_in", backoff.String())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < maxConsumerBackoff {
			backoff *= 2
		}
	}
}

// consumeOnce runs one broker session. consumed reports whether the session reached the delivery loop.
func (c *Consumer) consumeOnce(ctx context.Context) (consumed bool, err error) {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return false, fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return false, fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(consumerPrefetch, 0, false); err != nil {
		return false, fmt.Errorf("set qos: %w", err)
	}
	if _, err := ch.QueueDeclare(RegistrationConfirmedQueue, true, false, false, false, nil); err != nil {
		return false, fmt.Errorf("queue declare: %w", err)
	}
	deliveries, err := ch.ConsumeWithContext(ctx, RegistrationConfirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return false, fmt.Errorf("queue consume: %w", err)
	}
	c.logger.InfoContext(ctx, "registration consumer started", "queue", RegistrationConfirmedQueue)

	for d := range deliveries {
		c.settle(ctx, d, d.MessageId, d.Body)
	}
	return true, errors.New("deliveries channel closed")
}

// settle processes one delivery and acks it. Malformed messages and messages whose user or event no
// longer exists are dropped. Any other handler failure is requeued after requeueDelay.
func (c *Consumer) settle(ctx context.Context, d acknowledger, messageID string, body []byte) {
	err := c.handle(ctx, body)
	if err == nil {
		_ = d.Ack(false)
		return
	}
	if errors.Is(err, errMalformedMessage) || errors.Is(err, domain.ErrNotFound) {
		c.logger.ErrorContext(ctx, "dropping registration confirmed", "message_id", messageID, "err", err)
		_ = d.Nack(false, false)
		return
	}
	c.logger.WarnContext(ctx, "requeueing registration confirmed", "message_id", messageID, "err", err)
	select {
	case <-ctx.Done():
	case <-time.After(c.requeueDelay):
	}
	_ = d.Nack(false, true)
}

func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var msg domain.RegistrationConfirmed
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: %v", errMalformedMessage, err)
	}
	if msg.RegistrationID == "" || msg.UserID == "" {
		return fmt.Errorf("%w: missing registration or user id", errMalformedMessage)
	}
	return c.handler.HandleRegistrationConfirmed(ctx, &msg)
}
