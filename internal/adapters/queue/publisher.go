// Package queue publishes and consumes registration events over RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"eduevent/internal/domain"
)

// RegistrationConfirmedQueue is the durable queue confirmed registrations are published to.
const RegistrationConfirmedQueue = "registration.confirmed"

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements domain.RegistrationPublisher on a long-lived AMQP connection.
// The channel is reopened on the next publish after a failure.
type Publisher struct {
	url    string
	logger *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   channel
	dial func() (channel, error)
}

// NewPublisher dials url and declares the registration queue.
func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	p := &Publisher{url: url, logger: logger}
	p.dial = p.dialChannel
	if _, err := p.channel(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) dialChannel() (channel, error) {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("amqp dial: %w", err)
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel open: %w", err)
	}
	return ch, nil
}

// channel returns the open channel, dialing one if needed. Callers hold p.mu or are the constructor.
func (p *Publisher) channel() (channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	ch, err := p.dial()
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(RegistrationConfirmedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.ch = ch
	return ch, nil
}

func (p *Publisher) PublishRegistrationConfirmed(ctx context.Context, msg *domain.RegistrationConfirmed) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal registration confirmed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.RegistrationID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", RegistrationConfirmedQueue, false, false, pub); err != nil {
		_ = ch.Close()
		p.ch = nil
		return fmt.Errorf("amqp publish: %w", err)
	}
	p.logger.DebugContext(ctx, "published registration confirmed", "registration_id", msg.RegistrationID)
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// RegistrationConfirmedHandler processes one confirmed registration.
type RegistrationConfirmedHandler interface {
	HandleRegistrationConfirmed(ctx context.Context, msg *domain.RegistrationConfirmed) error
}

// InlinePublisher hands messages straight to a handler in-process. It is used when no broker is configured.
type InlinePublisher struct {
	handler RegistrationConfirmedHandler
}

func NewInlinePublisher(handler RegistrationConfirmedHandler) *InlinePublisher {
	return &InlinePublisher{handler: handler}
}

func (p *InlinePublisher) PublishRegistrationConfirmed(ctx context.Context, msg *domain.RegistrationConfirmed) error {
	return p.handler.HandleRegistrationConfirmed(ctx, msg)
}
