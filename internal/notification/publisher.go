// Package notification publishes domain events to RabbitMQ. Publishing is
// fire-and-forget from the caller's point of view: errors are logged and
// returned, and services treat them as non-fatal.
package notification

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type Publisher struct {
	url string
	log *logrus.Logger
}

// NewPublisher keeps only the broker URL; connections are short-lived and
// opened per publish so a broker restart never wedges the API.
func NewPublisher(url string, log *logrus.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// Enabled reports whether a broker URL was configured. When it is not,
// every publish is a silent no-op.
func (p *Publisher) Enabled() bool { return p.url != "" }

func (p *Publisher) publish(ctx context.Context, queue string, event any) error {
	if !p.Enabled() {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.WithError(err).WithField("queue", queue).Warn("rabbitmq dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.WithError(err).WithField("queue", queue).Warn("rabbitmq channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.log.WithError(err).WithField("queue", queue).Warn("rabbitmq queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.WithError(err).WithField("queue", queue).Warn("event marshal failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.log.WithError(err).WithField("queue", queue).Warn("rabbitmq publish failed")
		return err
	}
	return nil
}

func (p *Publisher) BookingCreated(ctx context.Context, ev BookingCreatedEvent) error {
	return p.publish(ctx, QueueBookingCreated, ev)
}

func (p *Publisher) BookingDecided(ctx context.Context, ev BookingDecidedEvent) error {
	return p.publish(ctx, QueueBookingDecided, ev)
}

func (p *Publisher) BookingCancelled(ctx context.Context, ev BookingCancelledEvent) error {
	return p.publish(ctx, QueueBookingCancelled, ev)
}

func (p *Publisher) PaymentSettled(ctx context.Context, ev PaymentSettledEvent) error {
	return p.publish(ctx, QueuePaymentSettled, ev)
}

func (p *Publisher) PaymentDue(ctx context.Context, ev PaymentDueEvent) error {
	return p.publish(ctx, QueuePaymentDue, ev)
}
