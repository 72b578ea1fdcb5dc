// Package queue_publisher provides functions to publish row-change events to
// RabbitMQ. Errors are logged and returned so callers can ignore failures
// without interrupting the main request flow: a mutation that persisted but
// failed to publish is repaired by the next poll cycle.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/union-raid-tracker/internal/logger"
	"github.com/iliyamo/union-raid-tracker/internal/metrics"
	q "github.com/iliyamo/union-raid-tracker/internal/queue"
)

// Publisher satisfies the handler package's EventPublisher interface.
type Publisher struct{}

// New returns a broker publisher.
func New() *Publisher { return &Publisher{} }

// Publish sends a RowChangeEvent to the raid.row_changes queue. The function
// attempts to be robust and to never panic; any error is logged and returned
// so the caller can choose to ignore it. Messages are marked as persistent.
func (p *Publisher) Publish(ctx context.Context, event q.RowChangeEvent) error {
	log := logger.Sugar()
	outcome := "ok"
	defer func() { metrics.EventsPublished.WithLabelValues(event.Entity, outcome).Inc() }()

	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Warnf("rabbitmq: dial failed: %v", err)
		outcome = "error"
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warnf("rabbitmq: channel open failed: %v", err)
		outcome = "error"
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.RowChangeQueue, // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	); err != nil {
		log.Warnf("rabbitmq: queue declare failed: %v", err)
		outcome = "error"
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Warnf("rabbitmq: marshal event failed: %v", err)
		outcome = "error"
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",               // default exchange
		q.RowChangeQueue, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		pub,
	); err != nil {
		log.Warnf("rabbitmq: publish failed: %v", err)
		outcome = "error"
		return err
	}

	return nil
}
