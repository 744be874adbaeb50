// Package rabbitmq owns the AMQP connection and the notification topology.
//
// Jobs flow through a direct exchange. Receipt reconciliation jobs are first
// published to a delay queue whose per-queue TTL dead-letters them back to
// the exchange after a fixed delay, so the delayed pass survives worker
// restarts instead of living in an in-process timer.
package rabbitmq

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"dely-backend/pkg/config"
	"dely-backend/pkg/logger"
)

const (
	ExchangeNotifications = "notifications"

	QueueNotificationJobs = "notification_jobs"
	QueueReceiptJobs      = "receipt_jobs"
	queueReceiptDelay     = "receipt_delay"

	KeyJobs          = "jobs"
	KeyReceipts      = "receipts"
	KeyReceiptsDelay = "receipts.delay"

	// ReceiptDelay is how long receipt jobs sit in the delay queue before
	// being dead-lettered into receipt_jobs.
	ReceiptDelay = 5 * time.Second

	publishTimeout = 5 * time.Second
)

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     logger.Logger
}

// Connect dials the broker and declares the notification topology.
func Connect(cfg *config.RabbitMQ, log logger.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = channel.ExchangeDeclare(
		ExchangeNotifications, // name
		"direct",              // type
		true,                  // durable
		false,                 // auto-deleted
		false,                 // internal
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		conn.Close()
		return nil, err
	}

	queues := []struct {
		name string
		key  string
		args amqp.Table
	}{
		{QueueNotificationJobs, KeyJobs, nil},
		{QueueReceiptJobs, KeyReceipts, nil},
		{queueReceiptDelay, KeyReceiptsDelay, amqp.Table{
			"x-message-ttl":             int32(ReceiptDelay / time.Millisecond),
			"x-dead-letter-exchange":    ExchangeNotifications,
			"x-dead-letter-routing-key": KeyReceipts,
		}},
	}
	for _, q := range queues {
		_, err = channel.QueueDeclare(
			q.name, // name
			true,   // durable
			false,  // delete when unused
			false,  // exclusive
			false,  // no-wait
			q.args, // arguments
		)
		if err != nil {
			conn.Close()
			return nil, err
		}
		err = channel.QueueBind(q.name, q.key, ExchangeNotifications, false, nil)
		if err != nil {
			conn.Close()
			return nil, err
		}
	}

	log.Action("rabbitmq_connected").Info("Connected to RabbitMQ")
	return &RabbitMQ{
		conn:    conn,
		channel: channel,
		log:     log,
	}, nil
}

// Publish sends a persistent JSON message to the notifications exchange.
func (r *RabbitMQ) Publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return r.channel.PublishWithContext(ctx,
		ExchangeNotifications, // exchange
		routingKey,            // routing key
		false,                 // mandatory
		false,                 // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
}

// Consume starts delivering messages from the named queue. Deliveries must
// be acked or nacked by the caller.
func (r *RabbitMQ) Consume(queue string) (<-chan amqp.Delivery, error) {
	return r.channel.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
