package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"photogallery/internal/logging"
)

// amqpChannel is the part of *amqp.Channel the queue uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// DialAMQP opens a connection and a channel on url.
func DialAMQP(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("amqp channel: %w", err)
	}
	return conn, ch, nil
}

// AMQPQueue publishes to a durable queue through the default exchange.
type AMQPQueue struct {
	ch     amqpChannel
	name   string
	logger *logging.Logger
}

var (
	_ Dispatcher = (*AMQPQueue)(nil)
	_ Consumer   = (*AMQPQueue)(nil)
)

// NewAMQPQueue declares the durable queue called name.
func NewAMQPQueue(ch amqpChannel, name string, logger *logging.Logger) (*AMQPQueue, error) {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", name, err)
	}
	return &AMQPQueue{ch: ch, name: name, logger: logger}, nil
}

func (q *AMQPQueue) Enqueue(ctx context.Context, filePath string) error {
	err := q.ch.PublishWithContext(
		ctx,
		"",
		q.name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "text/plain",
			Body:         []byte(filePath),
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", q.name, err)
	}
	return nil
}

// Run consumes with prefetch 1 and manual ack until ctx is done or the
// delivery channel closes.
func (q *AMQPQueue) Run(ctx context.Context, h Handler) error {
	if err := q.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	msgs, err := q.ch.Consume(q.name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	q.logger.Log(map[string]any{
		"component": "worker",
		"event":     "consumer_started",
		"broker":    "amqp",
		"queue":     q.name,
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", q.name)
			}
			q.handleDelivery(ctx, d, h)
		}
	}
}

// handleDelivery never requeues: a failed or malformed task is dropped.
func (q *AMQPQueue) handleDelivery(ctx context.Context, d amqp.Delivery, h Handler) {
	filePath := string(d.Body)
	if filePath == "" {
		q.logger.Log(map[string]any{
			"component": "worker",
			"event":     "message_dropped",
			"level":     "warn",
			"queue":     q.name,
			"reason":    "empty payload",
		})
		_ = d.Nack(false, false)
		return
	}

	if _, err := h(ctx, filePath); err != nil {
		q.logger.Log(map[string]any{
			"component":     "worker",
			"event":         "task_failed",
			"status":        "error",
			"file_path":     filePath,
			"error_message": err.Error(),
		})
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
