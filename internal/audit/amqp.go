package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSink publishes each entry to a durable RabbitMQ queue.
type AMQPSink struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	mu    sync.Mutex
}

func NewAMQPSink(url, queue string) (*AMQPSink, error) {
	conn, ch, err := OpenQueue(url, queue)
	if err != nil {
		return nil, err
	}
	return &AMQPSink{conn: conn, ch: ch, queue: queue}, nil
}

// OpenQueue dials the broker and declares the durable audit queue.
func OpenQueue(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	return conn, ch, nil
}

func (a *AMQPSink) Write(ctx context.Context, entry Entry) error {
	body, err := json.Marshal(struct {
		Entry
		Message string `json:"message"`
	}{Entry: entry, Message: entry.Message()})
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.ch.PublishWithContext(ctx, "", a.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    entry.OccurredAt,
		Body:         body,
	})
}

func (a *AMQPSink) Close() error {
	if err := a.ch.Close(); err != nil {
		_ = a.conn.Close()
		return err
	}
	return a.conn.Close()
}
