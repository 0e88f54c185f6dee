// Package events publishes batch-processing status updates to RabbitMQ.
// Notifications are fire-and-forget: a broker outage never affects the
// resume pipeline itself.
package events

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

const exchange = "batch_updates"

type Publisher struct {
	conn *amqp.Connection
}

// Connect dials the broker. An empty URL returns a nil publisher whose
// methods are no-ops, so callers never need to branch on configuration.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Close(); err != nil {
		log.Println("error closing RabbitMQ connection:", err)
	}
}

// PublishBatchUpdate sends one status update for a batch. Errors are
// logged and swallowed.
func (p *Publisher) PublishBatchUpdate(batchID string, update map[string]any) {
	if p == nil || p.conn == nil {
		return
	}

	ch, err := p.conn.Channel()
	if err != nil {
		log.Println("failed to open RabbitMQ channel:", err)
		return
	}
	defer ch.Close()

	body, _ := json.Marshal(update)
	routingKey := fmt.Sprintf("batch.%s", batchID)

	err = ch.Publish(
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Println("failed to publish batch update:", err)
	}
}
