package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types published to the order topic.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderPaid          = "order.paid"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message body published for order lifecycle changes.
type OrderEvent struct {
	Type        string  `json:"type"`
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	UserID      string  `json:"user_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
	OccurredAt  int64   `json:"occurred_at"`
}

// Producer publishes order lifecycle events to Kafka. A nil Producer is
// valid and drops all events, so callers never need to guard emissions.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a Producer for the given broker list. An empty broker
// list returns nil, which disables publishing.
func NewProducer(brokers, topic string) *Producer {
	if strings.TrimSpace(brokers) == "" {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{writer: writer}
}

// Publish sends an order event. Failures are logged, never fatal: event
// delivery is bookkeeping, not part of the order flow.
func (p *Producer) Publish(ctx context.Context, event OrderEvent) {
	if p == nil {
		return
	}

	event.OccurredAt = time.Now().Unix()

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Events] marshal failed for %s: %v", event.Type, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	}); err != nil {
		log.Printf("[Events] publish %s for order %s failed: %v", event.Type, event.OrderID, err)
	}
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
