package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the wire payload consumed by the email worker downstream.
type Event struct {
	Type         string    `json:"type"`
	OrderID      uint      `json:"order_id"`
	ContactEmail string    `json:"contact_email"`
	TotalAmount  float64   `json:"total_amount,omitempty"`
	FromStatus   string    `json:"from_status,omitempty"`
	ToStatus     string    `json:"to_status,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher delivers order events out of band. Callers treat failures
// as non-fatal: a lost notification never rolls back an order.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, orderID uint, contactEmail string, totalAmount float64) error
	PublishOrderStatusChanged(ctx context.Context, orderID uint, contactEmail, from, to string) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprint(e.OrderID)),
		Value: value,
	})
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, orderID uint, contactEmail string, totalAmount float64) error {
	return p.publish(ctx, Event{
		Type:         EventOrderCreated,
		OrderID:      orderID,
		ContactEmail: contactEmail,
		TotalAmount:  totalAmount,
		OccurredAt:   time.Now(),
	})
}

func (p *KafkaPublisher) PublishOrderStatusChanged(ctx context.Context, orderID uint, contactEmail, from, to string) error {
	return p.publish(ctx, Event{
		Type:         EventOrderStatusChanged,
		OrderID:      orderID,
		ContactEmail: contactEmail,
		FromStatus:   from,
		ToStatus:     to,
		OccurredAt:   time.Now(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no broker is configured (local dev, tests).
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, uint, string, float64) error {
	return nil
}

func (NoopPublisher) PublishOrderStatusChanged(context.Context, uint, string, string, string) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
