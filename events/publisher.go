// Package events publishes order lifecycle messages to Kafka. Publishing is
// best effort: a nil Publisher or a broker failure never affects the calling
// workflow.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/eshop-labs/eshop-backend-go/models"
	"github.com/segmentio/kafka-go"
)

const (
	TopicOrderCreated       = "order-created"
	TopicOrderStatusUpdated = "order-status-updated"
)

type Publisher struct {
	created *kafka.Writer
	status  *kafka.Writer
}

// NewPublisher builds writers for the order topics. Returns nil when no
// brokers are configured, which disables publishing.
func NewPublisher(brokers []string) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		created: newWriter(brokers, TopicOrderCreated),
		status:  newWriter(brokers, TopicOrderStatusUpdated),
	}
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, order models.Order) {
	if p == nil {
		return
	}
	p.publish(ctx, p.created, order)
}

func (p *Publisher) OrderStatusUpdated(ctx context.Context, order models.Order) {
	if p == nil {
		return
	}
	p.publish(ctx, p.status, order)
}

func (p *Publisher) publish(ctx context.Context, w *kafka.Writer, order models.Order) {
	payload, err := json.Marshal(order)
	if err != nil {
		log.Printf("events: failed to marshal order %s: %v", order.ID, err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
		Time:  time.Now(),
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		log.Printf("events: failed to publish to %s: %v", w.Topic, err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.created.Close(); err != nil {
		log.Printf("events: close %s: %v", TopicOrderCreated, err)
	}
	if err := p.status.Close(); err != nil {
		log.Printf("events: close %s: %v", TopicOrderStatusUpdated, err)
	}
}
