// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"errors"

	"github.com/nexyn/foods-api/internal/domains/orders/ports"
)

// OrderPlacedTopic carries one message per committed purchase, keyed by
// listing id so purchases of the same listing stay ordered.
const OrderPlacedTopic = "orders.placed"

// publisher is the minimal surface needed from the messaging producer.
type publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// KafkaPublisher implements the orders event port on top of Kafka.
type KafkaPublisher struct {
	producer publisher
}

func NewKafkaPublisher(producer publisher) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event ports.OrderPlaced) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka publisher not configured")
	}
	return p.producer.Publish(ctx, event.FoodID, event)
}

var _ ports.EventPublisher = (*KafkaPublisher)(nil)
