// Package events publishes order lifecycle events for downstream consumers
// such as fulfillment and accounting.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"storefront/internal/models"
	"time"

	"github.com/Shopify/sarama"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	OrderPlaced    EventType = "order.placed"
	OrderCancelled EventType = "order.cancelled"
	OrderUpdated   EventType = "order.updated"
)

type OrderEvent struct {
	Type          EventType       `json:"type"`
	OrderID       uint            `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Items         []EventItem     `json:"items,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type EventItem struct {
	ProductID *uint `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// NewOrderEvent snapshots order into an event of type t.
func NewOrderEvent(t EventType, order *models.Order) OrderEvent {
	event := OrderEvent{
		Type:          t,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount,
		OccurredAt:    time.Now().UTC(),
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, EventItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return event
}

type Publisher interface {
	Publish(event OrderEvent) error
	Close() error
}

type kafkaPublisher struct {
	topic    string
	producer sarama.SyncProducer
}

// NewKafkaPublisher connects a synchronous producer to brokers.
func NewKafkaPublisher(brokers []string, topic string) (Publisher, error) {
	conf := sarama.NewConfig()
	conf.Producer.Return.Successes = true
	conf.Producer.Return.Errors = true
	conf.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewPublisherFromProducer(producer, topic), nil
}

func NewPublisherFromProducer(producer sarama.SyncProducer, topic string) Publisher {
	return &kafkaPublisher{topic: topic, producer: producer}
}

func (p *kafkaPublisher) Publish(event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Keyed by order number so every event of one order lands on one partition.
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderNumber),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type logPublisher struct{}

// NewLogPublisher returns a Publisher that only logs, used when no brokers are configured.
func NewLogPublisher() Publisher {
	return logPublisher{}
}

func (logPublisher) Publish(event OrderEvent) error {
	log.Printf("event %s order=%s status=%s", event.Type, event.OrderNumber, event.Status)
	return nil
}

func (logPublisher) Close() error { return nil }
