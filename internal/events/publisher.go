// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/vasiliy-maslov/storefront/internal/order"
)

const EventOrderRecorded = "order.recorded"

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OrderRecordedItem struct {
	ProductID   *int64 `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   string `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
}

type OrderRecorded struct {
	OrderID           string              `json:"orderId"`
	CheckoutSessionID string              `json:"checkoutSessionId"`
	Email             string              `json:"email"`
	Subtotal          string              `json:"subtotal"`
	ShippingCost      string              `json:"shippingCost"`
	Total             string              `json:"total"`
	Items             []OrderRecordedItem `json:"items"`
	RecordedAt        time.Time           `json:"recordedAt"`
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return NewPublisher(w)
}

func NewPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// PublishOrderRecorded keys the message by order id so events for one order stay ordered.
func (p *KafkaPublisher) PublishOrderRecorded(ctx context.Context, o *order.Order) error {
	event := OrderRecorded{
		OrderID:           o.ID.String(),
		CheckoutSessionID: o.CheckoutSessionID,
		Email:             o.Email,
		Subtotal:          o.Subtotal.StringFixed(2),
		ShippingCost:      o.ShippingCost.StringFixed(2),
		Total:             o.Total.StringFixed(2),
		Items:             make([]OrderRecordedItem, 0, len(o.Items)),
		RecordedAt:        o.CreatedAt,
	}
	for _, item := range o.Items {
		event.Items = append(event.Items, OrderRecordedItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice.String(),
			Quantity:    item.Quantity,
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", EventOrderRecorded, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderRecorded)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", EventOrderRecorded, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
