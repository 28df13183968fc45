package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/storefront/internal/events"
	"github.com/vasiliy-maslov/storefront/internal/order"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_PublishOrderRecorded(t *testing.T) {
	w := &fakeWriter{}
	pub := events.NewPublisher(w)

	productID := int64(7)
	o := &order.Order{
		ID:                uuid.Must(uuid.NewV4()),
		CheckoutSessionID: "cs_evt",
		Customer:          order.Customer{Email: "ada@example.com"},
		Subtotal:          decimal.RequireFromString("19.98"),
		ShippingCost:      decimal.RequireFromString("5"),
		Total:             decimal.RequireFromString("24.98"),
		CreatedAt:         time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Items: []order.Item{
			{ProductID: &productID, ProductName: "Bead", UnitPrice: decimal.RequireFromString("9.99"), Quantity: 2},
		},
	}

	require.NoError(t, pub.PublishOrderRecorded(context.Background(), o))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, o.ID.String(), string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, events.EventOrderRecorded, string(msg.Headers[0].Value))

	var got events.OrderRecorded
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "cs_evt", got.CheckoutSessionID)
	assert.Equal(t, "5.00", got.ShippingCost)
	assert.Equal(t, "24.98", got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "9.99", got.Items[0].UnitPrice)
	assert.Equal(t, 2, got.Items[0].Quantity)

	require.NoError(t, pub.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	pub := events.NewPublisher(&fakeWriter{err: assert.AnError})

	err := pub.PublishOrderRecorded(context.Background(), &order.Order{ID: uuid.Must(uuid.NewV4())})
	require.ErrorIs(t, err, assert.AnError)
}
