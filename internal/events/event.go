// Package events carries marketplace domain events between the API and the
// worker over Kafka or RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	PurchaseCreated      Type = "purchase.created"
	ProductCreated       Type = "product.created"
	ProductUpdated       Type = "product.updated"
	ProductDeleted       Type = "product.deleted"
	ProductStatusChanged Type = "product.status_changed"
)

type Event struct {
	Type        Type            `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	UserID      string          `json:"user_id"`
	Data        json.RawMessage `json:"data,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewEvent marshals payload into the event body.
func NewEvent(t Type, aggregateID, userID string, payload interface{}) (Event, error) {
	e := Event{
		Type:        t,
		AggregateID: aggregateID,
		UserID:      userID,
		Timestamp:   time.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
		}
		e.Data = data
	}
	return e, nil
}

// Decode unmarshals the event body into v.
func (e Event) Decode(v interface{}) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %s has no data", e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}
	return nil
}

func encode(e Event) ([]byte, error) {
	return json.Marshal(e)
}

func decode(raw []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return Event{}, fmt.Errorf("failed to parse event: %w", err)
	}
	return e, nil
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Handler processes one event. A returned error is logged by the consumer;
// the message is not redelivered.
type Handler func(ctx context.Context, e Event) error

type Consumer interface {
	// Consume blocks, delivering events to h until ctx is done.
	Consume(ctx context.Context, h Handler) error
	Close() error
}

type PurchaseLine struct {
	ProductID  string          `json:"product_id"`
	Title      string          `json:"title"`
	SellerID   string          `json:"seller_id"`
	SellerName string          `json:"seller_name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

type PurchaseCreatedPayload struct {
	PurchaseID  string          `json:"purchase_id"`
	BuyerID     string          `json:"buyer_id"`
	BuyerName   string          `json:"buyer_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []PurchaseLine  `json:"items"`
}

type ProductPayload struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	SellerID  string          `json:"seller_id"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status,omitempty"`
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
