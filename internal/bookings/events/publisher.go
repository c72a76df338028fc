// Package events publishes booking change notifications to Kafka for
// downstream consumers. Publishing is best-effort: a failed publish is
// logged and never fails the user-facing operation.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"equipbook/pkg/kafka"
	"equipbook/pkg/logger"
	"equipbook/pkg/model"
)

const (
	TypeCreated = "booking.created"
	TypeDeleted = "booking.deleted"

	headerEventID   = "event-id"
	headerEventType = "event-type"
	headerSource    = "source"
)

type Envelope struct {
	EventID   string         `json:"event_id"`
	Type      string         `json:"type"`
	BookingID string         `json:"booking_id"`
	Booking   *model.Booking `json:"booking,omitempty"`
	At        time.Time      `json:"at"`
}

type Publisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

// NewPublisher wraps a producer. A nil producer disables publishing; every
// method becomes a no-op so callers never need to branch.
func NewPublisher(producer *kafka.Producer, source string, log *logger.Logger) *Publisher {
	return &Publisher{producer: producer, source: source, log: log}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking model.Booking) {
	// The deletion secret never leaves the store path.
	booking.Password = ""
	p.publish(ctx, Envelope{
		EventID:   uuid.New().String(),
		Type:      TypeCreated,
		BookingID: booking.ID,
		Booking:   &booking,
		At:        time.Now().UTC(),
	})
}

func (p *Publisher) BookingDeleted(ctx context.Context, id string) {
	p.publish(ctx, Envelope{
		EventID:   uuid.New().String(),
		Type:      TypeDeleted,
		BookingID: id,
		At:        time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, envelope Envelope) {
	if p.producer == nil {
		return
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		p.log.Error("Failed to encode booking event", "type", envelope.Type, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   envelope.BookingID,
		Value: value,
		Headers: map[string]string{
			headerEventID:   envelope.EventID,
			headerEventType: envelope.Type,
			headerSource:    p.source,
		},
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish booking event",
			"type", envelope.Type,
			"booking_id", envelope.BookingID,
			"error", err,
		)
		return
	}

	p.log.Debug("Booking event published", "type", envelope.Type, "booking_id", envelope.BookingID)
}
