package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingCreated is the event emitted after a booking row is committed.
// Consumers (dispatch dashboards, analytics) must tolerate at-most-once
// delivery: publishing is best-effort and never rolls back the booking.
type BookingCreated struct {
	BookingID      string    `json:"booking_id"`
	ClientID       string    `json:"client_id"`
	DriverID       string    `json:"driver_id,omitempty"`
	VehicleClass   string    `json:"vehicle_class"`
	Status         string    `json:"status"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	TotalPrice     float64   `json:"total_price"`
	PickupRegion   string    `json:"pickup_region"`
	DropoffRegion  string    `json:"dropoff_region"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher publishes booking events to Kafka.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// PublishBookingCreated publishes a BookingCreated event keyed by booking ID.
func (p *Publisher) PublishBookingCreated(ctx context.Context, evt BookingCreated) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.BookingID),
		Value: payload,
	})
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
