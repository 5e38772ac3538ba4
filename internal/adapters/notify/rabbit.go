// Package notify publishes fire-and-forget events for the notification
// collaborator. Publish errors are returned so callers can log and ignore
// them; a broker outage never fails a booking.
package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"staybook/internal/domain"
)

const queueName = "staybook.notifications"

// Event is the payload handed to the notification collaborator. Recipient
// contact plus a message type tag and enough metadata to render a message
// without querying the primary database.
type Event struct {
	Type      string `json:"type"` // booking_confirmed|booking_updated|booking_cancelled|waitlist_joined
	Recipient string `json:"recipient"`
	BookingID string `json:"booking_id,omitempty"`
	HotelID   int64  `json:"hotel_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	SentAt    string `json:"sent_at"`
}

type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// New dials the broker and declares the durable notifications queue once.
func New(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Close() error {
	_ = p.ch.Close()
	return p.conn.Close()
}

func (p *Publisher) BookingConfirmed(ctx context.Context, r domain.Reservation) error {
	return p.publish(ctx, bookingEvent("booking_confirmed", r))
}

func (p *Publisher) BookingUpdated(ctx context.Context, r domain.Reservation) error {
	return p.publish(ctx, bookingEvent("booking_updated", r))
}

func (p *Publisher) BookingCancelled(ctx context.Context, r domain.Reservation) error {
	return p.publish(ctx, bookingEvent("booking_cancelled", r))
}

func (p *Publisher) WaitlistJoined(ctx context.Context, e domain.WaitlistEntry) error {
	return p.publish(ctx, Event{
		Type:      "waitlist_joined",
		Recipient: e.GuestEmail,
		HotelID:   e.HotelID,
		CheckIn:   e.Dates.CheckIn(),
		CheckOut:  e.Dates.CheckOut(),
		SentAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

func bookingEvent(typ string, r domain.Reservation) Event {
	return Event{
		Type:      typ,
		Recipient: r.GuestID,
		BookingID: r.ID,
		HotelID:   r.HotelID,
		CheckIn:   r.Dates.CheckIn(),
		CheckOut:  r.Dates.CheckOut(),
		SentAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

func (p *Publisher) publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
