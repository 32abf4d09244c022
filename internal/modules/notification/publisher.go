package notification

import (
	"context"

	"pinkblueberry/internal/domain"

	"github.com/rs/zerolog"
)

// Envelope is the wire shape pushed to websocket clients.
type Envelope struct {
	Type    string       `json:"type"`
	Payload domain.Event `json:"payload"`
}

// Publisher forwards domain events to connected websocket clients and the
// structured log. Delivery is best-effort; booking flows never block on it.
type Publisher struct {
	hub *Hub
	log zerolog.Logger
}

func NewPublisher(hub *Hub, log zerolog.Logger) *Publisher {
	return &Publisher{hub: hub, log: log}
}

func (p *Publisher) Publish(_ context.Context, events ...domain.Event) {
	for _, ev := range events {
		p.log.Info().Str("event", ev.EventName()).Interface("payload", ev).Msg("domain event")

		envelope := Envelope{Type: ev.EventName(), Payload: ev}
		switch e := ev.(type) {
		case domain.BookingCreated:
			p.hub.SendToCustomer(e.CustomerID, envelope)
		default:
			// confirm/cancel events go to every connected dashboard
			p.hub.Broadcast(envelope)
		}
	}
}
