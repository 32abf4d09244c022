package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is a domain event emitted by aggregate operations. Mutating methods
// return their events explicitly; nothing is buffered inside the aggregate.
type Event interface {
	EventName() string
}

type BookingCreated struct {
	BookingID   uuid.UUID       `json:"booking_id"`
	BranchID    uuid.UUID       `json:"branch_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}

func (BookingCreated) EventName() string { return "booking.created" }

type BookingConfirmed struct {
	BookingID   uuid.UUID `json:"booking_id"`
	BranchID    uuid.UUID `json:"branch_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (BookingConfirmed) EventName() string { return "booking.confirmed" }

type BookingCancelled struct {
	BookingID uuid.UUID `json:"booking_id"`
	BranchID  uuid.UUID `json:"branch_id"`
	Reason    string    `json:"reason,omitempty"`
}

func (BookingCancelled) EventName() string { return "booking.cancelled" }
