package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

type BookingSource string

const (
	SourceOnline  BookingSource = "online"
	SourcePhone   BookingSource = "phone"
	SourceWalkIn  BookingSource = "walk_in"
)

const (
	minRescheduleNotice = 24 * time.Hour
	minCancelNotice     = 2 * time.Hour
)

// Booking is the aggregate root for an appointment. It owns its line items
// exclusively and is mutated only through its own methods; duration and total
// are recomputed from the line items on every add/remove and never set directly.
type Booking struct {
	ID                 uuid.UUID         `json:"id"`
	BranchID           uuid.UUID         `json:"branch_id"`
	CustomerID         uuid.UUID         `json:"customer_id"`
	Status             BookingStatus     `json:"status"`
	ScheduledAt        time.Time         `json:"scheduled_at"`
	DurationMinutes    int               `json:"duration_minutes"`
	TotalAmount        Money             `json:"total_amount"`
	DepositPaid        Money             `json:"deposit_paid"`
	Source             BookingSource     `json:"source"`
	Services           []*BookingService `json:"services"`
	ConfirmedAt        *time.Time        `json:"confirmed_at,omitempty"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func NewBooking(branchID, customerID uuid.UUID, scheduledAt time.Time, source BookingSource, currency string, now time.Time) (*Booking, error) {
	if !scheduledAt.After(now) {
		return nil, ErrInvalidScheduleTime
	}
	return &Booking{
		ID:          uuid.New(),
		BranchID:    branchID,
		CustomerID:  customerID,
		Status:      StatusPending,
		ScheduledAt: scheduledAt,
		TotalAmount: ZeroMoney(currency),
		DepositPaid: ZeroMoney(currency),
		Source:      source,
		Services:    []*BookingService{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Created builds the creation event once the line items are in place.
func (b *Booking) Created() BookingCreated {
	return BookingCreated{
		BookingID:   b.ID,
		BranchID:    b.BranchID,
		CustomerID:  b.CustomerID,
		ScheduledAt: b.ScheduledAt,
		TotalAmount: b.TotalAmount.Amount(),
		Currency:    b.TotalAmount.Currency(),
	}
}

func (b *Booking) AddService(item *BookingService) error {
	if b.Status != StatusPending {
		return ErrBookingLocked
	}
	if item.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	item.BookingID = b.ID
	b.Services = append(b.Services, item)
	return b.recomputeTotals()
}

func (b *Booking) RemoveService(itemID uuid.UUID) error {
	if b.Status != StatusPending {
		return ErrBookingLocked
	}
	for i, item := range b.Services {
		if item.ID == itemID {
			b.Services = append(b.Services[:i], b.Services[i+1:]...)
			return b.recomputeTotals()
		}
	}
	return ErrInvalidServices
}

func (b *Booking) ServiceByID(itemID uuid.UUID) (*BookingService, bool) {
	for _, item := range b.Services {
		if item.ID == itemID {
			return item, true
		}
	}
	return nil, false
}

// recomputeTotals is the only place duration and total are derived.
func (b *Booking) recomputeTotals() error {
	total := ZeroMoney(b.TotalAmount.Currency())
	minutes := 0
	for _, item := range b.Services {
		sum, err := total.Add(item.Price)
		if err != nil {
			return err
		}
		total = sum
		minutes += item.DurationMinutes
	}
	b.TotalAmount = total
	b.DurationMinutes = minutes
	return nil
}

func (b *Booking) Confirm(now time.Time) (Event, error) {
	if b.Status != StatusPending {
		return nil, ErrInvalidTransition
	}
	if len(b.Services) == 0 {
		return nil, ErrNoServices
	}
	b.Status = StatusConfirmed
	b.ConfirmedAt = &now
	b.UpdatedAt = now
	return BookingConfirmed{BookingID: b.ID, BranchID: b.BranchID, ScheduledAt: b.ScheduledAt}, nil
}

func (b *Booking) Start(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	b.Status = StatusInProgress
	b.UpdatedAt = now
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusInProgress {
		return ErrInvalidTransition
	}
	b.Status = StatusCompleted
	b.CompletedAt = &now
	b.UpdatedAt = now
	return nil
}

// Cancel also cancels every unfinished line item, releasing the staff
// intervals the no-double-booking constraint holds for them.
func (b *Booking) Cancel(reason string, now time.Time) (Event, error) {
	if b.Status == StatusCompleted || b.Status == StatusCancelled {
		return nil, ErrInvalidTransition
	}
	for _, item := range b.Services {
		if item.Status != ServiceItemCompleted {
			item.Status = ServiceItemCancelled
		}
	}
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.CancellationReason = reason
	b.UpdatedAt = now
	return BookingCancelled{BookingID: b.ID, BranchID: b.BranchID, Reason: reason}, nil
}

// MarkNoShow is driven by an out-of-band sweep once the appointment time has
// passed without the customer arriving.
func (b *Booking) MarkNoShow(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	if now.Before(b.ScheduledAt) {
		return ErrInvalidTransition
	}
	b.Status = StatusNoShow
	b.UpdatedAt = now
	return nil
}

// Reschedule moves the booking and shifts every line item by the same delta,
// keeping staff assignments. It does not re-check availability; the domain
// service validates the new slot before calling this.
func (b *Booking) Reschedule(newTime time.Time, now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	if !newTime.After(now) {
		return ErrInvalidScheduleTime
	}
	delta := newTime.Sub(b.ScheduledAt)
	b.ScheduledAt = newTime
	for _, item := range b.Services {
		item.StartTime = item.StartTime.Add(delta)
	}
	b.UpdatedAt = now
	return nil
}

// PayDeposit accumulates into DepositPaid. The total is intentionally not an
// upper bound; overpayment shows up as a negative remaining balance.
func (b *Booking) PayDeposit(amount Money) error {
	if b.Status == StatusCompleted || b.Status == StatusCancelled {
		return ErrInvalidTransition
	}
	sum, err := b.DepositPaid.Add(amount)
	if err != nil {
		return err
	}
	b.DepositPaid = sum
	return nil
}

func (b *Booking) CanReschedule(now time.Time) bool {
	return b.Status == StatusConfirmed && b.ScheduledAt.Sub(now) >= minRescheduleNotice
}

func (b *Booking) CanCancel(now time.Time) bool {
	if b.Status == StatusCompleted || b.Status == StatusCancelled {
		return false
	}
	return b.ScheduledAt.Sub(now) >= minCancelNotice
}

func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusNoShow
}

func (b *Booking) EndTime() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

func (b *Booking) Slot() TimeSlot {
	return TimeSlot{Start: b.ScheduledAt, End: b.EndTime()}
}

// RemainingBalance may be negative when the deposit exceeds the total.
func (b *Booking) RemainingBalance() Money {
	diff, err := b.TotalAmount.Sub(b.DepositPaid)
	if err != nil {
		return b.TotalAmount
	}
	return diff
}
