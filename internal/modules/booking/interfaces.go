package booking

import (
	"context"
	"time"

	"pinkblueberry/internal/domain"
	"pinkblueberry/internal/modules/availability"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence surface the domain service uses.
// Create and Update must run their staff-overlap re-check inside the same
// transaction that writes the rows.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	Update(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	FindByBranchAndDate(ctx context.Context, branchID uuid.UUID, date time.Time) ([]domain.Booking, error)
	FindByCustomerAndDateRange(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]domain.Booking, error)
}

type BranchRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error)
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

type StaffRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
}

// AvailabilityService answers availability questions and enumerates open slots.
type AvailabilityService interface {
	CheckStaffAvailability(ctx context.Context, staffID uuid.UUID, start time.Time, durationMinutes int) (bool, error)
	GetAvailableTimeSlots(ctx context.Context, branchID uuid.UUID, date time.Time, durationMinutes int) ([]domain.TimeSlot, error)
	FindOptimalStaffAssignment(ctx context.Context, serviceIDs []uuid.UUID, start time.Time, branchID uuid.UUID) ([]availability.StaffAssignment, error)
}

// EventPublisher forwards drained domain events to audit/notification
// collaborators. Publishing is fire-and-forget from the aggregate's view.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event)
}

// DiscountStrategy computes the discount applied to a quote. The default
// strategy returns zero.
type DiscountStrategy interface {
	DiscountFor(ctx context.Context, customerID uuid.UUID, subtotal domain.Money) (domain.Money, error)
}

type noDiscount struct{}

func (noDiscount) DiscountFor(_ context.Context, _ uuid.UUID, subtotal domain.Money) (domain.Money, error) {
	return domain.ZeroMoney(subtotal.Currency()), nil
}

// NoDiscount is the default pricing strategy.
var NoDiscount DiscountStrategy = noDiscount{}
